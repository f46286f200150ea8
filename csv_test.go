package cellfmt

import "testing"

func TestSniffSeparator(t *testing.T) {
	for _, tt := range []struct {
		In   string
		Want rune
	}{
		{"a,b,c", ','},
		{`"a";"b"`, ';'},
		{"2025-10-12\t12.5", '\t'},
		{"abc", ','},
	} {
		if got := sniffSeparator(tt.In); got != tt.Want {
			t.Errorf("%q: got %q, wanted %q", tt.In, got, tt.Want)
		}
	}
}
