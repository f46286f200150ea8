// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package styles_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/UNO-SOFT/cellfmt"
	"github.com/UNO-SOFT/cellfmt/styles"
)

func newStore() *styles.MemStore {
	bold := styles.Plain()
	bold.Font = 1
	bordered := styles.Plain()
	bordered.Border, bordered.Fill = 2, 3
	dated := styles.Plain().WithNumFmt(cellfmt.FormatID(14).Ptr())
	return &styles.MemStore{Records: []styles.Record{
		0: styles.Plain().WithNumFmt(cellfmt.General.Ptr()),
		1: bold,
		2: bordered,
		3: dated,
	}}
}

func TestApplyDedup(t *testing.T) {
	store := newStore()
	eng := styles.NewEngine(styles.NewTable(store), nil)
	n := len(store.Records)

	// The same format on many cells with the same style gives one new row.
	var first int
	for i := 0; i < 10; i++ {
		got, err := eng.Apply(2, cellfmt.FormatID(164).Ptr())
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = got
		} else if got != first {
			t.Errorf("%d. got %d, wanted %d", i, got, first)
		}
	}
	if len(store.Records) != n+1 {
		t.Errorf("table grew to %d, wanted %d", len(store.Records), n+1)
	}
	want := styles.Plain().WithNumFmt(cellfmt.FormatID(164).Ptr())
	want.Border, want.Fill = 2, 3
	if d := cmp.Diff(want, store.Records[first]); d != "" {
		t.Error(d)
	}

	// A row which already has the wanted combination is reused.
	got, err := eng.Apply(0, cellfmt.FormatID(14).Ptr())
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("got %d, wanted existing row 3", got)
	}
	if len(store.Records) != n+1 {
		t.Errorf("table grew to %d, wanted %d", len(store.Records), n+1)
	}
}

func TestApplyStates(t *testing.T) {
	for _, tt := range []struct {
		Name    string
		Desired *cellfmt.FormatID
		Current int
		Want    int
		Grow    bool
	}{
		{Name: "clear unformatted", Current: 1, Want: 1},
		{Name: "clear general", Current: 0, Want: 0},
		{Name: "same format", Current: 3, Desired: cellfmt.FormatID(14).Ptr(), Want: 3},
		{Name: "general on unformatted", Current: 1, Desired: cellfmt.General.Ptr(), Want: 1},
		{Name: "clear plain formatted", Current: 3, Want: 0},
		{Name: "format bold", Current: 1, Desired: cellfmt.FormatID(2).Ptr(), Want: 4, Grow: true},
		{Name: "reformat", Current: 3, Desired: cellfmt.FormatID(22).Ptr(), Want: 4, Grow: true},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			store := newStore()
			n := len(store.Records)
			before := append([]styles.Record(nil), store.Records...)
			got, err := styles.NewEngine(styles.NewTable(store), nil).Apply(tt.Current, tt.Desired)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.Want {
				t.Errorf("got %d, wanted %d", got, tt.Want)
			}
			if grown := len(store.Records) > n; grown != tt.Grow {
				t.Errorf("table grown: %t, wanted %t", grown, tt.Grow)
			}
			if d := cmp.Diff(before, store.Records[:n]); d != "" {
				t.Errorf("existing rows changed: %s", d)
			}
		})
	}
}

func TestApplyClearKeepsAttributes(t *testing.T) {
	store := newStore()
	eng := styles.NewEngine(styles.NewTable(store), nil)
	formatted, err := eng.Apply(1, cellfmt.FormatID(14).Ptr())
	if err != nil {
		t.Fatal(err)
	}
	cleared, err := eng.Apply(formatted, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cleared != 1 {
		t.Errorf("got %d, wanted the bold row 1", cleared)
	}
}

func TestTableCatchesUp(t *testing.T) {
	store := newStore()
	table := styles.NewTable(store)
	if _, ok, err := table.Find(styles.Plain().WithNumFmt(cellfmt.FormatID(20).Ptr())); err != nil || ok {
		t.Fatalf("got %t, %+v", ok, err)
	}
	store.Records = append(store.Records, styles.Plain().WithNumFmt(cellfmt.FormatID(20).Ptr()))
	i, ok, err := table.Find(styles.Plain().WithNumFmt(cellfmt.FormatID(20).Ptr()))
	if err != nil || !ok || i != 4 {
		t.Errorf("got %d, %t, %+v, wanted 4", i, ok, err)
	}
	if table.Len() != 5 {
		t.Errorf("Len: got %d", table.Len())
	}
}

func TestObjectNull(t *testing.T) {
	eng := styles.NewEngine(styles.NewTable(nil), nil)
	if _, err := eng.Apply(0, cellfmt.FormatID(14).Ptr()); !errors.Is(err, cellfmt.ErrObjectNull) {
		t.Errorf("nil store: got %+v, wanted %v", err, cellfmt.ErrObjectNull)
	}
	eng = styles.NewEngine(styles.NewTable(newStore()), nil)
	if _, err := eng.Apply(42, cellfmt.FormatID(14).Ptr()); !errors.Is(err, cellfmt.ErrObjectNull) {
		t.Errorf("missing row: got %+v, wanted %v", err, cellfmt.ErrObjectNull)
	}
}

func TestRecordString(t *testing.T) {
	r := styles.Plain().WithNumFmt(cellfmt.FormatID(164).Ptr())
	r.Font = 3
	if got, want := r.String(), "numFmt=164 font=3"; got != want {
		t.Errorf("got %q, wanted %q", got, want)
	}
}
