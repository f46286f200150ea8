// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package codec_test

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"

	"github.com/UNO-SOFT/cellfmt"
	"github.com/UNO-SOFT/cellfmt/codec"
	"github.com/UNO-SOFT/cellfmt/numfmt"
)

func TestParseReal(t *testing.T) {
	for _, tt := range []struct {
		In   string
		Want float64
		OK   bool
	}{
		{"12.5", 12.5, true},
		{"12,5", 12.5, true},
		{" -0.25 ", -0.25, true},
		{"1e3", 1000, true},
		{"45942", 45942, true},
		{"1,234.5", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
		{"0x1p-2", 0, false},
		{"1_000", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"", 0, false},
	} {
		got, ok := codec.ParseReal(tt.In)
		if ok != tt.OK || got != tt.Want {
			t.Errorf("ParseReal(%q): got %v, %t, wanted %v, %t", tt.In, got, ok, tt.Want, tt.OK)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		Value cellfmt.Value
		Kind  codec.StorageKind
		ID    cellfmt.FormatID
	}{
		{Value: cellfmt.DateValue(civil.Date{Year: 2025, Month: time.October, Day: 12}), ID: 14, Kind: codec.KindNumber},
		{Value: cellfmt.TimeValue(civil.Time{Hour: 10, Minute: 34, Second: 56}), ID: 21, Kind: codec.KindNumber},
		{Value: cellfmt.TimeValue(civil.Time{Hour: 23, Minute: 59, Second: 59, Nanosecond: 999_000_000}), ID: 21, Kind: codec.KindNumber},
		{Value: cellfmt.DateTimeValue(civil.DateTime{
			Date: civil.Date{Year: 1999, Month: time.December, Day: 31},
			Time: civil.Time{Hour: 18, Minute: 30},
		}), ID: 22, Kind: codec.KindNumber},
		{Value: cellfmt.DateValue(civil.Date{Year: 1850, Month: time.March, Day: 1}), ID: 14, Kind: codec.KindNumber},
		{Value: cellfmt.FloatValue(12.5), ID: 2, Kind: codec.KindNumber},
		{Value: cellfmt.FloatValue(-1234567.125), ID: 4, Kind: codec.KindNumber},
		{Value: cellfmt.IntValue(12), ID: 3, Kind: codec.KindNumber},
	} {
		p, err := codec.Encode(tt.Value, tt.ID.Ptr())
		if err != nil {
			t.Fatalf("Encode(%v): %+v", tt.Value, err)
		}
		if p.Kind != tt.Kind {
			t.Errorf("%v: got kind %s, wanted %s", tt.Value, p.Kind, tt.Kind)
		}
		code, typ, _ := numfmt.BuiltIn(tt.ID)
		got, err := codec.Decode(p.Raw, typ, int(tt.ID), code)
		if err != nil {
			t.Fatalf("Decode(%q, %s): %+v", p.Raw, typ, err)
		}
		want := tt.Value.WithFormat(tt.ID, code)
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("%q: %s", p.Raw, d)
		}
	}
}

func TestEncode(t *testing.T) {
	p, err := codec.Encode(cellfmt.DateValue(civil.Date{Year: 2025, Month: time.October, Day: 12}), cellfmt.FormatID(14).Ptr())
	if err != nil {
		t.Fatal(err)
	}
	if p.Raw != "45942" {
		t.Errorf("got %q, wanted 45942", p.Raw)
	}

	if p, err = codec.Encode(cellfmt.FloatValue(0.1), nil); err != nil || p.Raw != "0.1" {
		t.Errorf("got %q, %+v, wanted 0.1", p.Raw, err)
	}
	if p, err = codec.Encode(cellfmt.BoolValue(true), nil); err != nil || p != (codec.Payload{Raw: "1", Kind: codec.KindBoolean}) {
		t.Errorf("got %+v, %+v", p, err)
	}
	if p, err = codec.Encode(cellfmt.EmptyValue(cellfmt.DateOnly), nil); err != nil || p.Kind != codec.KindEmpty {
		t.Errorf("empty: got %+v, %+v", p, err)
	}
	if p, err = codec.Encode(cellfmt.StringValue("abc"), nil); err != nil || p != (codec.Payload{Raw: "abc", Kind: codec.KindString}) {
		t.Errorf("string: got %+v, %+v", p, err)
	}

	for _, v := range []cellfmt.Value{
		cellfmt.DateValue(civil.Date{Year: 2025, Month: time.October, Day: 12}),
		cellfmt.DateTimeValue(civil.DateTime{Date: civil.Date{Year: 2025, Month: time.October, Day: 12}}),
		cellfmt.TimeValue(civil.Time{Hour: 1}),
	} {
		if _, err := codec.Encode(v, nil); !errors.Is(err, cellfmt.ErrFormatMissingForDate) {
			t.Errorf("%v: got %+v, wanted %v", v, err, cellfmt.ErrFormatMissingForDate)
		}
	}
	if _, err := codec.Encode(cellfmt.DateValue(civil.Date{Year: 2025, Month: time.October, Day: 12}), cellfmt.General.Ptr()); err != nil {
		t.Errorf("General is a concrete format id: %+v", err)
	}
}

func TestTimeOnlyHasNoDate(t *testing.T) {
	p, err := codec.Encode(cellfmt.TimeValue(civil.Time{Hour: 12}), cellfmt.FormatID(20).Ptr())
	if err != nil {
		t.Fatal(err)
	}
	if p.Raw != "0.5" {
		t.Errorf("got %q, wanted 0.5", p.Raw)
	}
}

func TestDecode(t *testing.T) {
	if _, err := codec.Decode("abc", cellfmt.Double, 2, "0.00"); !errors.Is(err, cellfmt.ErrTypeWrong) {
		t.Errorf("abc as Double: got %+v, wanted %v", err, cellfmt.ErrTypeWrong)
	}
	if _, err := codec.Decode("12.5", cellfmt.Integer, 3, "#,##0"); !errors.Is(err, cellfmt.ErrTypeWrong) {
		t.Errorf("12.5 as Integer: got %+v, wanted %v", err, cellfmt.ErrTypeWrong)
	}
	if _, err := codec.Decode("9999999", cellfmt.DateOnly, 14, "d/m/yyyy"); !errors.Is(err, cellfmt.ErrTypeWrong) {
		t.Errorf("out of range date: got %+v, wanted %v", err, cellfmt.ErrTypeWrong)
	}
	for _, typ := range []cellfmt.CellType{
		cellfmt.Integer, cellfmt.Double, cellfmt.DateOnly, cellfmt.DateTime,
		cellfmt.TimeOnly, cellfmt.String, cellfmt.Undefined,
	} {
		v, err := codec.Decode("", typ, 0, "")
		if err != nil {
			t.Errorf("empty %s: %+v", typ, err)
		}
		if !v.IsEmpty || v.Type != typ {
			t.Errorf("empty %s: got %+v", typ, v)
		}
	}

	// Only the empty text is blank.
	for _, typ := range []cellfmt.CellType{cellfmt.Integer, cellfmt.Double, cellfmt.Boolean, cellfmt.DateOnly} {
		if v, err := codec.Decode("  ", typ, 0, ""); !errors.Is(err, cellfmt.ErrTypeWrong) {
			t.Errorf("spaces as %s: got %+v, %+v, wanted %v", typ, v, err, cellfmt.ErrTypeWrong)
		}
	}
	if v, err := codec.Decode("  ", cellfmt.String, cellfmt.NoFormat, ""); err != nil || v.IsEmpty || v.Text != "  " {
		t.Errorf("spaces as String: got %+v, %+v", v, err)
	}

	v, err := codec.Decode("45942.75", cellfmt.DateOnly, 14, "d/m/yyyy")
	if err != nil {
		t.Fatal(err)
	}
	if want := (civil.Date{Year: 2025, Month: time.October, Day: 12}); v.Date != want {
		t.Errorf("got %v, wanted %v", v.Date, want)
	}
	if v, err = codec.Decode("45942.75", cellfmt.TimeOnly, 21, "h:mm:ss"); err != nil {
		t.Fatal(err)
	}
	if want := (civil.Time{Hour: 18}); v.Time != want {
		t.Errorf("got %v, wanted %v", v.Time, want)
	}
	if v, err = codec.Decode("-1.25", cellfmt.DateTime, 22, "m/d/yyyy h:mm"); err != nil {
		t.Fatal(err)
	}
	if want := "1899-12-29T06:00:00"; v.DateTime.String() != want {
		t.Errorf("got %v, wanted %s", v.DateTime, want)
	}
}

func TestDecodeGeneral(t *testing.T) {
	for _, tt := range []struct {
		Raw  string
		Want cellfmt.Value
	}{
		{"", cellfmt.EmptyValue(cellfmt.Undefined)},
		{"  ", cellfmt.EmptyValue(cellfmt.Undefined)},
		{"12", cellfmt.IntValue(12)},
		{"12.5", cellfmt.FloatValue(12.5)},
		{"12,5", cellfmt.FloatValue(12.5)},
		{"abc", cellfmt.Value{Type: cellfmt.Undefined, Text: "abc", FormatID: cellfmt.NoFormat}},
	} {
		if d := cmp.Diff(tt.Want, codec.DecodeGeneral(tt.Raw)); d != "" {
			t.Errorf("%q: %s", tt.Raw, d)
		}
	}
}

func TestDecodeCell(t *testing.T) {
	reg := numfmt.NewRegistry(&numfmt.MemStore{})
	dateID, err := reg.GetOrCreate("yyyy-mm-dd")
	if err != nil {
		t.Fatal(err)
	}
	textID, err := reg.GetOrCreate("@")
	if err != nil {
		t.Fatal(err)
	}
	dec := codec.Decoder{Formats: reg}

	for _, tt := range []struct {
		Raw  string
		Want cellfmt.Value
		ID   cellfmt.FormatID
	}{
		{Raw: "45942", ID: dateID, Want: cellfmt.DateValue(civil.Date{Year: 2025, Month: time.October, Day: 12}).WithFormat(dateID, "yyyy-mm-dd")},
		{Raw: "12", ID: cellfmt.General, Want: cellfmt.IntValue(12).WithFormat(0, "")},
		{Raw: "12.5", ID: 5, Want: cellfmt.FloatValue(12.5).WithFormat(5, "")},
		{Raw: "12.5", ID: 10, Want: cellfmt.FloatValue(12.5).WithFormat(10, "0.00 %")},
		{Raw: "12", ID: textID, Want: cellfmt.Value{Type: cellfmt.Undefined, Text: "12"}.WithFormat(textID, "@")},
		{Raw: "12", ID: 999, Want: cellfmt.IntValue(12).WithFormat(999, "")},
	} {
		got, err := dec.DecodeCell(tt.Raw, tt.ID)
		if err != nil {
			t.Errorf("%q/%d: %+v", tt.Raw, tt.ID, err)
			continue
		}
		if d := cmp.Diff(tt.Want, got); d != "" {
			t.Errorf("%q/%d: %s", tt.Raw, tt.ID, d)
		}
	}

	if _, err := (codec.Decoder{}).DecodeCell("abc", 14); !errors.Is(err, cellfmt.ErrTypeWrong) {
		t.Errorf("got %+v, wanted %v", err, cellfmt.ErrTypeWrong)
	}
}
