// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellfmt

import (
	"math"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// NoFormat is the Value.FormatID of values not originating from a number format.
const NoFormat = -1

// Value is a typed cell value.
//
// Exactly one of the payload fields is meaningful, selected by Type.
// An empty cell keeps the inferred Type with IsEmpty set,
// so a blank date cell still reports DateOnly.
type Value struct {
	Date       civil.Date
	DateTime   civil.DateTime
	Time       civil.Time
	FormatCode string
	// Formula is the source formula text of the cell, informational only.
	Formula string
	// Text holds String values, the literal of Error values
	// and the raw text of Undefined values.
	Text     string
	FormatID int
	Int      int64
	Float    float64
	Type     CellType
	IsEmpty  bool
	Bool     bool
}

// EmptyValue returns a blank value of the given type.
func EmptyValue(typ CellType) Value {
	return Value{Type: typ, IsEmpty: true, FormatID: NoFormat}
}

func StringValue(s string) Value { return Value{Type: String, Text: s, FormatID: NoFormat} }
func IntValue(i int64) Value     { return Value{Type: Integer, Int: i, FormatID: NoFormat} }
func FloatValue(f float64) Value { return Value{Type: Double, Float: f, FormatID: NoFormat} }
func BoolValue(b bool) Value     { return Value{Type: Boolean, Bool: b, FormatID: NoFormat} }

// ErrorValue returns an Error typed value holding the literal, such as "#DIV/0!".
func ErrorValue(literal string) Value { return Value{Type: Error, Text: literal, FormatID: NoFormat} }

func DateValue(d civil.Date) Value { return Value{Type: DateOnly, Date: d, FormatID: NoFormat} }
func TimeValue(t civil.Time) Value { return Value{Type: TimeOnly, Time: t, FormatID: NoFormat} }
func DateTimeValue(dt civil.DateTime) Value {
	return Value{Type: DateTime, DateTime: dt, FormatID: NoFormat}
}

// WithFormat returns v annotated with the number format it was decoded with.
func (v Value) WithFormat(id FormatID, code string) Value {
	v.FormatID, v.FormatCode = int(id), code
	return v
}

// AsString returns the value in an invariant textual form.
// Dates use ISO 8601, doubles the shortest representation.
func (v Value) AsString() string {
	if v.IsEmpty {
		return ""
	}
	switch v.Type {
	case String, Error, Undefined:
		return v.Text
	case Integer:
		return strconv.FormatInt(v.Int, 10)
	case Double:
		return FormatFloat(v.Float)
	case Boolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case DateOnly:
		return v.Date.String()
	case DateTime:
		return v.DateTime.String()
	case TimeOnly:
		return v.Time.String()
	}
	return ""
}

// FormatFloat returns the shortest invariant representation of f, with '.' as decimal point.
// Exponent notation is used only for very small or very large magnitudes.
func FormatFloat(f float64) string {
	if a := math.Abs(f); a == 0 || (a >= 1e-5 && a < 1e15) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'G', -1, 64)
}

// AsFloat returns the numeric value.
// Dates and times are returned as OLE Automation serials, a time as its fraction of a day.
func (v Value) AsFloat() (float64, bool) {
	if v.IsEmpty {
		return 0, false
	}
	switch v.Type {
	case Integer:
		return float64(v.Int), true
	case Double:
		return v.Float, true
	case Boolean:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case DateOnly:
		f, err := ToOADate(v.Date.In(time.UTC))
		return f, err == nil
	case DateTime:
		f, err := ToOADate(v.DateTime.In(time.UTC))
		return f, err == nil
	case TimeOnly:
		return TimeFraction(v.Time), true
	}
	return 0, false
}

// AsDate returns the date of a DateOnly or DateTime value.
func (v Value) AsDate() (civil.Date, bool) {
	if v.IsEmpty {
		return civil.Date{}, false
	}
	switch v.Type {
	case DateOnly:
		return v.Date, true
	case DateTime:
		return v.DateTime.Date, true
	}
	return civil.Date{}, false
}

// TimeFraction returns t as a fraction of a day, with millisecond resolution.
func TimeFraction(t civil.Time) float64 {
	ms := int64(t.Hour)*3_600_000 + int64(t.Minute)*60_000 + int64(t.Second)*1000 + int64(t.Nanosecond)/1_000_000
	return float64(ms) / msPerDay
}
