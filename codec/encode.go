// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"math"
	"strconv"
	"time"

	"github.com/UNO-SOFT/cellfmt"
)

// StorageKind tells how the raw text of a Payload is stored in the cell.
type StorageKind uint8

const (
	// KindEmpty means the cell value is to be cleared.
	KindEmpty StorageKind = iota
	KindNumber
	KindString
	KindBoolean
	KindError
)

func (k StorageKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindError:
		return "error"
	}
	return "StorageKind(" + strconv.Itoa(int(k)) + ")"
}

// Payload is the raw text of an encoded value with its storage kind.
type Payload struct {
	Raw  string
	Kind StorageKind
}

// timeBase is the day TimeOnly values are put on before conversion.
// Only the fractional part of the serial is kept, so the day itself is irrelevant.
var timeBase = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Encode returns the raw payload of v.
//
// Numbers always use '.' as decimal separator.
// Temporal values are OLE Automation serials and need a number format:
// a nil id is a cellfmt.ErrFormatMissingForDate error.
func Encode(v cellfmt.Value, id *cellfmt.FormatID) (Payload, error) {
	if v.IsEmpty {
		return Payload{Kind: KindEmpty}, nil
	}
	if v.Type.IsTemporal() && id == nil {
		return Payload{}, cellfmt.NewError("encode "+v.Type.String(), cellfmt.ErrFormatMissingForDate, v.AsString(), nil)
	}
	number := func(f float64, err error) (Payload, error) {
		if err != nil {
			return Payload{}, cellfmt.NewError("encode "+v.Type.String(), cellfmt.ErrTypeWrong, v.AsString(), err)
		}
		return Payload{Raw: cellfmt.FormatFloat(f), Kind: KindNumber}, nil
	}
	switch v.Type {
	case cellfmt.Integer:
		return Payload{Raw: strconv.FormatInt(v.Int, 10), Kind: KindNumber}, nil

	case cellfmt.Double:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			return Payload{}, cellfmt.NewError("encode Double", cellfmt.ErrTypeWrong, v.AsString(), nil)
		}
		return Payload{Raw: cellfmt.FormatFloat(v.Float), Kind: KindNumber}, nil

	case cellfmt.DateOnly:
		return number(cellfmt.ToOADate(v.Date.In(time.UTC)))

	case cellfmt.DateTime:
		return number(cellfmt.ToOADate(v.DateTime.In(time.UTC)))

	case cellfmt.TimeOnly:
		t := timeBase.Add(time.Duration(v.Time.Hour)*time.Hour +
			time.Duration(v.Time.Minute)*time.Minute +
			time.Duration(v.Time.Second)*time.Second +
			time.Duration(v.Time.Nanosecond).Truncate(time.Millisecond))
		f, err := cellfmt.ToOADate(t)
		return number(f-math.Trunc(f), err)

	case cellfmt.Boolean:
		if v.Bool {
			return Payload{Raw: "1", Kind: KindBoolean}, nil
		}
		return Payload{Raw: "0", Kind: KindBoolean}, nil

	case cellfmt.Error:
		return Payload{Raw: v.Text, Kind: KindError}, nil

	case cellfmt.String:
		return Payload{Raw: v.Text, Kind: KindString}, nil
	}
	if v.Text == "" {
		return Payload{Kind: KindEmpty}, nil
	}
	return Payload{Raw: v.Text, Kind: KindString}, nil
}
