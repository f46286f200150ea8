// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/UNO-SOFT/cellfmt"
	"github.com/UNO-SOFT/cellfmt/numfmt"
)

// Decode parses the raw text of a cell as the given type.
//
// Empty text is not an error: it returns an empty value keeping typ.
// Whitespace is not empty: it is a String as is, and malformed for the numeric types.
// When the text cannot be parsed as the committed type, the error is
// a *cellfmt.CellError of kind cellfmt.ErrTypeWrong.
//
// formatID and code are recorded on the returned value,
// pass cellfmt.NoFormat and "" when the value has no number format.
func Decode(raw string, typ cellfmt.CellType, formatID int, code string) (cellfmt.Value, error) {
	v, err := decode(raw, typ)
	if err != nil {
		return cellfmt.EmptyValue(typ), err
	}
	v.FormatID, v.FormatCode = formatID, code
	return v, nil
}

func decode(raw string, typ cellfmt.CellType) (cellfmt.Value, error) {
	if raw == "" {
		return cellfmt.EmptyValue(typ), nil
	}
	wrong := func() error {
		return cellfmt.NewError("decode "+typ.String(), cellfmt.ErrTypeWrong, raw, nil)
	}
	switch typ {
	case cellfmt.String:
		return cellfmt.StringValue(raw), nil

	case cellfmt.Error:
		return cellfmt.ErrorValue(raw), nil

	case cellfmt.Boolean:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return cellfmt.Value{}, wrong()
		}
		return cellfmt.BoolValue(b), nil

	case cellfmt.Integer:
		i, ok := ParseInt(raw)
		if !ok {
			return cellfmt.Value{}, wrong()
		}
		return cellfmt.IntValue(i), nil

	case cellfmt.Double:
		f, ok := ParseReal(raw)
		if !ok {
			return cellfmt.Value{}, wrong()
		}
		return cellfmt.FloatValue(f), nil

	case cellfmt.DateOnly, cellfmt.DateTime, cellfmt.TimeOnly:
		f, ok := ParseReal(raw)
		if !ok {
			return cellfmt.Value{}, wrong()
		}
		t, err := cellfmt.FromOADate(f)
		if err != nil {
			return cellfmt.Value{}, cellfmt.NewError("decode "+typ.String(), cellfmt.ErrTypeWrong, raw, err)
		}
		switch typ {
		case cellfmt.DateOnly:
			return cellfmt.DateValue(civil.DateOf(t)), nil
		case cellfmt.TimeOnly:
			return cellfmt.TimeValue(civil.TimeOf(t)), nil
		default:
			return cellfmt.DateTimeValue(civil.DateTimeOf(t)), nil
		}
	}
	// The format does not commit to a type (such as "@"): keep the text as is.
	return cellfmt.Value{Type: cellfmt.Undefined, Text: raw, FormatID: cellfmt.NoFormat}, nil
}

// DecodeGeneral sniffs the type of raw text which has no usable number format.
//
// Blank text is an empty Undefined value, then an integer is tried,
// then a real number (with the decimal separator normalization of ParseReal).
// Anything else is an Undefined value holding the text.
func DecodeGeneral(raw string) cellfmt.Value {
	if strings.TrimSpace(raw) == "" {
		return cellfmt.EmptyValue(cellfmt.Undefined)
	}
	if i, ok := ParseInt(raw); ok {
		return cellfmt.IntValue(i)
	}
	if f, ok := ParseReal(raw); ok {
		return cellfmt.FloatValue(f)
	}
	return cellfmt.Value{Type: cellfmt.Undefined, Text: raw, FormatID: cellfmt.NoFormat}
}

// Decoder decodes cells by their resolved number format id.
type Decoder struct {
	// Formats resolves custom ids; without it only built-in ids are known.
	Formats *numfmt.Registry
}

// DecodeCell decodes the raw text of a cell whose style resolves to the format id.
//
// General and unknown ids fall back to DecodeGeneral.
func (d Decoder) DecodeCell(raw string, id cellfmt.FormatID) (cellfmt.Value, error) {
	code, typ, ok := numfmt.BuiltIn(id)
	if !ok && d.Formats != nil && id.IsCustom() {
		code, typ, ok = d.Formats.Resolve(id)
	}
	if !ok {
		return DecodeGeneral(raw).WithFormat(id, ""), nil
	}
	return Decode(raw, typ, int(id), code)
}
