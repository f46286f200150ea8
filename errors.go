// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellfmt

import (
	"errors"
	"strings"
)

var (
	// ErrTypeWrong is returned when the raw text cannot be parsed under the resolved type.
	ErrTypeWrong = errors.New("type wrong")
	// ErrFormatMissingForDate is returned when a date/time value is encoded without a format id.
	ErrFormatMissingForDate = errors.New("format missing for date")
	// ErrObjectNull is returned when a required collaborator (style table, number format list) is absent.
	ErrObjectNull = errors.New("object null")
	// ErrEmptyFormat is returned when an empty format code is registered.
	ErrEmptyFormat = errors.New("empty format code")
)

// CellError is the error returned by the codec, the registry and the style engine.
//
// Kind is one of the sentinel errors above, so errors.Is(err, ErrTypeWrong) works.
type CellError struct {
	Err   error
	Kind  error
	Op    string
	Ref   string
	Value string
}

// NewError returns a *CellError of the given kind.
func NewError(op string, kind error, value string, err error) *CellError {
	return &CellError{Op: op, Kind: kind, Value: value, Err: err}
}

func (e *CellError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Op)
	if e.Ref != "" {
		buf.WriteByte('[')
		buf.WriteString(e.Ref)
		buf.WriteByte(']')
	}
	buf.WriteString(": ")
	buf.WriteString(e.Kind.Error())
	if e.Value != "" {
		buf.WriteString(" (")
		buf.WriteString(e.Value)
		buf.WriteByte(')')
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

func (e *CellError) Unwrap() error { return e.Err }

// Is reports whether target is the Kind of e.
func (e *CellError) Is(target error) bool { return e.Kind == target }

// WithRef returns a copy of e with the cell reference set.
func (e *CellError) WithRef(ref string) *CellError {
	f := *e
	f.Ref = ref
	return &f
}
