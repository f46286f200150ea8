// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package styles keeps the cell style table of a document append-only
// and deduplicated while cells get their number formats changed.
package styles

import (
	"fmt"
	"strings"

	"github.com/UNO-SOFT/cellfmt"
)

// Ref is the identity of a font, fill, border, alignment or protection
// setting referenced by a style record.
type Ref int

// None is the Ref of an unset attribute.
const None Ref = -1

// IsSet reports whether the attribute is set.
func (r Ref) IsSet() bool { return r != None }

// Record is a row of the style table.
//
// Only NumFmt is ever changed by this package; the other attributes are
// compared by identity and copied as is.
type Record struct {
	// NumFmt is nil when the row has no number format attribute.
	NumFmt     *cellfmt.FormatID
	Font       Ref
	Fill       Ref
	Border     Ref
	Alignment  Ref
	Protection Ref
}

// Plain returns a record with no attributes set.
func Plain() Record {
	return Record{Font: None, Fill: None, Border: None, Alignment: None, Protection: None}
}

// NumFmtID returns the number format id, General when unset.
func (r Record) NumFmtID() cellfmt.FormatID {
	if r.NumFmt == nil {
		return cellfmt.General
	}
	return *r.NumFmt
}

// HasNumFmt reports whether the record applies a number format other than General.
func (r Record) HasNumFmt() bool { return r.NumFmtID() != cellfmt.General }

// OnlyNumFmt reports whether none of the non-format attributes are set.
func (r Record) OnlyNumFmt() bool {
	return !(r.Font.IsSet() || r.Fill.IsSet() || r.Border.IsSet() || r.Alignment.IsSet() || r.Protection.IsSet())
}

// WithNumFmt returns a copy of r with the number format replaced.
func (r Record) WithNumFmt(id *cellfmt.FormatID) Record {
	if id != nil {
		id = id.Ptr()
	}
	r.NumFmt = id
	return r
}

func (r Record) String() string {
	var buf strings.Builder
	if r.NumFmt == nil {
		buf.WriteString("numFmt=-")
	} else {
		fmt.Fprintf(&buf, "numFmt=%d", *r.NumFmt)
	}
	for _, a := range []struct {
		Name string
		Ref  Ref
	}{{"font", r.Font}, {"fill", r.Fill}, {"border", r.Border}, {"alignment", r.Alignment}, {"protection", r.Protection}} {
		if a.Ref.IsSet() {
			fmt.Fprintf(&buf, " %s=%d", a.Name, a.Ref)
		}
	}
	return buf.String()
}

// key is the structural identity of a Record.
// An absent number format equals General.
type key struct {
	numFmt                                    cellfmt.FormatID
	font, fill, border, alignment, protection Ref
}

func (r Record) key() key {
	return key{
		numFmt:     r.NumFmtID(),
		font:       r.Font,
		fill:       r.Fill,
		border:     r.Border,
		alignment:  r.Alignment,
		protection: r.Protection,
	}
}
