// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package numfmt knows the built-in number formats, infers cell types from
// format codes and manages the document-local custom formats.
package numfmt

import "github.com/UNO-SOFT/cellfmt"

// Format is a number format id with its format code.
type Format struct {
	Code string
	ID   cellfmt.FormatID
}

type builtIn struct {
	code string
	typ  cellfmt.CellType
}

// GeneralCode is the code of the General (0) format.
// It is not in the catalog, as General has no type of its own.
const GeneralCode = "General"

// CurrencyCode is the code of the built-in accounting format 44.
const CurrencyCode = `_("$"* #,##0.00_);_("$"* \(#,##0.00\);_("$"* "-"??_);_(@_)`

// https://github.com/ClosedXML/ClosedXML/wiki/NumberFormatId-Lookup-Table
//
// Only the ids below are known; 5-8, 23-43, 45-163 are deliberately missing.
var builtIns = map[cellfmt.FormatID]builtIn{
	1:  {"0", cellfmt.Double},
	2:  {"0.00", cellfmt.Double},
	3:  {"#,##0", cellfmt.Integer},
	4:  {"#,##0.00", cellfmt.Double},
	9:  {"0%", cellfmt.Double},
	10: {"0.00 %", cellfmt.Double},
	11: {"0.00E+00", cellfmt.Double},
	12: {"# ?/?", cellfmt.Double},
	13: {"# ??/??", cellfmt.Double},
	14: {"d/m/yyyy", cellfmt.DateOnly},
	15: {"d-mmm-yy", cellfmt.DateOnly},
	16: {"d-mmm", cellfmt.DateOnly},
	17: {"mmm-yy", cellfmt.DateOnly},
	18: {"h:mm AM/PM", cellfmt.TimeOnly},
	19: {"h:mm:ss AM/PM", cellfmt.TimeOnly},
	20: {"h:mm", cellfmt.TimeOnly},
	21: {"h:mm:ss", cellfmt.TimeOnly},
	22: {"m/d/yyyy h:mm", cellfmt.DateTime},
	44: {CurrencyCode, cellfmt.Double},
}

var builtInIDs = func() map[string]cellfmt.FormatID {
	m := make(map[string]cellfmt.FormatID, len(builtIns))
	for id, b := range builtIns {
		m[b.code] = id
	}
	return m
}()

// BuiltIn returns the format code and the cell type of a built-in format id.
//
// General (0) is never found: its type must be sniffed from the raw text.
func BuiltIn(id cellfmt.FormatID) (code string, typ cellfmt.CellType, ok bool) {
	b, ok := builtIns[id]
	return b.code, b.typ, ok
}

// BuiltInID returns the built-in format id of the code, by exact string equality.
func BuiltInID(code string) (cellfmt.FormatID, bool) {
	id, ok := builtInIDs[code]
	return id, ok
}

// BuiltIns returns the known built-in formats ordered by id.
func BuiltIns() []Format {
	fs := make([]Format, 0, len(builtIns))
	for id := cellfmt.General + 1; id <= cellfmt.LastBuiltInID; id++ {
		if b, ok := builtIns[id]; ok {
			fs = append(fs, Format{ID: id, Code: b.code})
		}
	}
	return fs
}
