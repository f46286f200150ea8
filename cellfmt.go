// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package cellfmt holds the types shared by the number format catalog,
// the value codec and the style deduplication engine.
package cellfmt

import "strconv"

// FormatID is a number format identifier (numFmtId).
//
// Values 0-163 are reserved for the built-in formats of ECMA-376,
// values from FirstCustomID are document-local custom formats.
type FormatID uint32

const (
	// General is the "no explicit format" id.
	General FormatID = 0
	// LastBuiltInID is the last reserved id.
	LastBuiltInID FormatID = 163
	// FirstCustomID is the first id a custom number format can get.
	FirstCustomID FormatID = 164
)

// IsCustom reports whether the id is in the document-local range.
func (id FormatID) IsCustom() bool { return id >= FirstCustomID }

// Ptr returns a pointer to a copy of id, for the "desired format" arguments.
func (id FormatID) Ptr() *FormatID { return &id }

func (id FormatID) String() string { return strconv.FormatUint(uint64(id), 10) }

// CellType is the semantic type of a cell value.
type CellType uint8

const (
	// Undefined covers both "no type could be inferred" and "blank cell".
	Undefined CellType = iota
	Error
	Boolean
	String
	Integer
	Double
	DateOnly
	DateTime
	TimeOnly
)

var cellTypeNames = [...]string{
	Undefined: "Undefined",
	Error:     "Error",
	Boolean:   "Boolean",
	String:    "String",
	Integer:   "Integer",
	Double:    "Double",
	DateOnly:  "DateOnly",
	DateTime:  "DateTime",
	TimeOnly:  "TimeOnly",
}

func (t CellType) String() string {
	if int(t) < len(cellTypeNames) {
		return cellTypeNames[t]
	}
	return "CellType(" + strconv.Itoa(int(t)) + ")"
}

// IsTemporal reports whether values of this type are stored as OLE Automation serials.
func (t CellType) IsTemporal() bool {
	return t == DateOnly || t == DateTime || t == TimeOnly
}

// IsNumeric reports whether values of this type are stored as numbers.
func (t CellType) IsNumeric() bool {
	return t == Integer || t == Double || t.IsTemporal()
}
