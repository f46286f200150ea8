// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package numfmt

import (
	"strings"

	"github.com/UNO-SOFT/cellfmt"
)

// Infer returns the cell type a format code implies.
//
// This is pattern-character sniffing, not a format grammar parser:
// a lone "m" is taken as minute, "d-mmm" has no "h" nor "y" so it is a time,
// and quoted literals count as well. Stored files depend on exactly this
// behaviour, so the ambiguities are kept.
func Infer(code string) cellfmt.CellType {
	if strings.TrimSpace(code) == "" {
		return cellfmt.Undefined
	}
	hasDate := strings.ContainsAny(code, "yd")
	hasHour := strings.Contains(code, "h")
	switch {
	case hasDate && hasHour:
		return cellfmt.DateTime
	case strings.Contains(code, "y"):
		return cellfmt.DateOnly
	case hasHour || strings.Contains(code, "m"):
		return cellfmt.TimeOnly
	case strings.ContainsAny(code, "0#"):
		return cellfmt.Double
	}
	return cellfmt.Undefined
}
