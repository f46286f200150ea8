// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package codec converts between the raw text of a cell and typed values.
package codec

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt parses a base-10 integer, surrounding spaces allowed.
func ParseInt(s string) (int64, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return i, err == nil
}

// ParseReal parses a real number after normalizing the decimal separator.
//
// Every '.' is turned into ',' first, and the result must contain at most one
// ',' which is then taken as the decimal separator. So "12.5" and "12,5" are
// both 12.5, but "1,234.5" is rejected.
// Hexadecimal floats, digit separators, NaN and infinities are rejected.
//
// TODO: the '.' to ',' step comes from a comma-decimal deployment locale;
// revisit once that locale's grouping rules are known.
func ParseReal(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", ",")
	if s == "" || strings.Count(s, ",") > 1 || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
