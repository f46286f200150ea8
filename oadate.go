// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellfmt

import (
	"errors"
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/civil"
)

// OLE Automation dates count days from 1899-12-30, the fractional part is the time of day.
// Negative serials keep a positive time of day: -1.25 is 1899-12-29 06:00.
const (
	msPerDay = 24 * 60 * 60 * 1000

	// MaxOADate is the first serial past 9999-12-31.
	MaxOADate = 2958466
	// MinOADate is the serial of 0100-01-01.
	MinOADate = -657435
)

// ErrOADateRange is returned for serials and times outside the representable range.
var ErrOADateRange = errors.New("OLE Automation date out of range")

var oaEpoch = civil.Date{Year: 1899, Month: time.December, Day: 30}

// FromOADate converts an OLE Automation date serial to a UTC time,
// rounded to the nearest millisecond.
func FromOADate(serial float64) (time.Time, error) {
	if math.IsNaN(serial) || serial >= MaxOADate || serial <= MinOADate {
		return time.Time{}, fmt.Errorf("%v: %w", serial, ErrOADateRange)
	}
	half := 0.5
	if serial < 0 {
		half = -0.5
	}
	ms := int64(serial*msPerDay + half)
	if ms < 0 {
		ms -= (ms % msPerDay) * 2
	}
	days, rem := ms/msPerDay, ms%msPerDay
	return oaEpoch.AddDays(int(days)).In(time.UTC).Add(time.Duration(rem) * time.Millisecond), nil
}

// ToOADate converts the wall clock of t (its location is ignored) to an
// OLE Automation date serial, truncated to milliseconds.
func ToOADate(t time.Time) (float64, error) {
	dt := civil.DateTimeOf(t)
	if dt.Date.Year < 100 || dt.Date.Year > 9999 {
		return 0, fmt.Errorf("%v: %w", dt, ErrOADateRange)
	}
	ms := int64(dt.Date.DaysSince(oaEpoch))*msPerDay +
		int64(dt.Time.Hour)*3_600_000 + int64(dt.Time.Minute)*60_000 +
		int64(dt.Time.Second)*1000 + int64(dt.Time.Nanosecond)/1_000_000
	if ms < 0 {
		if frac := ms % msPerDay; frac != 0 {
			ms -= (msPerDay + frac) * 2
		}
	}
	return float64(ms) / msPerDay, nil
}
