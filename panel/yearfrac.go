// SPDX-License-Identifier: MIT

package panel

import (
	"math"
	"time"
)

// YearFrac returns the time from a to b in years: the whole-year difference
// plus the day offset of b from a's month/day in b's year, divided by the
// number of days in b's year. A Feb-29 anchor is read as Feb-28.
//
// Only calendar dates count; clock time and zone are dropped.
//
//	YearFrac(2020-01-01, 2021-01-01) = 1
//	YearFrac(2021-01-01, 2021-07-02) = 182/365
func YearFrac(a, b time.Time) float64 {
	day := a.Day()
	if a.Month() == time.February && day == 29 {
		day = 28
	}
	anchor := time.Date(b.Year(), a.Month(), day, 0, 0, 0, 0, time.UTC)
	end := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := math.Round(end.Sub(anchor).Hours() / 24)

	return float64(b.Year()-a.Year()) + days/float64(daysInYear(b.Year()))
}

// daysInYear is 366 for Gregorian leap years, else 365.
func daysInYear(y int) int {
	if y%4 == 0 && (y%100 != 0 || y%400 == 0) {
		return 366
	}

	return 365
}
