// Package market holds the aligned daily series the simulator folds over:
// per-symbol close quotes, overnight reference-rate fixings, and the joined
// per-day records with calendar-day gaps.
package market

import (
	"fmt"
	"math"
	"time"
)

// DateFormat is the ISO-8601 day format used everywhere dates cross a
// boundary (CSV, config, SQLite).
const DateFormat = "2006-01-02"

// ParseDate parses an ISO-8601 day into a canonical midnight-UTC time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want %s: %w", s, DateFormat, err)
	}
	return t.UTC(), nil
}

// Midnight normalizes t to midnight UTC so dates compare with Equal.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Quote is a single daily close for one symbol.
type Quote struct {
	Date  time.Time
	Close float64
}

// Fixing is a single overnight reference-rate observation, as a decimal
// fraction (0.05 == 5%).
type Fixing struct {
	Date time.Time
	Rate float64
}

// Day is one trading day of the aligned pair series.
//
// CalDays is the calendar-day distance to the previous record: 1 between
// consecutive trading days, 3 over a normal weekend, 0 on the first record.
type Day struct {
	Date       time.Time
	PriceLong  float64
	PriceShort float64
	BaseRate   float64
	CalDays    int
}

// Series is an ordered sequence of trading days, strictly increasing by
// date. The accrual engine requires a validated series; see Validate.
type Series []Day

// IndexOf returns the position of date in the series.
func (s Series) IndexOf(date time.Time) (int, bool) {
	want := Midnight(date)
	for i, d := range s {
		if d.Date.Equal(want) {
			return i, true
		}
	}
	return 0, false
}

// Validate checks the preconditions the accrual engine relies on: strictly
// increasing dates, CalDays consistent with the date gaps, strictly positive
// finite prices, and finite base rates not below -100%. A series that fails
// here must not enter the fold; NaNs are rejected up front rather than left
// to propagate through the arithmetic.
func (s Series) Validate() error {
	for i, d := range s {
		if !finite(d.PriceLong) || d.PriceLong <= 0 {
			return fmt.Errorf("series[%d] %s: long price %v must be a positive finite number",
				i, d.Date.Format(DateFormat), d.PriceLong)
		}
		if !finite(d.PriceShort) || d.PriceShort <= 0 {
			return fmt.Errorf("series[%d] %s: short price %v must be a positive finite number",
				i, d.Date.Format(DateFormat), d.PriceShort)
		}
		if !finite(d.BaseRate) || d.BaseRate < -1 {
			return fmt.Errorf("series[%d] %s: base rate %v must be finite and >= -1",
				i, d.Date.Format(DateFormat), d.BaseRate)
		}

		if i == 0 {
			if d.CalDays != 0 {
				return fmt.Errorf("series[0]: first record must have cal_days 0, got %d", d.CalDays)
			}
			continue
		}

		prev := s[i-1]
		if !d.Date.After(prev.Date) {
			return fmt.Errorf("series[%d]: date %s not after %s",
				i, d.Date.Format(DateFormat), prev.Date.Format(DateFormat))
		}
		gap := calendarDays(prev.Date, d.Date)
		if d.CalDays != gap {
			return fmt.Errorf("series[%d] %s: cal_days %d does not match calendar gap %d",
				i, d.Date.Format(DateFormat), d.CalDays, gap)
		}
	}
	return nil
}

func calendarDays(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)) / (24 * time.Hour))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
