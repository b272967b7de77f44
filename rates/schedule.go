// Package rates maps a base overnight reference rate to the
// account-specific credit, debit, and stock-borrow rates.
package rates

import (
	"fmt"
	"math"
)

const (
	// DefaultSpread is the credit/debit spread applied to the base rate
	// (50 bps each way).
	DefaultSpread = 0.005

	// DefaultBorrowRate is the flat stock-borrow rate for general
	// collateral names.
	DefaultBorrowRate = 0.005
)

// Schedule holds the spreads and borrow rate applied to each day's base
// rate. All values are decimal fractions.
type Schedule struct {
	CreditSpread float64
	DebitSpread  float64
	BorrowRate   float64
}

// DefaultSchedule returns the standard broker schedule: base -50bps on cash
// credits (floored at zero), base +50bps on margin loans, 50bps flat borrow.
func DefaultSchedule() Schedule {
	return Schedule{
		CreditSpread: DefaultSpread,
		DebitSpread:  DefaultSpread,
		BorrowRate:   DefaultBorrowRate,
	}
}

// Validate rejects schedules with negative or non-finite components.
func (s Schedule) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"credit_spread", s.CreditSpread},
		{"debit_spread", s.DebitSpread},
		{"borrow_rate", s.BorrowRate},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("rates: %s %v must be a non-negative finite number", f.name, f.v)
		}
	}
	return nil
}

// Credit returns the interest rate earned on a positive cash balance:
// base minus the credit spread, floored at zero (no negative interest).
func (s Schedule) Credit(base float64) float64 {
	return math.Max(base-s.CreditSpread, 0)
}

// Debit returns the financing rate paid on a negative cash balance
// (margin loan): base plus the debit spread.
func (s Schedule) Debit(base float64) float64 {
	return base + s.DebitSpread
}

// Fix is the resolved rate set for one trading day.
type Fix struct {
	Credit float64
	Debit  float64
	Borrow float64
}

// Fix resolves the full rate set for one day's base rate.
func (s Schedule) Fix(base float64) Fix {
	return Fix{
		Credit: s.Credit(base),
		Debit:  s.Debit(base),
		Borrow: s.BorrowRate,
	}
}
