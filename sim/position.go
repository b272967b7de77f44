// Package sim simulates a margin account holding a long/short equity pair:
// day-zero position initiation, the daily cash/equity accrual recurrence
// with variation-margin calls, and the resulting ledger.
package sim

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidEntry is returned when the pair cannot be opened: an entry
// price is non-positive or non-finite, or a notional/deposit is not finite.
var ErrInvalidEntry = errors.New("invalid entry condition")

// PairConfig describes the pair trade to initiate. Notionals and deposit
// are in account currency.
type PairConfig struct {
	LongSymbol  string
	ShortSymbol string

	LongNotional  float64
	ShortNotional float64
	Deposit       float64
}

// Position is the fixed share counts of the pair. It is computed once at
// initiation and never mutated.
type Position struct {
	LongShares  float64
	ShortShares float64
}

// OpenPair computes the position and the day-zero account state from the
// notional targets and the entry closes on the trade date.
//
// The deposit funds the long purchase and is credited the short-sale
// proceeds, so cash0 = deposit - longNotional + shortNotional and
// equity0 = cash0 + longMV - shortMV. The day-zero state carries no
// accruals and an undefined (NaN) daily return.
func OpenPair(cfg PairConfig, tradeDate time.Time, entryLong, entryShort float64) (Position, State, error) {
	if !finite(entryLong) || entryLong <= 0 {
		return Position{}, State{}, fmt.Errorf("%w: long entry price %v", ErrInvalidEntry, entryLong)
	}
	if !finite(entryShort) || entryShort <= 0 {
		return Position{}, State{}, fmt.Errorf("%w: short entry price %v", ErrInvalidEntry, entryShort)
	}
	if !finite(cfg.LongNotional) || !finite(cfg.ShortNotional) || !finite(cfg.Deposit) {
		return Position{}, State{}, fmt.Errorf("%w: notionals and deposit must be finite", ErrInvalidEntry)
	}

	pos := Position{
		LongShares:  cfg.LongNotional / entryLong,
		ShortShares: cfg.ShortNotional / entryShort,
	}

	cash := cfg.Deposit - cfg.LongNotional + cfg.ShortNotional
	state := State{
		Date:        tradeDate,
		Cash:        cash,
		Equity:      cash + pos.LongShares*entryLong - pos.ShortShares*entryShort,
		DailyReturn: math.NaN(),
	}
	return pos, state, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
