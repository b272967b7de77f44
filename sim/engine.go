package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"marginsim/market"
	"marginsim/rates"
)

// ErrMissingTradeDate is returned when the requested trade date has no
// record in the market series.
var ErrMissingTradeDate = errors.New("trade date not in market series")

// AccrualConfig holds the account policy driving the daily recurrence.
type AccrualConfig struct {
	// MaintenanceRatio is the fraction of gross exposure that equity must
	// cover; a shortfall triggers a contribution.
	MaintenanceRatio float64

	// Buffer is added on top of a margin-call contribution so the account
	// clears the requirement strictly, not just touches it.
	Buffer float64

	// DayCount is the day-count basis for accruals (ACT/360 by default).
	DayCount float64

	Schedule rates.Schedule
}

// DefaultAccrualConfig returns the reference policy: 40% variation margin,
// $1 buffer, ACT/360, standard rate schedule.
func DefaultAccrualConfig() AccrualConfig {
	return AccrualConfig{
		MaintenanceRatio: 0.40,
		Buffer:           1.0,
		DayCount:         360,
		Schedule:         rates.DefaultSchedule(),
	}
}

// Validate rejects configs the recurrence cannot run with.
func (c AccrualConfig) Validate() error {
	if !finite(c.MaintenanceRatio) || c.MaintenanceRatio < 0 || c.MaintenanceRatio >= 1 {
		return fmt.Errorf("maintenance_ratio %v must be in [0, 1)", c.MaintenanceRatio)
	}
	if !finite(c.Buffer) || c.Buffer < 0 {
		return fmt.Errorf("margin buffer %v must be non-negative and finite", c.Buffer)
	}
	if !finite(c.DayCount) || c.DayCount <= 0 {
		return fmt.Errorf("day_count %v must be positive", c.DayCount)
	}
	return c.Schedule.Validate()
}

// State is the account at one end-of-day close.
//
// DailyReturn is NaN on the trade date and on any day whose prior equity
// was zero; it is never an error.
type State struct {
	Date         time.Time
	Cash         float64
	Equity       float64
	Contribution float64 // margin-call top-up, >= 0
	InterestCash float64 // signed: credit interest or financing cost
	BorrowFee    float64 // <= 0
	DailyReturn  float64
}

// Engine folds the aligned market series forward one day at a time. Each
// day's state is derived from the prior day's state plus the prior day's
// rates and short exposure and the current day's closes, so no future
// record can influence an earlier state.
type Engine struct {
	pos Position
	cfg AccrualConfig
}

// NewEngine builds an engine for a fixed position and policy.
func NewEngine(pos Position, cfg AccrualConfig) *Engine {
	return &Engine{pos: pos, cfg: cfg}
}

// Step advances the account one trading day.
//
// Interest accrues on yesterday's cash balance at yesterday's credit or
// debit rate; the borrow fee accrues on yesterday's short market value.
// Equity is then marked to today's closes and topped up if it falls below
// the maintenance requirement on gross exposure. The daily return nets out
// the same-day contribution so a margin call never shows up as performance.
func (e *Engine) Step(prev State, prevDay, day market.Day, prevFix rates.Fix) State {
	frac := float64(day.CalDays) / e.cfg.DayCount

	var interest float64
	if prev.Cash >= 0 {
		interest = prev.Cash * prevFix.Credit * frac
	} else {
		interest = prev.Cash * prevFix.Debit * frac
	}

	borrowFee := -e.pos.ShortShares * prevDay.PriceShort * prevFix.Borrow * frac

	cash := prev.Cash + interest + borrowFee

	longMV := e.pos.LongShares * day.PriceLong
	shortMV := e.pos.ShortShares * day.PriceShort
	equity := cash + longMV - shortMV

	required := e.cfg.MaintenanceRatio * (longMV + shortMV)
	contribution := 0.0
	if equity < required {
		contribution = (required - equity) + e.cfg.Buffer
		cash += contribution
		equity += contribution
	}

	ret := math.NaN()
	if prev.Equity != 0 {
		ret = (equity - prev.Equity - contribution) / prev.Equity
	}

	return State{
		Date:         day.Date,
		Cash:         cash,
		Equity:       equity,
		Contribution: contribution,
		InterestCash: interest,
		BorrowFee:    borrowFee,
		DailyReturn:  ret,
	}
}

// Run validates the series, then folds it forward from day0 at startIdx,
// returning one ledger row per trading day from the trade date onward.
//
// The per-day rate fixes are resolved in a single pass up front; the fold
// itself is pure float arithmetic with no failure modes.
func (e *Engine) Run(series market.Series, startIdx int, day0 State) (*Ledger, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("accrual config: %w", err)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("market series: %w", err)
	}
	if startIdx < 0 || startIdx >= len(series) {
		return nil, fmt.Errorf("start index %d out of range [0, %d)", startIdx, len(series))
	}

	fixes := make([]rates.Fix, len(series))
	for i, d := range series {
		fixes[i] = e.cfg.Schedule.Fix(d.BaseRate)
	}

	ledger := &Ledger{Rows: make([]Row, 0, len(series)-startIdx)}
	ledger.Rows = append(ledger.Rows, newRow(series[startIdx], e.pos, day0))

	prev := day0
	for i := startIdx + 1; i < len(series); i++ {
		state := e.Step(prev, series[i-1], series[i], fixes[i-1])
		ledger.Rows = append(ledger.Rows, newRow(series[i], e.pos, state))
		prev = state
	}
	return ledger, nil
}

// Simulate wires position initiation and the accrual fold together: it
// locates the trade date, opens the pair at that day's closes, and runs the
// recurrence to the end of the series.
func Simulate(series market.Series, tradeDate time.Time, pair PairConfig, cfg AccrualConfig) (*Ledger, error) {
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("market series: %w", err)
	}

	start, ok := series.IndexOf(tradeDate)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTradeDate, tradeDate.Format(market.DateFormat))
	}

	entry := series[start]
	pos, day0, err := OpenPair(pair, entry.Date, entry.PriceLong, entry.PriceShort)
	if err != nil {
		return nil, err
	}

	return NewEngine(pos, cfg).Run(series, start, day0)
}
