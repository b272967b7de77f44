// Package journal persists simulation runs: the per-day ledger rows and
// the run-level summary, to CSV files or a SQLite database.
package journal

import (
	"time"

	"marginsim/perf"
	"marginsim/sim"
)

// RunRecord is the persisted summary of one simulation run.
type RunRecord struct {
	RunID       string
	LongSymbol  string
	ShortSymbol string

	Start time.Time
	End   time.Time
	Days  int

	FinalEquity        float64
	TotalContributions float64
	MeanDailyReturn    float64
	Volatility         float64
	Sharpe             float64 // NaN when undefined
}

// LedgerRecord is one persisted ledger row.
type LedgerRecord struct {
	RunID string
	Date  time.Time

	PriceLong  float64
	PriceShort float64
	BaseRate   float64
	CalDays    int

	Cash         float64
	Equity       float64
	Contribution float64
	InterestCash float64
	BorrowFee    float64
	DailyReturn  float64 // NaN when undefined
}

// Journal records runs and their ledgers.
type Journal interface {
	RecordRun(RunRecord) error
	RecordLedger(LedgerRecord) error
	Close() error
}

// NewRunRecord builds the persisted summary for a run.
func NewRunRecord(runID string, pair sim.PairConfig, s perf.Summary) RunRecord {
	return RunRecord{
		RunID:              runID,
		LongSymbol:         pair.LongSymbol,
		ShortSymbol:        pair.ShortSymbol,
		Start:              s.Start,
		End:                s.End,
		Days:               s.Days,
		FinalEquity:        s.FinalEquity,
		TotalContributions: s.TotalContributions,
		MeanDailyReturn:    s.MeanDailyReturn,
		Volatility:         s.Volatility,
		Sharpe:             s.Sharpe,
	}
}

// LedgerRecords converts a ledger into persisted rows for one run.
func LedgerRecords(runID string, l *sim.Ledger) []LedgerRecord {
	out := make([]LedgerRecord, 0, len(l.Rows))
	for _, r := range l.Rows {
		out = append(out, LedgerRecord{
			RunID:        runID,
			Date:         r.Date,
			PriceLong:    r.PriceLong,
			PriceShort:   r.PriceShort,
			BaseRate:     r.BaseRate,
			CalDays:      r.CalDays,
			Cash:         r.Cash,
			Equity:       r.Equity,
			Contribution: r.Contribution,
			InterestCash: r.InterestCash,
			BorrowFee:    r.BorrowFee,
			DailyReturn:  r.DailyReturn,
		})
	}
	return out
}

// Record writes the whole run (summary plus every ledger row) to j.
func Record(j Journal, run RunRecord, ledger []LedgerRecord) error {
	if err := j.RecordRun(run); err != nil {
		return err
	}
	for _, rec := range ledger {
		if err := j.RecordLedger(rec); err != nil {
			return err
		}
	}
	return nil
}
