package perf

import (
	"time"

	"marginsim/sim"
)

// Summary is the realized-performance record for one simulation run.
type Summary struct {
	Start time.Time
	End   time.Time

	FinalEquity        float64
	TotalContributions float64

	MeanDailyReturn float64
	Volatility      float64
	Sharpe          float64 // NaN when volatility is zero or undefined

	Days int // trading days in the ledger, including the trade date
}

// Summarize reduces a ledger into its Summary. Undefined daily returns are
// excluded from the statistics; a degenerate return series produces NaN
// volatility/Sharpe rather than an error.
func Summarize(l *sim.Ledger, annualization float64) Summary {
	rets := l.Returns()
	mean := Mean(rets)
	vol := SampleStdDev(rets)

	return Summary{
		Start:              l.Start(),
		End:                l.End(),
		FinalEquity:        l.FinalEquity(),
		TotalContributions: l.TotalContributions(),
		MeanDailyReturn:    mean,
		Volatility:         vol,
		Sharpe:             SharpeRatio(mean, vol, annualization),
		Days:               len(l.Rows),
	}
}
