package sim

import (
	"math"
	"time"

	"marginsim/market"
)

// Row is one ledger line: the day's market record, the marked position, and
// the end-of-day account state.
type Row struct {
	Date       time.Time
	PriceLong  float64
	PriceShort float64
	BaseRate   float64
	CalDays    int

	LongMV  float64
	ShortMV float64

	Cash         float64
	Equity       float64
	Contribution float64
	InterestCash float64
	BorrowFee    float64
	DailyReturn  float64 // NaN when undefined
}

// GrossExposure is the sum of absolute market values of both legs.
func (r Row) GrossExposure() float64 {
	return r.LongMV + r.ShortMV
}

func newRow(day market.Day, pos Position, st State) Row {
	return Row{
		Date:         day.Date,
		PriceLong:    day.PriceLong,
		PriceShort:   day.PriceShort,
		BaseRate:     day.BaseRate,
		CalDays:      day.CalDays,
		LongMV:       pos.LongShares * day.PriceLong,
		ShortMV:      pos.ShortShares * day.PriceShort,
		Cash:         st.Cash,
		Equity:       st.Equity,
		Contribution: st.Contribution,
		InterestCash: st.InterestCash,
		BorrowFee:    st.BorrowFee,
		DailyReturn:  st.DailyReturn,
	}
}

// Ledger is the full account history from the trade date to the last
// available day, one row per trading day.
type Ledger struct {
	Rows []Row
}

// Start returns the trade date.
func (l *Ledger) Start() time.Time { return l.Rows[0].Date }

// End returns the last ledger date.
func (l *Ledger) End() time.Time { return l.Rows[len(l.Rows)-1].Date }

// FinalEquity returns the equity on the last ledger day.
func (l *Ledger) FinalEquity() float64 { return l.Rows[len(l.Rows)-1].Equity }

// TotalContributions sums all margin-call top-ups over the ledger.
func (l *Ledger) TotalContributions() float64 {
	var sum float64
	for _, r := range l.Rows {
		sum += r.Contribution
	}
	return sum
}

// Returns collects the defined daily returns, dropping NaN entries (the
// trade date, and any day after a zero-equity close).
func (l *Ledger) Returns() []float64 {
	out := make([]float64, 0, len(l.Rows))
	for _, r := range l.Rows {
		if !math.IsNaN(r.DailyReturn) {
			out = append(out, r.DailyReturn)
		}
	}
	return out
}
