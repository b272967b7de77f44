package journal

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"marginsim/market"
)

// CSVJournal writes runs and ledger rows to two CSV files.
type CSVJournal struct {
	runs   *csv.Writer
	ledger *csv.Writer
	rf, lf *os.File
}

// NewCSV creates (truncating) the runs and ledger files and writes headers.
func NewCSV(runsPath, ledgerPath string) (*CSVJournal, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	lf, err := os.Create(ledgerPath)
	if err != nil {
		rf.Close()
		return nil, err
	}

	rw := csv.NewWriter(rf)
	lw := csv.NewWriter(lf)

	if err := rw.Write([]string{"run_id", "long_symbol", "short_symbol", "start", "end", "days", "final_equity", "total_contributions", "mean_daily_return", "volatility", "sharpe"}); err != nil {
		return nil, err
	}
	if err := lw.Write([]string{"run_id", "date", "price_long", "price_short", "base_rate", "cal_days", "cash", "equity", "contribution", "interest_cash", "borrow_fee", "daily_return"}); err != nil {
		return nil, err
	}

	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}
	lw.Flush()
	if err := lw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{runs: rw, ledger: lw, rf: rf, lf: lf}, nil
}

func (j *CSVJournal) RecordRun(r RunRecord) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.LongSymbol,
		r.ShortSymbol,
		r.Start.Format(market.DateFormat),
		r.End.Format(market.DateFormat),
		strconv.Itoa(r.Days),
		f(r.FinalEquity),
		f(r.TotalContributions),
		f(r.MeanDailyReturn),
		f(r.Volatility),
		f(r.Sharpe),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordLedger(r LedgerRecord) error {
	err := j.ledger.Write([]string{
		r.RunID,
		r.Date.Format(market.DateFormat),
		f(r.PriceLong),
		f(r.PriceShort),
		f(r.BaseRate),
		strconv.Itoa(r.CalDays),
		f(r.Cash),
		f(r.Equity),
		f(r.Contribution),
		f(r.InterestCash),
		f(r.BorrowFee),
		f(r.DailyReturn),
	})
	if err != nil {
		return err
	}
	j.ledger.Flush()
	return j.ledger.Error()
}

func (j *CSVJournal) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.ledger.Flush()
	if err := j.ledger.Error(); err != nil {
		return err
	}
	if err := j.rf.Close(); err != nil {
		return err
	}
	return j.lf.Close()
}

// f formats a value for CSV; undefined (NaN) values become an empty field.
func f(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}
