package journal

import (
	"database/sql"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite persists runs and ledgers to a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and applies
// the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, long_symbol, short_symbol, start, end, days, final_equity, total_contributions, mean_daily_return, volatility, sharpe)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.LongSymbol, r.ShortSymbol, r.Start, r.End, r.Days,
		r.FinalEquity, r.TotalContributions,
		nullable(r.MeanDailyReturn), nullable(r.Volatility), nullable(r.Sharpe),
	)
	return err
}

func (j *SQLite) RecordLedger(r LedgerRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO ledger
		(run_id, date, price_long, price_short, base_rate, cal_days, cash, equity, contribution, interest_cash, borrow_fee, daily_return)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Date, r.PriceLong, r.PriceShort, r.BaseRate, r.CalDays,
		r.Cash, r.Equity, r.Contribution, r.InterestCash, r.BorrowFee,
		nullable(r.DailyReturn),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// nullable maps NaN to SQL NULL; undefined statistics stay undefined in
// the database instead of becoming an unreadable float.
func nullable(x float64) sql.NullFloat64 {
	if math.IsNaN(x) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: x, Valid: true}
}

func fromNullable(x sql.NullFloat64) float64 {
	if !x.Valid {
		return math.NaN()
	}
	return x.Float64
}
