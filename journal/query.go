package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var (
		rec              RunRecord
		mean, vol, sharp sql.NullFloat64
	)

	row := j.db.QueryRow(`
		SELECT run_id, long_symbol, short_symbol, start, end, days, final_equity, total_contributions, mean_daily_return, volatility, sharpe
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.LongSymbol,
		&rec.ShortSymbol,
		&rec.Start,
		&rec.End,
		&rec.Days,
		&rec.FinalEquity,
		&rec.TotalContributions,
		&mean,
		&vol,
		&sharp,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}

	rec.MeanDailyReturn = fromNullable(mean)
	rec.Volatility = fromNullable(vol)
	rec.Sharpe = fromNullable(sharp)
	return rec, nil
}

// ListRuns returns all run summaries, most recent run ID first. ULID run
// IDs sort by creation time, so the lexical order is chronological.
func (j *SQLite) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, long_symbol, short_symbol, start, end, days, final_equity, total_contributions, mean_daily_return, volatility, sharpe
		FROM runs
		ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec              RunRecord
			mean, vol, sharp sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.RunID,
			&rec.LongSymbol,
			&rec.ShortSymbol,
			&rec.Start,
			&rec.End,
			&rec.Days,
			&rec.FinalEquity,
			&rec.TotalContributions,
			&mean,
			&vol,
			&sharp,
		); err != nil {
			return nil, err
		}
		rec.MeanDailyReturn = fromNullable(mean)
		rec.Volatility = fromNullable(vol)
		rec.Sharpe = fromNullable(sharp)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLedger returns the ledger rows of one run, date ascending.
func (j *SQLite) ListLedger(runID string) ([]LedgerRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, date, price_long, price_short, base_rate, cal_days, cash, equity, contribution, interest_cash, borrow_fee, daily_return
		FROM ledger
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerRecord
	for rows.Next() {
		var (
			rec LedgerRecord
			ret sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.RunID,
			&rec.Date,
			&rec.PriceLong,
			&rec.PriceShort,
			&rec.BaseRate,
			&rec.CalDays,
			&rec.Cash,
			&rec.Equity,
			&rec.Contribution,
			&rec.InterestCash,
			&rec.BorrowFee,
			&ret,
		); err != nil {
			return nil, err
		}
		rec.DailyReturn = fromNullable(ret)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
