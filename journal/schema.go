package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	long_symbol TEXT NOT NULL,
	short_symbol TEXT NOT NULL,
	start DATETIME NOT NULL,
	end DATETIME NOT NULL,
	days INTEGER NOT NULL,
	final_equity REAL NOT NULL,
	total_contributions REAL NOT NULL,
	mean_daily_return REAL,
	volatility REAL,
	sharpe REAL
);

CREATE TABLE IF NOT EXISTS ledger (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	price_long REAL NOT NULL,
	price_short REAL NOT NULL,
	base_rate REAL NOT NULL,
	cal_days INTEGER NOT NULL,
	cash REAL NOT NULL,
	equity REAL NOT NULL,
	contribution REAL NOT NULL,
	interest_cash REAL NOT NULL,
	borrow_fee REAL NOT NULL,
	daily_return REAL,
	PRIMARY KEY (run_id, date)
);

CREATE INDEX IF NOT EXISTS idx_ledger_run ON ledger(run_id, date);
`
