// journal/schema.go
package journal

// Schema is the SQLite schema for the optional journal. A single
// backtest_runs row identifies the run; trades and equity rows carry
// run_id so multiple runs can share one database file.
const Schema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	data_path TEXT NOT NULL,
	threshold REAL NOT NULL,
	window INTEGER NOT NULL,
	starting_capital REAL NOT NULL,
	total_return REAL,
	volatility REAL,
	sharpe REAL,
	max_drawdown REAL,
	win_rate REAL,
	total_trades INTEGER,
	ticks_processed INTEGER
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	entry_time INTEGER NOT NULL,
	exit_time INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	direction TEXT NOT NULL,
	pnl REAL NOT NULL,
	duration_us INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run_id ON trades(run_id);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_run_id_time ON equity(run_id, timestamp);
`
