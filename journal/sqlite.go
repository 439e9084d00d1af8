package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Odey340/Artemist/internal/backtest"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal is the optional additive journal: every trade and
// equity point written to the CSV journal is also inserted here,
// tagged with RunID, so multiple runs can be queried from one file.
type SQLiteJournal struct {
	db    *sql.DB
	RunID string
}

// RunSummary is the single row recorded once per run, after all
// trades and equity points, capturing the end-of-run metrics.
type RunSummary struct {
	DataPath        string
	Threshold       float64
	Window          int
	StartingCapital float64
	TotalReturn     float64
	Volatility      float64
	Sharpe          float64
	MaxDrawdown     float64
	WinRate         float64
	TotalTrades     int
	TicksProcessed  int64
}

// NewSQLite opens (creating if absent) the database at path, applies
// the schema, and returns a journal scoped to runID.
func NewSQLite(path, runID string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite journal: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO backtest_runs (run_id, created_at, data_path, threshold, window, starting_capital)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), "", 0.0, 0, 0.0,
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("insert run row: %w", err)
	}

	return &SQLiteJournal{db: db, RunID: runID}, nil
}

func (j *SQLiteJournal) RecordTrade(t backtest.Trade) error {
	_, err := j.db.Exec(
		`INSERT INTO trades (run_id, entry_time, exit_time, entry_price, exit_price, direction, pnl, duration_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		j.RunID, t.EntryTime, t.ExitTime, t.EntryPrice, t.ExitPrice, t.Direction.String(), t.PnL, t.DurationUS,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e backtest.EquityPoint) error {
	_, err := j.db.Exec(
		`INSERT INTO equity (run_id, timestamp, equity) VALUES (?, ?, ?)`,
		j.RunID, e.Timestamp, e.Equity,
	)
	return err
}

// RecordRun updates the run's summary row with its final metrics.
// Callers invoke this once, after the backtest has finished.
func (j *SQLiteJournal) RecordRun(s RunSummary) error {
	_, err := j.db.Exec(
		`UPDATE backtest_runs SET
			data_path = ?, threshold = ?, window = ?, starting_capital = ?,
			total_return = ?, volatility = ?, sharpe = ?, max_drawdown = ?,
			win_rate = ?, total_trades = ?, ticks_processed = ?
		 WHERE run_id = ?`,
		s.DataPath, s.Threshold, s.Window, s.StartingCapital,
		s.TotalReturn, s.Volatility, s.Sharpe, s.MaxDrawdown,
		s.WinRate, s.TotalTrades, s.TicksProcessed,
		j.RunID,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
