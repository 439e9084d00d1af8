package journal

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Odey340/Artemist/internal/backtest"
	"github.com/Odey340/Artemist/internal/signal"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path, "01TESTRUNID0000000000000000")
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaAndRunRowCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var runID string
	err = db.QueryRow(`SELECT run_id FROM backtest_runs LIMIT 1`).Scan(&runID)
	require.NoError(t, err)
	assert.Equal(t, "01TESTRUNID0000000000000000", runID)
}

func TestSQLiteRecordTrade(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	trade := backtest.Trade{
		EntryTime:  1_000_000,
		ExitTime:   1_500_000,
		EntryPrice: 4500.12,
		ExitPrice:  4498.87,
		Direction:  signal.Short,
		PnL:        62.5,
		DurationUS: 500_000,
	}
	require.NoError(t, j.RecordTrade(trade))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		runID     string
		entryTime int64
		direction string
		pnl       float64
	)
	err = db.QueryRow(`SELECT run_id, entry_time, direction, pnl FROM trades LIMIT 1`).
		Scan(&runID, &entryTime, &direction, &pnl)
	require.NoError(t, err)

	assert.Equal(t, j.RunID, runID)
	assert.Equal(t, trade.EntryTime, entryTime)
	assert.Equal(t, "SHORT", direction)
	assert.InDelta(t, trade.PnL, pnl, 1e-9)
}

func TestSQLiteRecordEquity(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	require.NoError(t, j.RecordEquity(backtest.EquityPoint{Timestamp: 42, Equity: 99_999.5}))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		runID     string
		timestamp int64
		equity    float64
	)
	err = db.QueryRow(`SELECT run_id, timestamp, equity FROM equity LIMIT 1`).Scan(&runID, &timestamp, &equity)
	require.NoError(t, err)

	assert.Equal(t, j.RunID, runID)
	assert.Equal(t, int64(42), timestamp)
	assert.InDelta(t, 99_999.5, equity, 1e-9)
}

func TestSQLiteRecordRunUpdatesSummary(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	require.NoError(t, j.RecordRun(RunSummary{
		DataPath:        "data/ES_futures_sample.csv",
		Threshold:       2.5,
		Window:          20_000,
		StartingCapital: 100_000,
		TotalReturn:     0.01,
		Sharpe:          1.2,
		TotalTrades:     3,
		TicksProcessed:  1000,
	}))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		dataPath    string
		totalTrades int
	)
	err = db.QueryRow(`SELECT data_path, total_trades FROM backtest_runs LIMIT 1`).Scan(&dataPath, &totalTrades)
	require.NoError(t, err)

	assert.Equal(t, "data/ES_futures_sample.csv", dataPath)
	assert.Equal(t, 3, totalTrades)
}
