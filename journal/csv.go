package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/Odey340/Artemist/internal/backtest"
)

// CSVJournal writes the two spec-mandated output files for a run:
// "<prefix>.csv" (equity curve) and "<prefix>_trades.csv" (closed
// trades).
type CSVJournal struct {
	equity *csv.Writer
	trades *csv.Writer
	ef, tf *os.File
}

// NewCSV creates (truncating if present) prefix+".csv" and
// prefix+"_trades.csv", writes their headers, and returns a ready
// Journal.
func NewCSV(prefix string) (*CSVJournal, error) {
	ef, err := os.Create(prefix + ".csv")
	if err != nil {
		return nil, fmt.Errorf("create equity file: %w", err)
	}
	tf, err := os.Create(prefix + "_trades.csv")
	if err != nil {
		ef.Close()
		return nil, fmt.Errorf("create trades file: %w", err)
	}

	ew := csv.NewWriter(ef)
	tw := csv.NewWriter(tf)

	if err := ew.Write([]string{"timestamp", "equity"}); err != nil {
		return nil, fmt.Errorf("write equity header: %w", err)
	}
	if err := tw.Write([]string{"entry_time", "exit_time", "entry_price", "exit_price", "direction", "pnl", "duration_us"}); err != nil {
		return nil, fmt.Errorf("write trades header: %w", err)
	}
	ew.Flush()
	tw.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}
	if err := tw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{equity: ew, trades: tw, ef: ef, tf: tf}, nil
}

func (j *CSVJournal) RecordEquity(e backtest.EquityPoint) error {
	if err := j.equity.Write([]string{
		strconv.FormatInt(e.Timestamp, 10),
		money(e.Equity),
	}); err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) RecordTrade(t backtest.Trade) error {
	if err := j.trades.Write([]string{
		strconv.FormatInt(t.EntryTime, 10),
		strconv.FormatInt(t.ExitTime, 10),
		money(t.EntryPrice),
		money(t.ExitPrice),
		t.Direction.String(),
		money(t.PnL),
		strconv.FormatInt(t.DurationUS, 10),
	}); err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) Close() error {
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	if err := j.ef.Close(); err != nil {
		return err
	}
	return j.tf.Close()
}

// money formats a float with exactly two decimal places, the schema
// the spec requires for equity, prices, and pnl fields.
func money(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
