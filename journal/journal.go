// Package journal persists a run's equity curve and closed trades.
// The CSV journal is the spec-mandated output; the SQLite journal is
// an optional additive enrichment for cross-run querying.
package journal

import "github.com/Odey340/Artemist/internal/backtest"

// Journal receives a run's equity points and closed trades and
// persists them durably.
type Journal interface {
	RecordTrade(backtest.Trade) error
	RecordEquity(backtest.EquityPoint) error
	Close() error
}

// Multi fans a single stream of events out to several journals, used
// to drive the mandatory CSV output and the optional SQLite one from
// the same engine run.
type Multi struct {
	journals []Journal
}

// NewMulti returns a Journal that forwards every event to each of js
// in order, stopping at the first error.
func NewMulti(js ...Journal) *Multi {
	return &Multi{journals: js}
}

func (m *Multi) RecordTrade(t backtest.Trade) error {
	for _, j := range m.journals {
		if err := j.RecordTrade(t); err != nil {
			return err
		}
	}
	return nil
}

func (m *Multi) RecordEquity(e backtest.EquityPoint) error {
	for _, j := range m.journals {
		if err := j.RecordEquity(e); err != nil {
			return err
		}
	}
	return nil
}

func (m *Multi) Close() error {
	var first error
	for _, j := range m.journals {
		if err := j.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
