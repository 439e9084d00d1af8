// Package backtest drives the execution/accounting engine: it consumes
// (timestamp, mid) pairs and a signal, maintains the current position,
// realizes PnL on transitions, records trades and equity snapshots, and
// tracks max drawdown online.
package backtest

import (
	"github.com/Odey340/Artemist/internal/quote"
	"github.com/Odey340/Artemist/internal/signal"
	"github.com/Odey340/Artemist/internal/stats"
)

// Config holds the ES-futures-style execution constants. All fields are
// overridable at construction.
type Config struct {
	Commission      float64 // charged per side
	SlippageTicks   float64 // adverse fill offset, in ticks
	TickSize        float64 // price units per tick
	Multiplier      float64 // dollar value per unit price move per contract
	StartingCapital float64
	Window          int     // rolling-statistics fill window W
	Threshold       float64 // signal z-score threshold theta
}

// DefaultConfig returns the ES-futures defaults from the spec.
func DefaultConfig() Config {
	return Config{
		Commission:      2.10,
		SlippageTicks:   1,
		TickSize:        0.25,
		Multiplier:      50,
		StartingCapital: 100_000,
		Window:          20_000,
		Threshold:       2.5,
	}
}

func (c Config) slippage() float64 { return c.SlippageTicks * c.TickSize }

// Trade is an immutable record of a closed round-trip position.
type Trade struct {
	EntryTime  int64
	ExitTime   int64
	EntryPrice float64
	ExitPrice  float64
	Direction  signal.State
	PnL        float64
	DurationUS int64
}

// EquityPoint is an (timestamp, equity) sample, appended on every
// position transition.
type EquityPoint struct {
	Timestamp int64
	Equity    float64
}

// Engine owns the trade log, the equity curve, and the running account
// state for a single backtest run. It is not safe for concurrent use;
// in a pipelined deployment the single consumer goroutine both updates
// and reads it.
type Engine struct {
	cfg Config

	Stats *stats.Rolling
	Sig   *signal.Generator

	Equity      float64
	PeakEquity  float64
	MaxDrawdown float64

	position  signal.State
	entryPx   float64
	entryTime int64

	lastTime int64
	lastMid  float64
	haveTick bool

	Trades      []Trade
	EquityCurve []EquityPoint
}

// NewEngine constructs an Engine with the given config.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:        cfg,
		Stats:      stats.New(cfg.Window),
		Sig:        signal.NewGenerator(cfg.Threshold),
		Equity:     cfg.StartingCapital,
		PeakEquity: cfg.StartingCapital,
		position:   signal.Flat,
	}
}

// OnTick absorbs one tick: it updates the rolling statistics, asks the
// signal generator for the current signal, and performs at most one
// open and one close transition per call, per the spec's per-tick
// procedure.
func (e *Engine) OnTick(t quote.Tick) {
	mid := t.Mid()
	e.Stats.Update(mid)
	sig := e.Sig.Generate(mid, e.Stats)

	e.lastTime = t.Timestamp
	e.lastMid = mid
	e.haveTick = true

	if sig == e.position {
		return
	}

	if e.position != signal.Flat {
		e.close(t.Timestamp, mid)
	}
	if sig != signal.Flat {
		e.open(t.Timestamp, mid, sig)
	}
}

func (e *Engine) open(t int64, mid float64, side signal.State) {
	var fill float64
	switch side {
	case signal.Long:
		fill = mid + e.cfg.slippage()
	case signal.Short:
		fill = mid - e.cfg.slippage()
	}

	e.entryPx = fill
	e.entryTime = t
	e.position = side
	e.Equity -= e.cfg.Commission

	e.recordTransition(t)
}

func (e *Engine) close(t int64, mid float64) {
	var fill float64
	switch e.position {
	case signal.Long:
		fill = mid - e.cfg.slippage()
	case signal.Short:
		fill = mid + e.cfg.slippage()
	}

	var pnl float64
	switch e.position {
	case signal.Long:
		pnl = e.cfg.Multiplier * (fill - e.entryPx)
	case signal.Short:
		pnl = e.cfg.Multiplier * (e.entryPx - fill)
	}
	pnl -= e.cfg.Commission
	e.Equity += pnl

	e.Trades = append(e.Trades, Trade{
		EntryTime:  e.entryTime,
		ExitTime:   t,
		EntryPrice: e.entryPx,
		ExitPrice:  fill,
		Direction:  e.position,
		PnL:        pnl,
		DurationUS: t - e.entryTime,
	})

	e.position = signal.Flat
	e.recordTransition(t)
}

// recordTransition appends an equity sample and refreshes peak/drawdown
// bookkeeping. Invariant: PeakEquity >= Equity and MaxDrawdown in [0,1]
// after every call.
func (e *Engine) recordTransition(t int64) {
	e.EquityCurve = append(e.EquityCurve, EquityPoint{Timestamp: t, Equity: e.Equity})

	if e.Equity > e.PeakEquity {
		e.PeakEquity = e.Equity
	}
	if e.PeakEquity > 0 {
		dd := (e.PeakEquity - e.Equity) / e.PeakEquity
		if dd > e.MaxDrawdown {
			e.MaxDrawdown = dd
		}
	}
}

// Finish force-closes any open position at the last observed mid/time.
// Call once after the tick stream is exhausted.
func (e *Engine) Finish() {
	if e.position != signal.Flat && e.haveTick {
		e.close(e.lastTime, e.lastMid)
	}
}

// Position returns the current open position.
func (e *Engine) Position() signal.State { return e.position }

// LastTick returns the most recently observed timestamp and mid, and
// whether any tick has been observed yet.
func (e *Engine) LastTick() (timestamp int64, mid float64, ok bool) {
	return e.lastTime, e.lastMid, e.haveTick
}
