// Package metrics computes end-of-run aggregate performance statistics
// from the equity curve and trade log produced by a backtest run.
package metrics

import (
	"math"
	"time"

	"github.com/Odey340/Artemist/internal/backtest"
)

const sharpeVolFloor = 1e-10

// secondsPerYear mirrors the source's annualization assumption that
// equity samples are one-second-spaced, even though samples actually
// occur only at position transitions. This is a known simplification;
// see DESIGN.md.
const secondsPerYear = 252 * 86400

// Metrics is the end-of-run performance report.
type Metrics struct {
	TotalReturn float64
	Volatility  float64
	Sharpe      float64
	MaxDrawdown float64

	TotalTrades     int
	WinningTrades   int
	WinRate         float64
	AvgTradeLength  float64 // seconds

	TicksProcessed  int64
	TicksPerSecond  float64
	ProcessingTime  time.Duration
	AvgLatency      time.Duration
}

// Input bundles what Compute needs beyond the engine's final state.
type Input struct {
	StartingCapital float64
	TicksProcessed  int64
	FirstTickTime   int64 // microseconds
	LastTickTime    int64 // microseconds
	ProcessingTime  time.Duration
}

// Compute derives a Metrics report from the engine's terminal state.
func Compute(e *backtest.Engine, in Input) Metrics {
	m := Metrics{
		MaxDrawdown:    e.MaxDrawdown,
		TotalTrades:    len(e.Trades),
		TicksProcessed: in.TicksProcessed,
		ProcessingTime: in.ProcessingTime,
	}

	if in.StartingCapital > 0 {
		m.TotalReturn = (e.Equity - in.StartingCapital) / in.StartingCapital
	}

	m.Volatility, m.Sharpe = volatilityAndSharpe(e.EquityCurve, m.TotalReturn)

	for _, tr := range e.Trades {
		if tr.PnL > 0 {
			m.WinningTrades++
		}
	}
	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades)

		var totalDurationUS int64
		for _, tr := range e.Trades {
			totalDurationUS += tr.DurationUS
		}
		m.AvgTradeLength = float64(totalDurationUS) / float64(m.TotalTrades) / 1e6
	}

	if in.LastTickTime > in.FirstTickTime && in.TicksProcessed > 0 {
		elapsedSeconds := float64(in.LastTickTime-in.FirstTickTime) / 1e6
		if elapsedSeconds > 0 {
			m.TicksPerSecond = float64(in.TicksProcessed) / elapsedSeconds
		}
	}

	if in.TicksProcessed > 0 {
		m.AvgLatency = in.ProcessingTime / time.Duration(in.TicksProcessed)
	}

	return m
}

// volatilityAndSharpe computes the annualized volatility and Sharpe
// ratio from adjacent equity samples. The risk-free rate is implicitly
// zero.
func volatilityAndSharpe(curve []backtest.EquityPoint, totalReturn float64) (volatility, sharpe float64) {
	var returns []float64
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev <= 0 {
			continue
		}
		returns = append(returns, (curve[i].Equity-prev)/prev)
	}
	if len(returns) == 0 {
		return 0, 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	volatility = math.Sqrt(variance) * math.Sqrt(float64(secondsPerYear))
	if volatility > sharpeVolFloor {
		sharpe = (totalReturn / volatility) * math.Sqrt(252)
	}
	return volatility, sharpe
}
