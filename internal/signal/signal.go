// Package signal implements the three-state mean-reversion signal state
// machine. It is a pure function of the prior state plus the current
// z-score, save for the state variable itself.
package signal

import "github.com/Odey340/Artemist/internal/stats"

// State is the signal enumeration. It is modeled as a tagged sum type
// rather than a raw integer so comparisons are always explicit against
// Flat/Long/Short.
type State int8

const (
	Flat State = iota
	Long
	Short
)

func (s State) String() string {
	switch s {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// Generator holds the single state variable that spans one backtest
// run. The zero value starts FLAT, matching the spec's lifecycle.
type Generator struct {
	Threshold float64

	state State
}

// NewGenerator returns a Generator with the given z-score threshold.
// Threshold <= 0 is accepted but produces undefined signal behavior, by
// design.
func NewGenerator(threshold float64) *Generator {
	return &Generator{Threshold: threshold}
}

// Current returns the signal's current state without evaluating a new
// price.
func (g *Generator) Current() State { return g.state }

// Generate evaluates price against st and returns the resulting signal,
// performing at most one state transition. If st is not yet ready, it
// returns Flat without mutating state.
func (g *Generator) Generate(price float64, st *stats.Rolling) State {
	if !st.IsReady() {
		return Flat
	}

	z := st.ZScore(price)
	switch g.state {
	case Flat:
		switch {
		case z < -g.Threshold:
			g.state = Long
		case z > g.Threshold:
			g.state = Short
		}
	case Long:
		if z >= 0 {
			g.state = Flat
		}
	case Short:
		if z <= 0 {
			g.state = Flat
		}
	}
	return g.state
}
