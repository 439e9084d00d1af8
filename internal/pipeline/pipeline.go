// Package pipeline wires the tick source to the backtest engine. The
// direct call chain is the reference, single-threaded deployment; Run
// offers the optional producer/consumer split described in the spec,
// decoupled by the lock-free ring in package ring.
package pipeline

import (
	"context"
	"time"

	"github.com/Odey340/Artemist/internal/backtest"
	"github.com/Odey340/Artemist/internal/quote"
	"github.com/Odey340/Artemist/internal/ring"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes what the driver needs beyond the engine's own state
// to build a Metrics report.
type Stats struct {
	TicksProcessed int64
	FirstTickTime  int64
	LastTickTime   int64
}

// RunDirect drives src straight into eng with no intermediate buffering
// — the simplest correct implementation, and what the single-threaded
// reference deployment uses.
func RunDirect(src *quote.Source, eng *backtest.Engine) Stats {
	var st Stats
	for {
		tick, ok := src.Next()
		if !ok {
			break
		}
		if st.TicksProcessed == 0 {
			st.FirstTickTime = tick.Timestamp
		}
		st.LastTickTime = tick.Timestamp
		st.TicksProcessed++
		eng.OnTick(tick)
	}
	eng.Finish()
	return st
}

// Run splits the reader from the compute stage across two goroutines
// joined by an errgroup, communicating over capacity-sized ring. This
// is the optional deployment described in the spec's pipeline harness;
// RunDirect and Run must produce identical Metrics for the same input.
func Run(ctx context.Context, src *quote.Source, capacity int, eng *backtest.Engine) (Stats, error) {
	r, err := ring.New[quote.Tick](capacity)
	if err != nil {
		return Stats{}, err
	}

	done := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(done)
		for {
			tick, ok := src.Next()
			if !ok {
				return nil
			}
			t := tick
			for !r.Push(&t) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}
		}
	})

	var st Stats
	g.Go(func() error {
		for {
			if v, ok := r.Pop(); ok {
				tick := *v
				if st.TicksProcessed == 0 {
					st.FirstTickTime = tick.Timestamp
				}
				st.LastTickTime = tick.Timestamp
				st.TicksProcessed++
				eng.OnTick(tick)
				continue
			}
			select {
			case <-done:
				// Producer is finished; drain whatever is left, then stop.
				for {
					v, ok := r.Pop()
					if !ok {
						eng.Finish()
						return nil
					}
					tick := *v
					if st.TicksProcessed == 0 {
						st.FirstTickTime = tick.Timestamp
					}
					st.LastTickTime = tick.Timestamp
					st.TicksProcessed++
					eng.OnTick(tick)
				}
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Microsecond):
			}
		}
	})

	if err := g.Wait(); err != nil {
		return st, err
	}
	return st, nil
}
