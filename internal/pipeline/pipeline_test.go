package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Odey340/Artemist/internal/backtest"
	"github.com/Odey340/Artemist/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSyntheticFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ticks.csv")

	body := "timestamp,bid,ask,volume\n"
	var ts int64
	for i := 0; i < 2000; i++ {
		ts += 1000
		mid := 4500.0 + 2*float64((i%41)-20)
		bid := mid - 0.125
		ask := mid + 0.125
		body += fmt.Sprintf("%d,%.4f,%.4f,%d\n", ts, bid, ask, 10)
	}
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDirectAndRingPipelinesAgree(t *testing.T) {
	path := writeSyntheticFile(t)

	srcA, err := quote.Open(path)
	require.NoError(t, err)
	defer srcA.Close()
	engA := backtest.NewEngine(backtest.Config{
		Commission: 2.10, SlippageTicks: 1, TickSize: 0.25,
		Multiplier: 50, StartingCapital: 100_000, Window: 50, Threshold: 2.0,
	})
	statsA := RunDirect(srcA, engA)

	srcB, err := quote.Open(path)
	require.NoError(t, err)
	defer srcB.Close()
	engB := backtest.NewEngine(backtest.Config{
		Commission: 2.10, SlippageTicks: 1, TickSize: 0.25,
		Multiplier: 50, StartingCapital: 100_000, Window: 50, Threshold: 2.0,
	})
	statsB, err := Run(context.Background(), srcB, 1024, engB)
	require.NoError(t, err)

	assert.Equal(t, statsA.TicksProcessed, statsB.TicksProcessed)
	assert.Equal(t, len(engA.Trades), len(engB.Trades))
	assert.InDelta(t, engA.Equity, engB.Equity, 1e-6)
	assert.InDelta(t, engA.MaxDrawdown, engB.MaxDrawdown, 1e-6)
}
