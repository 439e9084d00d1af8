package quote

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTicks(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ticks.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestHeaderAndThreeTicks(t *testing.T) {
	path := writeTicks(t, "timestamp,bid,ask,volume\n"+
		"1000000,4500.25,4500.50,100\n"+
		"2000000,4500.75,4501.00,200\n"+
		"3000000,4501.25,4501.50,150\n")

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	wantTS := []int64{1000000, 2000000, 3000000}
	wantMid := []float64{4500.375, 4500.875, 4501.375}

	for i := 0; i < 3; i++ {
		tick, ok := src.Next()
		require.True(t, ok)
		assert.Equal(t, wantTS[i], tick.Timestamp)
		assert.InDelta(t, wantMid[i], tick.Mid(), 1e-9)
	}

	_, ok := src.Next()
	assert.False(t, ok)
}

func TestMalformedLinesSkipped(t *testing.T) {
	path := writeTicks(t, "timestamp,bid,ask,volume\n"+
		"1000000,4500.25,4500.50,100\n"+
		"invalid_line\n"+
		"2000000,4500.75,4501.00,200\n"+
		"another,bad,line\n"+
		"3000000,4501.25,4501.50,150\n")

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	count := 0
	for {
		_, ok := src.Next()
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 3, count)
}

func TestLastLineWithoutTrailingNewline(t *testing.T) {
	path := writeTicks(t, "timestamp,bid,ask,volume\n"+
		"1000000,4500.25,4500.50,100")

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	tick, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, int64(1000000), tick.Timestamp)

	_, ok = src.Next()
	assert.False(t, ok)
}

func TestResetReplaysSameTicks(t *testing.T) {
	path := writeTicks(t, "timestamp,bid,ask,volume\n"+
		"1000000,4500.25,4500.50,100\n"+
		"2000000,4500.75,4501.00,200\n")

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	var first []Tick
	for {
		tick, ok := src.Next()
		if !ok {
			break
		}
		first = append(first, tick)
	}

	src.Reset()

	var second []Tick
	for {
		tick, ok := src.Next()
		if !ok {
			break
		}
		second = append(second, tick)
	}

	assert.Equal(t, first, second)
}

func TestApproximateTickCount(t *testing.T) {
	path := writeTicks(t, "timestamp,bid,ask,volume\n"+
		"1000000,4500.25,4500.50,100\n")

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Greater(t, src.ApproximateTickCount(), 0)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
