package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 2.5, cfg.Threshold)
	assert.Equal(t, 20_000, cfg.Window)
	assert.Equal(t, "backtest", cfg.Journal.Prefix)
}

func TestSaveAndLoadRoundTripYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")

	cfg := Default()
	cfg.Threshold = 3.1
	cfg.Journal.Prefix = "run42"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3.1, loaded.Threshold)
	assert.Equal(t, "run42", loaded.Journal.Prefix)
}

func TestSaveAndLoadRoundTripJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")

	cfg := Default()
	cfg.Commission = 1.5
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, loaded.Commission)
}

func TestValidateRejectsNonPositiveTickSize(t *testing.T) {
	cfg := Default()
	cfg.TickSize = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPowerOfTwoRingCapacity(t *testing.T) {
	cfg := Default()
	cfg.RingCapacity = 100
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsNonPositiveThreshold(t *testing.T) {
	cfg := Default()
	cfg.Threshold = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsNonFiniteThreshold(t *testing.T) {
	for _, threshold := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		cfg := Default()
		cfg.Threshold = threshold
		assert.Error(t, cfg.Validate())
	}
}

func TestValidateRejectsEmptyJournalPrefix(t *testing.T) {
	cfg := Default()
	cfg.Journal.Prefix = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFileMissingPath(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}
