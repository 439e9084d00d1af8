// Package config loads, validates, and saves the engine's tunable
// parameters (commission, slippage, contract multiplier, rolling
// window, signal threshold, ring capacity, and journal settings) from
// YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the complete, overridable configuration for a
// backtest run.
type EngineConfig struct {
	Commission      float64 `json:"commission" yaml:"commission"`
	SlippageTicks   float64 `json:"slippage_ticks" yaml:"slippage_ticks"`
	TickSize        float64 `json:"tick_size" yaml:"tick_size"`
	Multiplier      float64 `json:"multiplier" yaml:"multiplier"`
	StartingCapital float64 `json:"starting_capital" yaml:"starting_capital"`
	Window          int     `json:"window" yaml:"window"`
	Threshold       float64 `json:"threshold" yaml:"threshold"`
	RingCapacity    int     `json:"ring_capacity" yaml:"ring_capacity"`

	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// JournalConfig selects and configures the persistence attached to a
// run: the CSV prefix is always written (spec-mandated output), the
// SQLite path is an optional additive enrichment.
type JournalConfig struct {
	Prefix string `json:"prefix" yaml:"prefix"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Default returns the ES-futures defaults from the spec.
func Default() *EngineConfig {
	return &EngineConfig{
		Commission:      2.10,
		SlippageTicks:   1,
		TickSize:        0.25,
		Multiplier:      50,
		StartingCapital: 100_000,
		Window:          20_000,
		Threshold:       2.5,
		RingCapacity:    1 << 16,
		Journal: JournalConfig{
			Prefix: "backtest",
		},
	}
}

// LoadFromFile loads configuration from a file, starting from Default()
// and overlaying it, trying YAML first and falling back to JSON.
func LoadFromFile(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if yamlErr := yaml.Unmarshal(data, cfg); yamlErr != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yamlErr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to path, choosing JSON or YAML by
// file extension.
func (c *EngineConfig) SaveToFile(path string) error {
	var data []byte
	var err error

	if hasSuffix(path, ".yaml") || hasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// Validate checks that the configuration describes a runnable engine.
// Threshold <= 0 is accepted (undefined-by-design signal behavior per
// the spec), so it is not rejected here.
func (c *EngineConfig) Validate() error {
	if c.Commission < 0 {
		return fmt.Errorf("commission must be non-negative")
	}
	if c.TickSize <= 0 {
		return fmt.Errorf("tick_size must be positive")
	}
	if c.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be positive")
	}
	if c.StartingCapital <= 0 {
		return fmt.Errorf("starting_capital must be positive")
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive")
	}
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		return fmt.Errorf("threshold must be finite")
	}
	if c.RingCapacity <= 0 || c.RingCapacity&(c.RingCapacity-1) != 0 {
		return fmt.Errorf("ring_capacity must be a power of two, got %d", c.RingCapacity)
	}
	if c.Journal.Prefix == "" {
		return fmt.Errorf("journal.prefix is required")
	}
	return nil
}
