package bandlevel

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-acoustics/dsp/octave"
	"github.com/cwbudde/algo-acoustics/measure/level"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fraction", func(c *Config) { c.Fraction = 0 }},
		{"inverted range", func(c *Config) { c.MinFreq, c.MaxFreq = 1000, 100 }},
		{"zero min freq", func(c *Config) { c.MinFreq = 0 }},
		{"reference", func(c *Config) { c.ReferenceFreq = -1 }},
		{"base", func(c *Config) { c.Base = octave.Base(7) }},
		{"order", func(c *Config) { c.Order = 0 }},
		{"pressure", func(c *Config) { c.ReferencePressure = 0 }},
		{"full scale", func(c *Config) { c.FullScale = 0 }},
		{"update rate", func(c *Config) { c.UpdateRate = -1 }},
		{"time constant", func(c *Config) { c.TimeConstant = level.TimeConstant{} }},
		{"window", func(c *Config) { c.Window.Start = -time.Second }},
		{"weighting", func(c *Config) { c.Weighting = "D" }},
		{"weighting mode", func(c *Config) { c.WeightingMode = "both" }},
		{"workers", func(c *Config) { c.Workers = -2 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

			_, err := New(cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfigJSONOverridesDefaults(t *testing.T) {
	cfg := DefaultConfig()
	err := json.Unmarshal([]byte(`{"fraction": 1, "weighting": "A", "weighting_mode": "per-band", "floor_db": -120}`), &cfg)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1, cfg.Fraction)
	assert.Equal(t, "A", cfg.Weighting)
	assert.Equal(t, WeightingPerBand, cfg.WeightingMode)
	assert.InDelta(t, -120.0, cfg.FloorDB, 0)
	assert.InDelta(t, level.PressureAir, cfg.ReferencePressure, 0)
	assert.Equal(t, level.Fast, cfg.TimeConstant)
}
