package bandlevel

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-acoustics/dsp/filter/bank"
	"github.com/cwbudde/algo-acoustics/dsp/filter/weighting"
	"github.com/cwbudde/algo-acoustics/dsp/octave"
	"github.com/cwbudde/algo-acoustics/measure/level"
)

// ErrInvalidConfig is returned by Validate and New for unusable settings.
var ErrInvalidConfig = errors.New("bandlevel: invalid config")

// WeightingMode selects where a frequency weighting is applied.
type WeightingMode string

const (
	// WeightingPreFilter filters the signal before the band split.
	WeightingPreFilter WeightingMode = "prefilter"
	// WeightingPerBand corrects each band level by the curve at its center.
	WeightingPerBand WeightingMode = "per-band"
)

// Config describes a band-level measurement.
type Config struct {
	Fraction      int         `json:"fraction"`       // bands per octave
	MinFreq       float64     `json:"min_freq"`       // lowest nominal center, Hz
	MaxFreq       float64     `json:"max_freq"`       // highest nominal center, Hz
	ReferenceFreq float64     `json:"reference_freq"` // grid reference, Hz
	Base          octave.Base `json:"base"`
	Order         int         `json:"order"` // Butterworth prototype order

	ReferencePressure float64      `json:"reference_pressure"` // Pa
	FullScale         float64      `json:"full_scale"`         // Pa at digital full scale, for AnalyzeBuffer
	FloorDB           float64      `json:"floor_db"`
	Window            level.Window `json:"window"`

	TimeConstant level.TimeConstant `json:"time_constant"`
	UpdateRate   float64            `json:"update_rate"` // time-weighted outputs per second

	Phase         bank.Phase    `json:"phase"`
	Weighting     string        `json:"weighting"` // A, B, C, Z or empty
	WeightingMode WeightingMode `json:"weighting_mode"`
	Workers       int           `json:"workers"`
}

// DefaultConfig returns a third-octave analysis from 20 Hz to 20 kHz in air,
// unweighted, with fast time weighting at 10 updates per second.
func DefaultConfig() Config {
	return Config{
		Fraction:          3,
		MinFreq:           20,
		MaxFreq:           20000,
		ReferenceFreq:     octave.DefaultReference,
		Base:              octave.Base2,
		Order:             bank.DefaultOrder,
		ReferencePressure: level.PressureAir,
		FullScale:         1,
		FloorDB:           float64(level.DefaultFloor),
		TimeConstant:      level.Fast,
		UpdateRate:        10,
		Phase:             bank.PhaseCausal,
		WeightingMode:     WeightingPreFilter,
		Workers:           1,
	}
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	switch {
	case c.Fraction <= 0:
		return fmt.Errorf("%w: fraction %d", ErrInvalidConfig, c.Fraction)
	case !(c.MinFreq > 0) || !(c.MaxFreq > c.MinFreq) || math.IsInf(c.MaxFreq, 0):
		return fmt.Errorf("%w: frequency range %g..%g Hz", ErrInvalidConfig, c.MinFreq, c.MaxFreq)
	case !(c.ReferenceFreq > 0) || math.IsInf(c.ReferenceFreq, 0):
		return fmt.Errorf("%w: reference frequency %g Hz", ErrInvalidConfig, c.ReferenceFreq)
	case c.Base != octave.Base2 && c.Base != octave.Base10:
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Base)
	case c.Order <= 0:
		return fmt.Errorf("%w: order %d", ErrInvalidConfig, c.Order)
	case !(c.FullScale > 0) || math.IsInf(c.FullScale, 0):
		return fmt.Errorf("%w: full scale %g", ErrInvalidConfig, c.FullScale)
	case c.UpdateRate < 0 || math.IsNaN(c.UpdateRate):
		return fmt.Errorf("%w: update rate %g", ErrInvalidConfig, c.UpdateRate)
	case c.TimeConstant.Rise <= 0 || c.TimeConstant.Decay <= 0:
		return fmt.Errorf("%w: time constant %v", ErrInvalidConfig, c.TimeConstant)
	case c.Window.Start < 0 || c.Window.Duration < 0:
		return fmt.Errorf("%w: window %v", ErrInvalidConfig, c.Window)
	case c.Phase != bank.PhaseCausal && c.Phase != bank.PhaseZero:
		return fmt.Errorf("%w: phase %d", ErrInvalidConfig, int(c.Phase))
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}

	if err := c.levelConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := weighting.ParseType(c.Weighting); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch c.WeightingMode {
	case WeightingPreFilter, WeightingPerBand, "":
	default:
		return fmt.Errorf("%w: weighting mode %q", ErrInvalidConfig, c.WeightingMode)
	}

	return nil
}

func (c Config) levelConfig() level.Config {
	return level.Config{Reference: c.ReferencePressure, Floor: level.Level(c.FloorDB)}
}

func (c Config) gridOptions() []octave.Option {
	return []octave.Option{octave.WithReference(c.ReferenceFreq), octave.WithBase(c.Base)}
}
