package level

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-acoustics/dsp/octave"
)

// Reference quantities for sound pressure.
const (
	PressureAir   = 20e-6 // Pa
	PressureWater = 1e-6  // Pa
)

// DefaultFloor is the level substituted for zero energy.
const DefaultFloor Level = -200

var (
	// ErrNumericFloor reports energy that is zero, negative, NaN or below
	// the representable range of the configured floor.
	ErrNumericFloor = errors.New("level: energy below numeric floor")
	// ErrOverflow reports infinite energy, typically an overloaded or
	// overflowed signal.
	ErrOverflow = errors.New("level: energy overflow")
	// ErrInvalidReference is returned for a non-positive or non-finite
	// reference quantity.
	ErrInvalidReference = errors.New("level: invalid reference")
)

// MeanSquare is a mean-square value in the linear energy domain.
type MeanSquare float64

// Level is a level in dB relative to a reference quantity.
type Level float64

func (l Level) String() string { return fmt.Sprintf("%.2f dB", float64(l)) }

// MeanSquareOf returns mean(x²), 0 for an empty slice.
func MeanSquareOf(x []float64) MeanSquare {
	if len(x) == 0 {
		return 0
	}

	return MeanSquare(floats.Dot(x, x) / float64(len(x)))
}

// Sum adds energies.
func Sum(ms ...MeanSquare) MeanSquare {
	var total MeanSquare
	for _, m := range ms {
		total += m
	}

	return total
}

// Level converts m to dB re ref, substituting floor for energy that has no
// level above it. The bool is true when the floor was used.
func (m MeanSquare) Level(ref float64, floor Level) (Level, bool) {
	return ToLevel(m, ref, floor)
}

// ToLevel returns 10*log10(ms/ref²). Zero, negative or NaN energy, and energy
// whose level would fall below floor, yield floor and true. Infinite energy
// yields +Inf and false.
func ToLevel(ms MeanSquare, ref float64, floor Level) (Level, bool) {
	l, err := ToLevelStrict(ms, ref)
	if errors.Is(err, ErrOverflow) {
		return Level(math.Inf(1)), false
	}

	if err != nil || l < floor {
		return floor, true
	}

	return l, false
}

// ToLevelStrict is ToLevel without a floor: it returns ErrNumericFloor for
// energy that has no finite level, ErrOverflow for infinite energy and
// ErrInvalidReference for a bad ref.
func ToLevelStrict(ms MeanSquare, ref float64) (Level, error) {
	if ref <= 0 || math.IsNaN(ref) || math.IsInf(ref, 0) {
		return 0, fmt.Errorf("%w: %g", ErrInvalidReference, ref)
	}

	m := float64(ms)
	if math.IsInf(m, 1) {
		return 0, fmt.Errorf("%w: mean square %g", ErrOverflow, m)
	}

	if !(m > 0) {
		return 0, fmt.Errorf("%w: mean square %g", ErrNumericFloor, m)
	}

	l := 10 * math.Log10(m/(ref*ref))
	if math.IsInf(l, 1) {
		return 0, fmt.Errorf("%w: mean square %g", ErrOverflow, m)
	}

	if math.IsInf(l, -1) {
		return 0, fmt.Errorf("%w: mean square %g", ErrNumericFloor, m)
	}

	return Level(l), nil
}

// MeanSquare converts l back to energy re ref.
func (l Level) MeanSquare(ref float64) MeanSquare {
	return MeanSquare(ref * ref * math.Pow(10, float64(l)/10))
}

// SumLevels adds levels through the energy domain.
func SumLevels(levels []Level, ref float64, floor Level) (Level, bool) {
	var total MeanSquare
	for _, l := range levels {
		total += l.MeanSquare(ref)
	}

	return ToLevel(total, ref, floor)
}

// Config holds the calibration of level conversions.
type Config struct {
	Reference float64 `json:"reference"` // reference quantity, e.g. 20 µPa
	Floor     Level   `json:"floor"`     // level reported for zero energy
}

// DefaultConfig returns 20 µPa and -200 dB.
func DefaultConfig() Config {
	return Config{Reference: PressureAir, Floor: DefaultFloor}
}

// Validate checks the reference and floor.
func (c Config) Validate() error {
	if c.Reference <= 0 || math.IsNaN(c.Reference) || math.IsInf(c.Reference, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidReference, c.Reference)
	}

	if math.IsNaN(float64(c.Floor)) || math.IsInf(float64(c.Floor), 0) {
		return fmt.Errorf("level: floor must be finite, got %v", float64(c.Floor))
	}

	return nil
}

// Level converts ms using c.
func (c Config) Level(ms MeanSquare) (Level, bool) {
	return ToLevel(ms, c.Reference, c.Floor)
}

// Result is one level value with its provenance. Band is nil for a
// broadband result.
type Result struct {
	Band       *octave.Band
	Value      Level
	MeanSquare MeanSquare
	Reference  float64
	Window     Window
	// Floor is set when Value is the configured floor, not a measured level.
	Floor bool
	// Overflow is set when the energy was infinite and Value is +Inf.
	Overflow bool
}

// NewResult converts ms with c into a Result.
func (c Config) NewResult(band *octave.Band, ms MeanSquare, w Window) Result {
	v, floor := c.Level(ms)

	return Result{
		Band:       band,
		Value:      v,
		MeanSquare: ms,
		Reference:  c.Reference,
		Window:     w,
		Floor:      floor,
		Overflow:   math.IsInf(float64(v), 1),
	}
}

// Measure computes the level of samples over w.
func (c Config) Measure(samples []float64, sampleRate float64, w Window) (Result, error) {
	x, err := Windowed(samples, sampleRate, w)
	if err != nil {
		return Result{}, err
	}

	return c.NewResult(nil, MeanSquareOf(x), w), nil
}
