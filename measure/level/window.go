package level

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrEmptyWindow is returned when a window selects no samples.
var ErrEmptyWindow = errors.New("level: empty window")

// Window selects a time range of a signal. A zero Duration extends to the
// end of the signal, so the zero Window is the whole signal.
type Window struct {
	Start    time.Duration `json:"start"`
	Duration time.Duration `json:"duration"`
}

// Whole reports whether w covers the entire signal.
func (w Window) Whole() bool { return w.Start == 0 && w.Duration == 0 }

func (w Window) String() string {
	if w.Whole() {
		return "whole"
	}

	if w.Duration == 0 {
		return fmt.Sprintf("%v..end", w.Start)
	}

	return fmt.Sprintf("%v..%v", w.Start, w.Start+w.Duration)
}

// Bounds returns the sample range [lo, hi) of w in a signal of n samples,
// clamped to the signal.
func (w Window) Bounds(n int, sampleRate float64) (int, int, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, 0, fmt.Errorf("level: invalid sample rate %g", sampleRate)
	}

	if w.Start < 0 || w.Duration < 0 {
		return 0, 0, fmt.Errorf("%w: negative window %v", ErrEmptyWindow, w)
	}

	lo := toSamples(w.Start, sampleRate)
	hi := n

	if w.Duration > 0 {
		hi = min(lo+toSamples(w.Duration, sampleRate), n)
	}

	if lo >= n || hi <= lo {
		return 0, 0, fmt.Errorf("%w: %v of %d samples", ErrEmptyWindow, w, n)
	}

	return lo, hi, nil
}

// Windowed returns the samples selected by w. The result aliases samples.
func Windowed(samples []float64, sampleRate float64, w Window) ([]float64, error) {
	lo, hi, err := w.Bounds(len(samples), sampleRate)
	if err != nil {
		return nil, err
	}

	return samples[lo:hi], nil
}

// Slices cuts samples into consecutive windows of length step. A trailing
// partial slice is kept.
func Slices(samples []float64, sampleRate float64, step time.Duration) ([][]float64, error) {
	n := toSamples(step, sampleRate)
	if n <= 0 {
		return nil, fmt.Errorf("level: step %v at %g Hz is shorter than one sample", step, sampleRate)
	}

	out := make([][]float64, 0, (len(samples)+n-1)/n)
	for lo := 0; lo < len(samples); lo += n {
		out = append(out, samples[lo:min(lo+n, len(samples))])
	}

	return out, nil
}

// Leq returns the equivalent continuous level of each consecutive slice of
// length step.
func (c Config) Leq(samples []float64, sampleRate float64, step time.Duration) ([]Level, error) {
	slices, err := Slices(samples, sampleRate, step)
	if err != nil {
		return nil, err
	}

	out := make([]Level, len(slices))
	for i, s := range slices {
		out[i], _ = c.Level(MeanSquareOf(s))
	}

	return out, nil
}

func toSamples(d time.Duration, sampleRate float64) int {
	if sampleRate <= 0 {
		return 0
	}

	return int(math.Round(d.Seconds() * sampleRate))
}
