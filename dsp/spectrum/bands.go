package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mjibson/go-dsp/fft"

	"github.com/cwbudde/algo-acoustics/dsp/octave"
	"github.com/cwbudde/algo-acoustics/dsp/window"
)

// ErrEmptySignal is returned for spectra of empty input.
var ErrEmptySignal = errors.New("spectrum: empty signal")

// MeanSquareSpectrum is a one-sided spectrum scaled so that its bins sum to
// the mean square of the analysed signal.
type MeanSquareSpectrum struct {
	Bins       []float64 // bin k covers k*BinWidth
	BinWidth   float64   // Hz
	SampleRate float64
	Window     window.Type
}

// Option configures MeanSquare.
type Option func(*msConfig)

type msConfig struct {
	window window.Type
}

// WithWindow tapers the signal with the periodic form of t before the FFT.
// The spectrum is divided by the window's power gain, so band sums of
// broadband signals stay calibrated while tones leak far less.
func WithWindow(t window.Type) Option {
	return func(c *msConfig) {
		c.window = t
	}
}

// MeanSquare computes the one-sided mean-square spectrum of x with an FFT of
// len(x) points (any length). By default no window is applied, so bins of a
// non-periodic signal leak into their neighbours; see WithWindow.
func MeanSquare(x []float64, sampleRate float64, opts ...Option) (*MeanSquareSpectrum, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrEmptySignal
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum: invalid sample rate %g", sampleRate)
	}

	cfg := msConfig{window: window.TypeRectangular}
	for _, o := range opts {
		o(&cfg)
	}

	scale := 1 / (float64(n) * float64(n))

	if cfg.window != window.TypeRectangular {
		w := window.Generate(cfg.window, n, window.WithPeriodic())

		pg := window.PowerGain(w)
		if pg == 0 {
			return nil, fmt.Errorf("spectrum: %v window has no energy at length %d", cfg.window, n)
		}

		tapered := make([]float64, n)
		copy(tapered, x)
		window.Apply(cfg.window, tapered, window.WithPeriodic())

		x = tapered
		scale /= pg
	}

	full := Power(fft.FFTReal(x))
	half := n/2 + 1
	bins := make([]float64, half)

	for k := range bins {
		p := full[k] * scale
		// Negative-frequency mirror, except DC and (for even n) Nyquist.
		if k != 0 && !(n%2 == 0 && k == n/2) {
			p *= 2
		}

		bins[k] = p
	}

	return &MeanSquareSpectrum{
		Bins:       bins,
		BinWidth:   sampleRate / float64(n),
		SampleRate: sampleRate,
		Window:     cfg.window,
	}, nil
}

// Total returns the sum of all bins, the mean square of the signal.
func (s *MeanSquareSpectrum) Total() float64 {
	var sum float64
	for _, v := range s.Bins {
		sum += v
	}

	return sum
}

// Frequencies returns the center frequency of every bin.
func (s *MeanSquareSpectrum) Frequencies() []float64 {
	out := make([]float64, len(s.Bins))
	for k := range out {
		out[k] = float64(k) * s.BinWidth
	}

	return out
}

// BandMeanSquare sums the bins whose frequency lies in [low, high).
func (s *MeanSquareSpectrum) BandMeanSquare(low, high float64) float64 {
	if high <= low {
		return 0
	}

	k0 := max(int(math.Ceil(low/s.BinWidth)), 0)

	var sum float64

	for k := k0; k < len(s.Bins); k++ {
		f := float64(k) * s.BinWidth
		if f >= high {
			break
		}

		if f >= low {
			sum += s.Bins[k]
		}
	}

	return sum
}

// Bands returns the mean square of every band.
func (s *MeanSquareSpectrum) Bands(bands []octave.Band) []float64 {
	out := make([]float64, len(bands))
	for i, b := range bands {
		out[i] = s.BandMeanSquare(b.Lower, b.Upper)
	}

	return out
}

// SmoothFractionalOctave replaces every value by the arithmetic mean of the
// values within ±1/(2*fraction) octave of its frequency. freqHz must be
// positive and strictly increasing.
func SmoothFractionalOctave(freqHz, values []float64, fraction int) ([]float64, error) {
	switch {
	case len(freqHz) == 0:
		return nil, fmt.Errorf("spectrum: smoothing requires non-empty input")
	case len(freqHz) != len(values):
		return nil, fmt.Errorf("spectrum: smoothing length mismatch %d != %d", len(freqHz), len(values))
	case fraction <= 0:
		return nil, fmt.Errorf("spectrum: smoothing fraction must be > 0, got %d", fraction)
	}

	for i := range freqHz {
		if freqHz[i] <= 0 || (i > 0 && freqHz[i] <= freqHz[i-1]) {
			return nil, fmt.Errorf("spectrum: smoothing frequencies must be positive and increasing at %d", i)
		}
	}

	half := math.Pow(2, 1/(2*float64(fraction)))
	out := make([]float64, len(values))

	for i, f := range freqHz {
		i0 := sort.SearchFloat64s(freqHz, f/half)
		i1 := sort.Search(len(freqHz), func(k int) bool { return freqHz[k] > f*half })

		var sum float64
		for _, v := range values[i0:i1] {
			sum += v
		}

		out[i] = sum / float64(i1-i0)
	}

	return out, nil
}
