package bank

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-acoustics/dsp/filter/biquad"
	"github.com/cwbudde/algo-acoustics/dsp/filter/design"
	"github.com/cwbudde/algo-acoustics/dsp/octave"
)

var (
	// ErrBandExceedsNyquist is returned when a band's upper edge is at or
	// above NyquistMargin times the Nyquist frequency.
	ErrBandExceedsNyquist = errors.New("bank: band exceeds nyquist")
	// ErrUnstable is returned when a designed section has a pole on or
	// outside the unit circle.
	ErrUnstable = errors.New("bank: unstable design")
	// ErrInvalidSampleRate is returned for a non-positive or non-finite rate.
	ErrInvalidSampleRate = errors.New("bank: invalid sample rate")
	// ErrInvalidOrder is returned for a prototype order below one.
	ErrInvalidOrder = errors.New("bank: invalid order")
)

const (
	// DefaultOrder is the Butterworth prototype order. A band-pass design
	// has twice as many poles.
	DefaultOrder = 4

	// NyquistMargin is the fraction of Nyquist a band's upper edge must stay
	// below to be designed.
	NyquistMargin = 0.98
)

// Kind is the filter topology of a FilterSpec.
type Kind int

const (
	KindBandpass Kind = iota
	KindLowpass
)

func (k Kind) String() string {
	switch k {
	case KindBandpass:
		return "bandpass"
	case KindLowpass:
		return "lowpass"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Status reports whether a band could be designed and processed.
type Status int

const (
	StatusOK Status = iota
	StatusExceedsNyquist
	StatusDesignFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusExceedsNyquist:
		return "exceeds-nyquist"
	case StatusDesignFailed:
		return "design-failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// StatusOf maps a Design error to a band status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrBandExceedsNyquist):
		return StatusExceedsNyquist
	default:
		return StatusDesignFailed
	}
}

// FilterSpec is an immutable filter design for one band.
type FilterSpec struct {
	Band       octave.Band
	SampleRate float64
	Order      int
	Kind       Kind

	sections []biquad.Coefficients
}

// Coefficients returns a copy of the second-order sections.
func (s *FilterSpec) Coefficients() []biquad.Coefficients {
	out := make([]biquad.Coefficients, len(s.sections))
	copy(out, s.sections)

	return out
}

// NumSections returns the number of second-order sections.
func (s *FilterSpec) NumSections() int { return len(s.sections) }

// NewChain returns a fresh filter with zero state.
func (s *FilterSpec) NewChain() *biquad.Chain {
	return biquad.NewChain(s.sections)
}

// MagnitudeDB returns the single-pass magnitude response in dB at freqHz.
func (s *FilterSpec) MagnitudeDB(freqHz float64) float64 {
	return s.NewChain().MagnitudeDB(freqHz, s.SampleRate)
}

// MagnitudeSquared returns the single-pass power response at freqHz.
func (s *FilterSpec) MagnitudeSquared(freqHz float64) float64 {
	return s.NewChain().MagnitudeSquared(freqHz, s.SampleRate)
}

// Design builds the filter for one band. It is deterministic: the same
// arguments always return bit-identical coefficients.
func Design(band octave.Band, sampleRate float64, order int) (*FilterSpec, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %g Hz", ErrInvalidSampleRate, sampleRate)
	}

	if order < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}

	nyquist := sampleRate / 2
	if band.Upper >= NyquistMargin*nyquist {
		return nil, fmt.Errorf("%w: band %v, upper edge %.1f Hz >= %.1f Hz",
			ErrBandExceedsNyquist, band.Nominal, band.Upper, NyquistMargin*nyquist)
	}

	spec := &FilterSpec{
		Band:       band,
		SampleRate: sampleRate,
		Order:      order,
	}

	if band.Lower <= 0 {
		spec.Kind = KindLowpass
		spec.sections = design.ButterworthLP(band.Upper, order, sampleRate)
	} else {
		spec.Kind = KindBandpass
		spec.sections = design.ButterworthBP(band.Lower, band.Upper, order, sampleRate)
	}

	if len(spec.sections) == 0 {
		return nil, fmt.Errorf("bank: design %v %.4g..%.4g Hz at %g Hz: no sections",
			spec.Kind, band.Lower, band.Upper, sampleRate)
	}

	for i := range spec.sections {
		if !spec.sections[i].Stable() {
			return nil, fmt.Errorf("%w: band %v section %d (pole radius %.12f)",
				ErrUnstable, band.Nominal, i, spec.sections[i].MaxPoleRadius())
		}
	}

	return spec, nil
}
