// Package cepstrum computes real and complex cepstra and minimum-phase
// reconstructions of real signals.
//
// Every function takes the transform length n. An n of 0 selects len(x);
// otherwise x is zero-padded or truncated to n. Any length is accepted.
package cepstrum

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-acoustics/dsp/spectrum"
)

var (
	// ErrInvalidSize is returned for a negative transform length.
	ErrInvalidSize = errors.New("cepstrum: invalid transform size")
	// ErrEmptySignal is returned when there is nothing to transform.
	ErrEmptySignal = errors.New("cepstrum: empty signal")
	// ErrZeroSpectrum is returned when a spectral bin is exactly zero and
	// has no logarithm.
	ErrZeroSpectrum = errors.New("cepstrum: zero in spectrum")
)

// Complex returns the complex cepstrum of x and the number of samples of
// linear-phase delay removed before the inverse transform. Pass both to
// InverseComplex to recover x.
func Complex(x []float64, n int) ([]float64, int, error) {
	plan, buf, err := prepare(x, n)
	if err != nil {
		return nil, 0, err
	}

	n = len(buf)

	spec := make([]complex128, n)
	if err := plan.Forward(spec, buf); err != nil {
		return nil, 0, fmt.Errorf("cepstrum: forward transform: %w", err)
	}

	phase := spectrum.UnwrapPhase(spectrum.Phase(spec))

	// A single bin has no linear phase to remove.
	ndelay := 0
	center := (n + 1) / 2

	if n > 1 {
		ndelay = int(math.Round(phase[center] / math.Pi))
	}

	for k := range spec {
		mag := cmplx.Abs(spec[k])
		if mag == 0 {
			return nil, 0, fmt.Errorf("%w: bin %d", ErrZeroSpectrum, k)
		}

		p := phase[k]
		if ndelay != 0 {
			p -= math.Pi * float64(ndelay) * float64(k) / float64(center)
		}

		spec[k] = complex(math.Log(mag), p)
	}

	out, err := inverseReal(plan, spec)
	if err != nil {
		return nil, 0, err
	}

	return out, ndelay, nil
}

// InverseComplex reconstructs a signal from its complex cepstrum and the
// delay returned by Complex.
func InverseComplex(ceps []float64, ndelay int) ([]float64, error) {
	n := len(ceps)
	if n == 0 {
		return nil, ErrEmptySignal
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("cepstrum: plan %d: %w", n, err)
	}

	buf := toComplex(ceps, n)
	logSpec := make([]complex128, n)

	if err := plan.Forward(logSpec, buf); err != nil {
		return nil, fmt.Errorf("cepstrum: forward transform: %w", err)
	}

	center := (n + 1) / 2
	for k, v := range logSpec {
		p := imag(v) + math.Pi*float64(ndelay)*float64(k)/float64(center)
		logSpec[k] = cmplx.Exp(complex(real(v), p))
	}

	return inverseReal(plan, logSpec)
}

// Real returns the real cepstrum, the inverse transform of log|X|.
func Real(x []float64, n int) ([]float64, error) {
	plan, buf, err := prepare(x, n)
	if err != nil {
		return nil, err
	}

	return realCepstrum(plan, buf)
}

// MinimumPhase returns the minimum-phase signal with the same magnitude
// spectrum as x, by folding the real cepstrum onto positive quefrencies.
func MinimumPhase(x []float64, n int) ([]float64, error) {
	plan, buf, err := prepare(x, n)
	if err != nil {
		return nil, err
	}

	ceps, err := realCepstrum(plan, buf)
	if err != nil {
		return nil, err
	}

	n = len(ceps)
	half := (n + n%2) / 2

	// Keep c[0], double the positive quefrencies and drop the negative
	// ones. For even n the Nyquist term c[n/2] is kept as is.
	for k := 1; k < half; k++ {
		ceps[k] *= 2
	}

	first := half
	if n%2 == 0 {
		first++
	}

	for k := first; k < n; k++ {
		ceps[k] = 0
	}

	logSpec := make([]complex128, n)
	if err := plan.Forward(logSpec, toComplex(ceps, n)); err != nil {
		return nil, fmt.Errorf("cepstrum: forward transform: %w", err)
	}

	for k, v := range logSpec {
		logSpec[k] = cmplx.Exp(v)
	}

	return inverseReal(plan, logSpec)
}

func realCepstrum(plan *algofft.Plan[complex128], buf []complex128) ([]float64, error) {
	spec := make([]complex128, len(buf))
	if err := plan.Forward(spec, buf); err != nil {
		return nil, fmt.Errorf("cepstrum: forward transform: %w", err)
	}

	for k, mag := range spectrum.Magnitude(spec) {
		if mag == 0 {
			return nil, fmt.Errorf("%w: bin %d", ErrZeroSpectrum, k)
		}

		spec[k] = complex(math.Log(mag), 0)
	}

	return inverseReal(plan, spec)
}

func prepare(x []float64, n int) (*algofft.Plan[complex128], []complex128, error) {
	if n < 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	if n == 0 {
		n = len(x)
	}

	if n == 0 {
		return nil, nil, ErrEmptySignal
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, nil, fmt.Errorf("cepstrum: plan %d: %w", n, err)
	}

	return plan, toComplex(x, n), nil
}

func inverseReal(plan *algofft.Plan[complex128], spec []complex128) ([]float64, error) {
	td := make([]complex128, len(spec))
	if err := plan.Inverse(td, spec); err != nil {
		return nil, fmt.Errorf("cepstrum: inverse transform: %w", err)
	}

	out := make([]float64, len(td))
	for i, v := range td {
		out[i] = real(v)
	}

	return out, nil
}

func toComplex(x []float64, n int) []complex128 {
	out := make([]complex128, n)
	for i := range min(len(x), n) {
		out[i] = complex(x[i], 0)
	}

	return out
}
