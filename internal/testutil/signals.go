// Package testutil provides deterministic test signals and tolerance helpers
// shared by the package tests.
package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/mjibson/go-dsp/fft"
)

// DeterministicSine generates amplitude*sin(2*pi*f*n/fs).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// MultiTone sums sines at the given frequencies, all with the same amplitude.
func MultiTone(freqsHz []float64, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	for _, f := range freqsHz {
		step := 2 * math.Pi * f / sampleRate
		for i := range out {
			out[i] += amplitude * math.Sin(step*float64(i))
		}
	}

	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// BandLimitedNoise returns a periodic noise signal whose spectrum is flat in
// [lowHz, highHz) and exactly zero elsewhere, scaled to the given RMS.
// It is built from FFT bins with random phase, so the signal repeats every
// length samples.
func BandLimitedNoise(seed int64, lowHz, highHz, sampleRate, rms float64, length int) []float64 {
	if length < 2 || highHz <= lowHz {
		return make([]float64, max(length, 0))
	}

	rng := rand.New(rand.NewSource(seed))
	spec := make([]complex128, length)
	binHz := sampleRate / float64(length)

	for k := 1; k < (length+1)/2; k++ {
		f := float64(k) * binHz
		if f < lowHz || f >= highHz {
			continue
		}

		v := cmplx.Rect(1, 2*math.Pi*rng.Float64())
		spec[k] = v
		spec[length-k] = cmplx.Conj(v)
	}

	td := fft.IFFT(spec)
	out := make([]float64, length)

	var sum float64

	for i, v := range td {
		out[i] = real(v)
		sum += out[i] * out[i]
	}

	if sum == 0 {
		return out
	}

	scale := rms / math.Sqrt(sum/float64(length))
	for i := range out {
		out[i] *= scale
	}

	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// RMS returns the root mean square of x, 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	var sum float64
	for _, v := range x {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(x)))
}
