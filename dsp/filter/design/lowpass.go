package design

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-acoustics/dsp/filter/biquad"
)

// ButterworthLP designs a Butterworth lowpass of the given order with its
// -3 dB point at freq (Hz). It serves a band whose lower edge is DC.
//
// The route is the one ButterworthBP takes without the band transform: the
// prototype poles are scaled to the pre-warped cutoff tan(pi*freq/fs) and
// mapped through the bilinear transform. Each pole pair becomes one section
// with a double zero at z = -1; an odd order ends with a first-order section
// (B2 = A2 = 0). Every section has unit gain at DC.
//
// Returns nil when 0 < freq < sampleRate/2 does not hold or order < 1.
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || !validFreq(freq, sampleRate) {
		return nil
	}

	wc := math.Tan(math.Pi * freq / sampleRate)
	n := float64(order)
	sections := make([]biquad.Coefficients, 0, (order+1)/2)

	for k := 0; 2*k+1 < order; k++ {
		p := cmplx.Exp(complex(0, math.Pi*float64(2*k+order+1)/(2*n)))
		z := bilinearPole(p * complex(wc, 0))

		a1 := -2 * real(z)
		a2 := real(z)*real(z) + imag(z)*imag(z)
		g := (1 + a1 + a2) / 4

		sections = append(sections, biquad.Coefficients{B0: g, B1: 2 * g, B2: g, A1: a1, A2: a2})
	}

	if order%2 != 0 {
		z := (1 - wc) / (1 + wc)
		g := (1 - z) / 2

		sections = append(sections, biquad.Coefficients{B0: g, B1: g, A1: -z})
	}

	return sections
}

func validFreq(freq, sampleRate float64) bool {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return false
	}

	return freq > 0 && freq < sampleRate/2
}
