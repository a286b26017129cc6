package design

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-acoustics/dsp/filter/biquad"
)

// ButterworthBP designs a Butterworth band-pass filter with -3 dB points at
// low and high (Hz) and returns it as order second-order sections.
//
// order is the order of the analog lowpass prototype; the band-pass filter
// has twice as many poles. The design follows the classic route:
//
//  1. pre-warp both edges, w = tan(pi*f/fs), so the bilinear transform maps
//     them exactly onto low and high,
//  2. place the prototype poles p_k = exp(j*pi*(2k+N+1)/(2N)),
//  3. transform lowpass to band-pass, s = (p*B/2) +/- sqrt((p*B/2)^2 - w0^2)
//     with B = w2-w1 and w0 = sqrt(w1*w2),
//  4. map each conjugate pole pair through z = (1+s)/(1-s).
//
// Every section gets one zero at z = 1 and one at z = -1 and is scaled to
// unit gain at the digital image of w0, so the cascade peaks at 0 dB in the
// middle of the band. Poles are never expanded into a single polynomial.
//
// Returns nil when 0 < low < high < sampleRate/2 does not hold or order < 1.
func ButterworthBP(low, high float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || !validFreq(low, sampleRate) || !validFreq(high, sampleRate) || low >= high {
		return nil
	}

	w1 := math.Tan(math.Pi * low / sampleRate)
	w2 := math.Tan(math.Pi * high / sampleRate)
	w0 := math.Sqrt(w1 * w2)
	halfBW := (w2 - w1) / 2
	f0 := sampleRate / math.Pi * math.Atan(w0)

	n := float64(order)
	sections := make([]biquad.Coefficients, 0, order)

	// Upper half-plane prototype poles; each yields two band-pass poles whose
	// conjugates come from the mirrored prototype pole.
	for k := 0; 2*k+1 < order; k++ {
		p := cmplx.Exp(complex(0, math.Pi*float64(2*k+order+1)/(2*n)))
		a := p * complex(halfBW, 0)
		d := cmplx.Sqrt(a*a - complex(w0*w0, 0))

		for _, s := range [2]complex128{a + d, a - d} {
			z := bilinearPole(s)
			sections = append(sections, bandSection(z, cmplx.Conj(z), f0, sampleRate))
		}
	}

	// Odd orders leave the real prototype pole p = -1, which maps to one
	// band-pass pole pair (complex for any band narrower than two octaves
	// around w0, real otherwise).
	if order%2 != 0 {
		a := complex(-halfBW, 0)
		d := cmplx.Sqrt(a*a - complex(w0*w0, 0))
		sections = append(sections, bandSection(bilinearPole(a+d), bilinearPole(a-d), f0, sampleRate))
	}

	return sections
}

func bilinearPole(s complex128) complex128 {
	return (1 + s) / (1 - s)
}

// bandSection builds 1 - z^-2 over (1 - z1 z^-1)(1 - z2 z^-1) and scales it
// to unit magnitude at f0.
func bandSection(z1, z2 complex128, f0, sampleRate float64) biquad.Coefficients {
	c := biquad.Coefficients{
		B0: 1,
		B2: -1,
		A1: -real(z1 + z2),
		A2: real(z1 * z2),
	}

	g := 1 / math.Sqrt(c.MagnitudeSquared(f0, sampleRate))
	c.B0 = g
	c.B2 = -g

	return c
}

// BandCenter returns the frequency (Hz) at which a [ButterworthBP] design
// with the given edges has its 0 dB peak.
func BandCenter(low, high, sampleRate float64) float64 {
	w1 := math.Tan(math.Pi * low / sampleRate)
	w2 := math.Tan(math.Pi * high / sampleRate)

	return sampleRate / math.Pi * math.Atan(math.Sqrt(w1*w2))
}
