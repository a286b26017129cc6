package biquad

import (
	"math"
	"math/cmplx"
)

// Poles returns the z-plane roots of 1 + A1*z^-1 + A2*z^-2.
// A first-order section (A2 == 0) reports its single pole and 0.
func (c *Coefficients) Poles() [2]complex128 {
	if c.A2 == 0 {
		return [2]complex128{complex(-c.A1, 0), 0}
	}

	disc := cmplx.Sqrt(complex(c.A1*c.A1-4*c.A2, 0))
	b := complex(-c.A1, 0)

	return [2]complex128{(b + disc) / 2, (b - disc) / 2}
}

// Stable reports whether both poles lie strictly inside the unit circle.
//
// It uses the stability triangle |A2| < 1, |A1| < 1 + A2 and rejects
// non-finite coefficients.
func (c *Coefficients) Stable() bool {
	for _, v := range [...]float64{c.B0, c.B1, c.B2, c.A1, c.A2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}

// MaxPoleRadius returns the largest pole magnitude of the section.
func (c *Coefficients) MaxPoleRadius() float64 {
	p := c.Poles()
	return math.Max(cmplx.Abs(p[0]), cmplx.Abs(p[1]))
}

// Stable reports whether every section of the chain is stable.
func (c *Chain) Stable() bool {
	for i := range c.sections {
		if !c.sections[i].Stable() {
			return false
		}
	}

	return true
}

// MaxPoleRadius returns the largest pole magnitude across all sections.
func (c *Chain) MaxPoleRadius() float64 {
	r := 0.0
	for i := range c.sections {
		r = math.Max(r, c.sections[i].MaxPoleRadius())
	}

	return r
}
