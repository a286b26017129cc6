package octave

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange is returned for a band fraction, reference or frequency
// range that cannot produce a grid.
var ErrInvalidRange = errors.New("octave: invalid range")

// DefaultReference is the reference frequency f_ref in Hz.
const DefaultReference = 1000.0

// Base selects the octave ratio G.
type Base int

const (
	// Base2 uses G = 2.
	Base2 Base = iota
	// Base10 uses G = 10^(3/10) ≈ 1.99526.
	Base10
)

func (b Base) String() string {
	switch b {
	case Base2:
		return "base2"
	case Base10:
		return "base10"
	default:
		return fmt.Sprintf("Base(%d)", int(b))
	}
}

// Ratio returns the octave ratio G.
func (b Base) Ratio() float64 {
	if b == Base10 {
		return base10Ratio
	}

	return 2
}

var base10Ratio = math.Pow(10, 0.3)

// Band is one fractional-octave band. Lower < Center < Upper always holds.
type Band struct {
	Index    int     // band index n, 0 is the band centered on the reference
	Fraction int     // bands per octave b
	Nominal  float64 // nominal (labelled) center in Hz
	Center   float64 // exact mid-band frequency in Hz
	Lower    float64 // lower band edge in Hz
	Upper    float64 // upper band edge in Hz
}

// Bandwidth returns Upper - Lower in Hz.
func (b Band) Bandwidth() float64 { return b.Upper - b.Lower }

// Contains reports whether f lies in [Lower, Upper).
func (b Band) Contains(f float64) bool { return f >= b.Lower && f < b.Upper }

func (b Band) String() string {
	return fmt.Sprintf("%g Hz [%.4g, %.4g)", b.Nominal, b.Lower, b.Upper)
}

type config struct {
	reference float64
	base      Base
}

// Option configures grid generation.
type Option func(*config)

// WithReference sets the reference frequency f_ref (default 1000 Hz).
func WithReference(f float64) Option {
	return func(c *config) {
		c.reference = f
	}
}

// WithBase selects the octave ratio (default Base2).
func WithBase(b Base) Option {
	return func(c *config) {
		c.base = b
	}
}

func newConfig(opts []Option) config {
	cfg := config{reference: DefaultReference, base: Base2}
	for _, o := range opts {
		o(&cfg)
	}

	return cfg
}

// Grid returns the 1/fraction-octave bands whose nominal center lies in
// [fmin, fmax], ordered by ascending frequency.
func Grid(fraction int, fmin, fmax float64, opts ...Option) ([]Band, error) {
	cfg := newConfig(opts)

	switch {
	case fraction <= 0:
		return nil, fmt.Errorf("%w: fraction %d", ErrInvalidRange, fraction)
	case !finitePositive(fmin) || !finitePositive(fmax):
		return nil, fmt.Errorf("%w: frequencies %g..%g Hz", ErrInvalidRange, fmin, fmax)
	case fmin >= fmax:
		return nil, fmt.Errorf("%w: fmin %g Hz >= fmax %g Hz", ErrInvalidRange, fmin, fmax)
	case !finitePositive(cfg.reference):
		return nil, fmt.Errorf("%w: reference %g Hz", ErrInvalidRange, cfg.reference)
	case cfg.base != Base2 && cfg.base != Base10:
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, cfg.base)
	}

	b := float64(fraction)
	logG := math.Log(cfg.base.Ratio())

	// One extra index on each side catches bands whose nominal label falls
	// inside the range while the exact center is just outside.
	kMin := int(math.Floor(b*math.Log(fmin/cfg.reference)/logG)) - 1
	kMax := int(math.Ceil(b*math.Log(fmax/cfg.reference)/logG)) + 1

	bands := make([]Band, 0, kMax-kMin+1)

	for n := kMin; n <= kMax; n++ {
		band := cfg.band(n, fraction)
		if band.Nominal < fmin || band.Nominal > fmax {
			continue
		}

		bands = append(bands, band)
	}

	return bands, nil
}

// BandAt returns band n of a 1/fraction-octave grid.
func BandAt(n, fraction int, opts ...Option) (Band, error) {
	cfg := newConfig(opts)
	if fraction <= 0 || !finitePositive(cfg.reference) {
		return Band{}, fmt.Errorf("%w: fraction %d, reference %g Hz", ErrInvalidRange, fraction, cfg.reference)
	}

	return cfg.band(n, fraction), nil
}

func (c config) band(n, fraction int) Band {
	return Band{
		Index:    n,
		Fraction: fraction,
		Nominal:  c.nominal(n, fraction),
		Center:   c.at(2*n, fraction),
		Lower:    c.at(2*n-1, fraction),
		Upper:    c.at(2*n+1, fraction),
	}
}

// at evaluates f_ref * G^(h/(2b)) for a half-band index h.
func (c config) at(h, fraction int) float64 {
	if h == 0 {
		return c.reference
	}

	return c.reference * math.Pow(c.base.Ratio(), float64(h)/float64(2*fraction))
}

func (c config) nominal(n, fraction int) float64 {
	if c.reference == DefaultReference && (fraction == 1 || fraction == 3) {
		return preferred(n * 3 / fraction)
	}

	return roundSignificant(c.at(2*n, fraction), 3)
}

// Nominal returns the nominal center of band n of a default 1/fraction-octave
// grid (base-2, 1 kHz reference).
func Nominal(n, fraction int) float64 {
	if fraction <= 0 {
		return math.NaN()
	}

	return newConfig(nil).nominal(n, fraction)
}

// Centers returns the exact centers of bands.
func Centers(bands []Band) []float64 {
	out := make([]float64, len(bands))
	for i, b := range bands {
		out[i] = b.Center
	}

	return out
}

// r10 holds the ISO 266 R10 mantissas scaled by 100.
var r10 = [10]int{100, 125, 160, 200, 250, 315, 400, 500, 630, 800}

// preferred returns the R10 preferred number for third-octave index m,
// where m = 0 is 1000 Hz.
func preferred(m int) float64 {
	idx := ((m % 10) + 10) % 10
	decade := floorDiv(m, 10)

	// Mantissa is x100, so the value is r10[idx] * 10^(decade+1).
	v := float64(r10[idx])

	exp := decade + 1
	if exp >= 0 {
		return v * math.Pow(10, float64(exp))
	}

	return v / math.Pow(10, float64(-exp))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

func roundSignificant(x float64, digits int) float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	shift := digits - 1 - int(math.Floor(math.Log10(math.Abs(x))))
	if shift >= 0 {
		p := math.Pow(10, float64(shift))
		return math.Round(x*p) / p
	}

	p := math.Pow(10, float64(-shift))

	return math.Round(x/p) * p
}

func finitePositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
