// Package window generates the cosine-sum windows used to taper signals
// before spectral analysis, and the gains needed to keep windowed spectra
// energy-calibrated.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeFlatTop
)

// cosine-sum terms a_k of w(x) = Σ a_k cos(2πkx), x in [0, 1].
var terms = map[Type][]float64{
	TypeRectangular: {1},
	TypeHann:        {0.5, -0.5},
	TypeHamming:     {0.54, -0.46},
	TypeBlackman:    {0.42, -0.5, 0.08},
	TypeFlatTop:     {0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368},
}

func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeHamming:
		return "hamming"
	case TypeBlackman:
		return "blackman"
	case TypeFlatTop:
		return "flat-top"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType parses a window name as printed by String.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t := range terms {
		if t.String() == name {
			return t, nil
		}
	}

	return 0, fmt.Errorf("window: unknown type %q", s)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length. Unknown types
// generate a rectangular window.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	a, ok := terms[t]
	if !ok {
		a = terms[TypeRectangular]
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = cosineSum(samplePosition(i, length, cfg.periodic), a)
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// CoherentGain returns the mean of the coefficients, the amplitude gain
// for a tone centered on a bin.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	return floats.Sum(coeffs) / float64(len(coeffs))
}

// PowerGain returns the mean of the squared coefficients, the gain applied
// to the mean square of broadband noise.
func PowerGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	return floats.Dot(coeffs, coeffs) / float64(len(coeffs))
}

// ENBW returns the equivalent noise bandwidth in bins.
func ENBW(coeffs []float64) float64 {
	cg := CoherentGain(coeffs)
	if cg == 0 {
		return math.Inf(1)
	}

	return PowerGain(coeffs) / (cg * cg)
}

func cosineSum(x float64, a []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range a {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
