package spectrum

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratch holds pooled split real/imaginary buffers.
type scratch struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratch{} },
}

func split(in []complex128) (re, im []float64, s *scratch) {
	s = scratchPool.Get().(*scratch)

	n := len(in)
	if cap(s.data) < 2*n {
		s.data = make([]float64, 2*n)
	}

	re, im = s.data[:n], s.data[n:2*n]
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	return re, im, s
}

// Magnitude returns |X[k]| for each bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, s := split(in)
	vecmath.Magnitude(out, re, im)
	scratchPool.Put(s)

	return out
}

// Power returns |X[k]|^2 for each bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, s := split(in)
	vecmath.Power(out, re, im)
	scratchPool.Put(s)

	return out
}

// Phase returns arg(X[k]) in radians.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}

	return out
}

// UnwrapPhase returns a copy of phase with jumps larger than pi folded
// back by multiples of 2*pi.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}

	out := make([]float64, len(phase))
	out[0] = phase[0]

	offset := 0.0

	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		offset -= 2 * math.Pi * math.Round(d/(2*math.Pi))
		out[i] = phase[i] + offset
	}

	return out
}
