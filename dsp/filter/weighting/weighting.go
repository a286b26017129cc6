package weighting

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-acoustics/dsp/filter/biquad"
)

var (
	// ErrUnknownType is returned for a Type outside A, B, C and Z.
	ErrUnknownType = errors.New("weighting: unknown type")
	// ErrInvalidSampleRate is returned for a non-positive or non-finite rate.
	ErrInvalidSampleRate = errors.New("weighting: invalid sample rate")
)

// IEC 61672 analog prototype pole frequencies (Hz).
const (
	f1 = 20.598997 // double pole for A, B, C
	f2 = 107.65265 // single pole for A
	f3 = 158.48932 // single pole for B
	f4 = 737.86223 // single pole for A
	f5 = 12194.217 // double pole for A, B, C
)

const referenceFreq = 1000.0

// Curve maps a frequency in Hz to a gain in dB.
type Curve interface {
	GainDB(freqHz float64) float64
}

// CurveFunc adapts a function to Curve.
type CurveFunc func(freqHz float64) float64

// GainDB calls f.
func (f CurveFunc) GainDB(freqHz float64) float64 { return f(freqHz) }

// Type identifies a frequency weighting curve.
type Type int

const (
	// TypeA approximates the 40-phon equal-loudness contour.
	TypeA Type = iota
	// TypeB approximates the 70-phon contour.
	TypeB
	// TypeC approximates the 100-phon contour.
	TypeC
	// TypeZ is flat.
	TypeZ
)

// String returns a human-readable name for the weighting type.
func (t Type) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeB:
		return "B"
	case TypeC:
		return "C"
	case TypeZ:
		return "Z"
	default:
		return "Unknown"
	}
}

// ParseType parses "A", "B", "C" or "Z" (case-insensitive). An empty string
// parses as TypeZ.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return TypeA, nil
	case "B":
		return TypeB, nil
	case "C":
		return TypeC, nil
	case "Z", "":
		return TypeZ, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// prototype lists the analog poles of a weighting: every pole contributes
// one zero at DC except the lowpass poles at f5.
type prototype struct {
	hpDouble []float64 // (s/(s+w))^2
	hpSingle []float64 // s/(s+w)
	lpSingle int       // w5/(s+w5) count
}

func (t Type) prototype() (prototype, bool) {
	switch t {
	case TypeA:
		return prototype{hpDouble: []float64{f1}, hpSingle: []float64{f2, f4}, lpSingle: 2}, true
	case TypeB:
		return prototype{hpDouble: []float64{f1}, hpSingle: []float64{f3}, lpSingle: 2}, true
	case TypeC:
		return prototype{hpDouble: []float64{f1}, lpSingle: 2}, true
	case TypeZ:
		return prototype{}, true
	default:
		return prototype{}, false
	}
}

// GainDB returns the analog IEC 61672 curve at freqHz, normalized to 0 dB at
// 1 kHz. It returns -Inf at DC for A, B and C.
func (t Type) GainDB(freqHz float64) float64 {
	p, ok := t.prototype()
	if !ok {
		return math.NaN()
	}

	return p.gainDB(freqHz) - p.gainDB(referenceFreq)
}

func (p prototype) gainDB(f float64) float64 {
	ff := f * f

	var db float64

	for _, fp := range p.hpDouble {
		db += 20 * math.Log10(ff/(ff+fp*fp))
	}

	for _, fp := range p.hpSingle {
		db += 10 * math.Log10(ff/(ff+fp*fp))
	}

	for range p.lpSingle {
		db += 10 * math.Log10(f5*f5/(ff+f5*f5))
	}

	return db
}

// Gain is shorthand for t.GainDB(freqHz).
func Gain(t Type, freqHz float64) float64 { return t.GainDB(freqHz) }

// BandCorrections evaluates c at every center frequency.
func BandCorrections(c Curve, centers []float64) []float64 {
	out := make([]float64, len(centers))
	for i, f := range centers {
		out[i] = c.GainDB(f)
	}

	return out
}

// Design returns the digital sections of weighting t at sampleRate and the
// overall gain that brings the cascade to 0 dB at 1 kHz.
func Design(t Type, sampleRate float64) ([]biquad.Coefficients, float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, 0, fmt.Errorf("%w: %g Hz", ErrInvalidSampleRate, sampleRate)
	}

	p, ok := t.prototype()
	if !ok {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}

	if t == TypeZ {
		return []biquad.Coefficients{{B0: 1}}, 1, nil
	}

	var coeffs []biquad.Coefficients

	for _, f := range p.hpDouble {
		coeffs = append(coeffs, hpSecondOrder(f, sampleRate))
	}

	for range p.lpSingle {
		coeffs = append(coeffs, lpFirstOrder(f5, sampleRate))
	}

	for _, f := range p.hpSingle {
		coeffs = append(coeffs, hpFirstOrder(f, sampleRate))
	}

	return coeffs, normalizationGain(coeffs, sampleRate), nil
}

// New returns a weighting filter for sampleRate with 0 dB at 1 kHz.
//
// Panics if sampleRate <= 0 or t is unknown; use Design to get an error.
func New(t Type, sampleRate float64) *biquad.Chain {
	coeffs, gain, err := Design(t, sampleRate)
	if err != nil {
		panic(err)
	}

	return biquad.NewChain(coeffs, biquad.WithGain(gain))
}

// Apply filters a copy of x through weighting t and returns it.
func Apply(t Type, x []float64, sampleRate float64) ([]float64, error) {
	coeffs, gain, err := Design(t, sampleRate)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	biquad.NewChain(coeffs, biquad.WithGain(gain)).ProcessBlockTo(out, x)

	return out, nil
}

// lpFirstOrder is the bilinear transform of w/(s+w) at f:
//
//	B0 = B1 = K/(1+K), A1 = (K-1)/(K+1), K = tan(pi*f/sr)
func lpFirstOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	d := 1 + k

	return biquad.Coefficients{
		B0: k / d,
		B1: k / d,
		A1: (k - 1) / d,
	}
}

// hpSecondOrder is the bilinear transform of s^2/(s+w)^2 at f.
func hpSecondOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	k2 := k * k
	d := 1 + 2*k + k2

	return biquad.Coefficients{
		B0: 1 / d,
		B1: -2 / d,
		B2: 1 / d,
		A1: 2 * (k2 - 1) / d,
		A2: (1 - 2*k + k2) / d,
	}
}

// hpFirstOrder is the bilinear transform of s/(s+w) at f.
func hpFirstOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	d := 1 + k

	return biquad.Coefficients{
		B0: 1 / d,
		B1: -1 / d,
		A1: (k - 1) / d,
	}
}

func normalizationGain(coeffs []biquad.Coefficients, sr float64) float64 {
	p := 1.0
	for i := range coeffs {
		p *= coeffs[i].MagnitudeSquared(referenceFreq, sr)
	}

	return 1 / math.Sqrt(p)
}
