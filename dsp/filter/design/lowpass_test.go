package design

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-acoustics/dsp/filter/biquad"
)

const sr = 48000.0

func TestButterworthLPSectionCount(t *testing.T) {
	for order := 1; order <= 8; order++ {
		lp := ButterworthLP(1000, order, sr)

		want := (order + 1) / 2
		if len(lp) != want {
			t.Fatalf("order %d: got %d sections, want %d", order, len(lp), want)
		}

		if order%2 == 1 && (lp[want-1].A2 != 0 || lp[want-1].B2 != 0) {
			t.Fatalf("order %d: last section is not first-order", order)
		}
	}
}

func TestButterworthLPResponse(t *testing.T) {
	for order := 1; order <= 8; order++ {
		lp := biquad.NewChain(ButterworthLP(2000, order, sr))

		if got := lp.MagnitudeDB(2000, sr); math.Abs(got+3.0103) > 0.001 {
			t.Fatalf("order %d at cutoff: %.4f dB", order, got)
		}

		if got := lp.MagnitudeDB(1, sr); math.Abs(got) > 1e-6 {
			t.Fatalf("order %d at DC: %.6f dB", order, got)
		}

		if !lp.Stable() {
			t.Fatalf("order %d: unstable cascade", order)
		}
	}
}

func TestButterworthLPMatchesAnalogMagnitude(t *testing.T) {
	// Pre-warped Butterworth: |H|^2 = 1 / (1 + (tan(pi f/fs)/tan(pi fc/fs))^(2N)).
	const fc = 500.0

	for _, order := range []int{2, 3, 4} {
		lp := biquad.NewChain(ButterworthLP(fc, order, sr))

		for _, f := range []float64{50, 250, 1000, 4000} {
			r := math.Tan(math.Pi*f/sr) / math.Tan(math.Pi*fc/sr)
			want := 1 / (1 + math.Pow(r, 2*float64(order)))

			if got := lp.MagnitudeSquared(f, sr); math.Abs(got-want) > 1e-9 {
				t.Fatalf("order %d at %v Hz: |H|^2 = %v, want %v", order, f, got, want)
			}
		}
	}
}

func TestButterworthLPRolloff(t *testing.T) {
	lp := biquad.NewChain(ButterworthLP(1000, 4, sr))

	// About 24 dB per octave well above the cutoff.
	if d := lp.MagnitudeDB(4000, sr) - lp.MagnitudeDB(8000, sr); d < 22 || d > 30 {
		t.Fatalf("octave slope: got %.2f dB", d)
	}
}

func TestButterworthLPInvalid(t *testing.T) {
	tests := []struct {
		name  string
		freq  float64
		order int
		rate  float64
	}{
		{"order 0", 1000, 0, sr},
		{"zero cutoff", 0, 2, sr},
		{"negative cutoff", -1, 2, sr},
		{"at nyquist", sr / 2, 2, sr},
		{"nan cutoff", math.NaN(), 2, sr},
		{"zero rate", 1000, 2, 0},
	}

	for _, tc := range tests {
		if ButterworthLP(tc.freq, tc.order, tc.rate) != nil {
			t.Errorf("%s: want nil", tc.name)
		}
	}
}
