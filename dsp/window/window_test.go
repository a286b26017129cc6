package window

import (
	"math"
	"testing"
)

func TestGenerate(t *testing.T) {
	for typ := range terms {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}

				if d := math.Abs(v - w[len(w)-1-i]); d > 1e-12 {
					t.Fatalf("not symmetric at %d: %v", i, d)
				}
			}
		})
	}

	if Generate(TypeHann, 0) != nil {
		t.Fatal("zero length should return nil")
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)
	b := Generate(TypeHann, 16, WithPeriodic())

	if math.Abs(a[15]) > 1e-15 {
		t.Fatalf("symmetric Hann must end at 0, got %v", a[15])
	}

	if b[15] < 0.03 {
		t.Fatalf("periodic Hann must not end at 0, got %v", b[15])
	}

	if math.Abs(b[8]-1) > 1e-12 {
		t.Fatalf("periodic Hann peak at n/2 = %v", b[8])
	}
}

func TestGains(t *testing.T) {
	tests := []struct {
		typ        Type
		coherent   float64
		enbw       float64
		tolEnbw    float64
		periodicPG float64
	}{
		{TypeRectangular, 1, 1, 1e-12, 1},
		{TypeHann, 0.5, 1.5, 1e-9, 0.375},
		{TypeHamming, 0.54, 1.3628, 1e-4, 0.54*0.54 + 0.46*0.46/2},
		{TypeBlackman, 0.42, 1.7268, 1e-4, 0.42*0.42 + (0.5*0.5+0.08*0.08)/2},
	}

	for _, tc := range tests {
		w := Generate(tc.typ, 1024, WithPeriodic())

		if got := CoherentGain(w); math.Abs(got-tc.coherent) > 1e-9 {
			t.Errorf("%v coherent gain %v, want %v", tc.typ, got, tc.coherent)
		}

		if got := ENBW(w); math.Abs(got-tc.enbw) > tc.tolEnbw {
			t.Errorf("%v ENBW %v, want %v", tc.typ, got, tc.enbw)
		}

		if got := PowerGain(w); math.Abs(got-tc.periodicPG) > 1e-9 {
			t.Errorf("%v power gain %v, want %v", tc.typ, got, tc.periodicPG)
		}
	}

	if PowerGain(nil) != 0 || CoherentGain(nil) != 0 {
		t.Fatal("empty window gains must be 0")
	}
}

func TestParseType(t *testing.T) {
	for typ := range terms {
		got, err := ParseType(" " + typ.String())
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %v, %v", typ.String(), got, err)
		}
	}

	if _, err := ParseType("kaiser"); err == nil {
		t.Fatal("expected error for unknown window")
	}
}
