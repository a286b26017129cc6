package biquad

import (
	"math"
	"testing"
)

func TestStable(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
		want bool
	}{
		{"passthrough", Coefficients{B0: 1}, true},
		{"complex poles inside", Coefficients{B0: 1, A1: -1.4, A2: 0.53}, true},
		{"pole on unit circle", Coefficients{B0: 1, A1: -2, A2: 1}, false},
		{"real pole outside", Coefficients{B0: 1, A1: -1.1}, false},
		{"nan coefficient", Coefficients{B0: math.NaN()}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Stable(); got != tc.want {
				t.Fatalf("Stable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMaxPoleRadius(t *testing.T) {
	c := Coefficients{B0: 1, A1: -1.4, A2: 0.53}
	// Poles 0.7 +/- 0.2i.
	want := math.Hypot(0.7, 0.2)
	if got := c.MaxPoleRadius(); math.Abs(got-want) > 1e-12 {
		t.Fatalf("MaxPoleRadius = %v, want %v", got, want)
	}

	chain := NewChain([]Coefficients{c, {B0: 1, A1: -0.9}})
	if got := chain.MaxPoleRadius(); math.Abs(got-0.9) > 1e-12 {
		t.Fatalf("chain MaxPoleRadius = %v, want 0.9", got)
	}

	if !chain.Stable() {
		t.Fatal("chain should be stable")
	}
}
