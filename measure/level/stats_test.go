package level

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	levels := make([]Level, 100)
	for i := range levels {
		// Reverse order: Percentile must not depend on input order.
		levels[i] = Level(100 - i)
	}

	assert.InDelta(t, 90, float64(Percentile(levels, 10)), 1)
	assert.InDelta(t, 50, float64(Percentile(levels, 50)), 1)
	assert.InDelta(t, 10, float64(Percentile(levels, 90)), 1)
	assert.Equal(t, Level(100), Percentile(levels, 0))
	assert.Equal(t, Level(1), Percentile(levels, 100))
	assert.Equal(t, Level(100), levels[0], "input must stay unsorted")

	assert.True(t, math.IsNaN(float64(Percentile(nil, 10))))
	assert.True(t, math.IsNaN(float64(Percentile(levels, 120))))
}

func TestMaxMin(t *testing.T) {
	levels := []Level{62, 71.5, 58, 66}

	assert.Equal(t, Level(71.5), Max(levels))
	assert.Equal(t, Level(58), Min(levels))
	assert.True(t, math.IsNaN(float64(Max(nil))))
}

func TestLeqOfLevels(t *testing.T) {
	l, floor := Leq([]Level{60, 60, 60, 60}, PressureAir, DefaultFloor)
	assert.False(t, floor)
	assert.InDelta(t, 60, float64(l), 1e-9)

	// One loud slice dominates the energy average.
	l, _ = Leq([]Level{90, 60, 60, 60}, PressureAir, DefaultFloor)
	assert.InDelta(t, 84.0, float64(l), 0.05)

	_, floor = Leq(nil, PressureAir, DefaultFloor)
	assert.True(t, floor)
}
