package level

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Max returns the largest level, NaN for no levels.
func Max(levels []Level) Level {
	if len(levels) == 0 {
		return Level(math.NaN())
	}

	return slices.Max(levels)
}

// Min returns the smallest level, NaN for no levels.
func Min(levels []Level) Level {
	if len(levels) == 0 {
		return Level(math.NaN())
	}

	return slices.Min(levels)
}

// Percentile returns L_N, the level exceeded during n percent of the
// observations (L10 is a peak-ish level, L90 the background). n must be in
// [0, 100]; NaN is returned otherwise or for no levels.
func Percentile(levels []Level, n float64) Level {
	if len(levels) == 0 || n < 0 || n > 100 || math.IsNaN(n) {
		return Level(math.NaN())
	}

	sorted := make([]float64, len(levels))
	for i, l := range levels {
		sorted[i] = float64(l)
	}

	slices.Sort(sorted)

	return Level(stat.Quantile(1-n/100, stat.Empirical, sorted, nil))
}

// Leq returns the energy-average level of equally long observations.
func Leq(levels []Level, ref float64, floor Level) (Level, bool) {
	if len(levels) == 0 {
		return floor, true
	}

	var total MeanSquare
	for _, l := range levels {
		total += l.MeanSquare(ref)
	}

	return ToLevel(total/MeanSquare(len(levels)), ref, floor)
}
