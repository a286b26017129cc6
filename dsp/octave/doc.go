// Package octave generates fractional-octave frequency grids per IEC 61260-1.
//
// A grid is a set of contiguous bands of width 1/b octave. Exact band centers
// are f_ref * G^(n/b) with G = 2 (base-2, default) or G = 10^(3/10) (base-10).
// Band edges sit half a band index away, f_ref * G^((2n±1)/(2b)), and are
// evaluated from the half-index itself so that the upper edge of band n and
// the lower edge of band n+1 are the same float64.
//
// Nominal centers are the labels printed on analyzers: the ISO 266 preferred
// numbers (31.5, 63, 125, ... for octaves) for octave and third-octave grids
// referenced to 1 kHz, and the exact center rounded to three significant
// figures otherwise.
package octave
