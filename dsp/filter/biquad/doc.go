// Package biquad provides the second-order-section runtime used by the
// fractional-octave filter bank and the weighting filters.
//
// A [Section] runs one set of [Coefficients] in Direct Form II Transposed.
// Higher-order designs are always realised as a [Chain] of sections, never
// as a single high-order transfer function: narrow bands at low
// center-frequency-to-Nyquist ratios put poles very close to z = 1, where
// expanded polynomial coefficients lose precision and become unstable.
//
// Coefficients are designed elsewhere (dsp/filter/design, dsp/filter/weighting).
// This package only runs them, evaluates their frequency response and checks
// their stability.
package biquad
