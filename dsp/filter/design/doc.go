// Package design provides IIR coefficient designers that return cascades of
// second-order sections for dsp/filter/biquad.
//
// The fractional-octave filter bank uses [ButterworthBP] for regular bands and
// [ButterworthLP] for a band that starts at DC. Both place the analog
// Butterworth poles and map them through the bilinear transform.
//
// Designers are pure functions: identical arguments always return
// bit-identical coefficients. Invalid arguments yield nil rather than an
// error; callers that need an error check the result.
package design
