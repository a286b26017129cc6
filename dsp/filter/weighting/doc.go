// Package weighting provides the A, B, C and Z frequency weightings of
// IEC 61672-1, both as digital pre-filters and as analytic gain curves.
//
// The two forms serve the two ways a weighted band level can be obtained:
//
//   - Pre-filtering: [New] or [Design] return a bilinear-transformed cascade
//     that is applied to the whole signal before it is split into bands.
//   - Per-band correction: [Type.GainDB] (or any [Curve]) is evaluated at each
//     band's exact center and added to the band level before the bands are
//     summed in the energy domain.
//
// The results of the two paths are close but not identical. A band level
// corrected at its center ignores the slope of the curve across the band, and
// the digital filter deviates from the analog curve near Nyquist.
//
// All weightings are normalized to 0 dB at 1 kHz. Z-weighting is flat.
package weighting
