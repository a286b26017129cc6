// Package level converts filtered signals into calibrated sound levels.
//
// Two types keep the energy and decibel domains apart:
//
//   - [MeanSquare] is linear signal energy (Pa² for a pressure signal).
//     Mean-square values add: [Sum].
//   - [Level] is 10*log10(ms/ref²) in dB. Levels never add directly;
//     [SumLevels] converts to energy, sums and converts back.
//
// Zero energy has no finite level. Conversions substitute the configured
// floor (-200 dB by default) and report that they did so, instead of
// returning -Inf or NaN; [ToLevelStrict] returns [ErrNumericFloor] for callers
// that want the condition as an error. Infinite energy is the opposite case:
// it converts to +Inf, is never reported as the floor, and ToLevelStrict
// returns [ErrOverflow].
//
// The package also provides exponential time weighting (Fast, Slow, Impulse)
// per IEC 61672-1, equivalent continuous levels over fixed slices and
// exceedance statistics (L10, L90, ...).
package level
