// Package spectrum provides FFT-domain helpers: magnitude, power and phase
// extraction, phase unwrapping, and one-sided mean-square spectra that can be
// integrated over fractional-octave bands.
//
// [BandMeanSquare] is the spectral counterpart of filtering a signal through
// an ideal brick-wall band-pass: by Parseval's theorem the band energies of a
// one-sided spectrum add up to the mean square of the signal.
package spectrum
