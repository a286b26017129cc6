// Package bank designs and runs fractional-octave band-pass filter banks.
//
// Each band of an [octave.Grid] is turned into a [FilterSpec]: a Butterworth
// band-pass cascade of second-order sections, or a Butterworth lowpass when
// the band starts at DC. Bands whose upper edge reaches 98% of Nyquist cannot
// be represented faithfully and are kept in the bank as dropped entries
// flagged with [StatusExceedsNyquist], so callers can report them instead of
// silently losing energy.
//
// Designs are pure functions of (band edges, sample rate, order) and are
// memoised in a [Cache]. [DefaultCache] is shared by every bank that does not
// set its own with [WithCache].
//
// [Bank.Process] is read-only on its input and stateless: every call builds
// fresh filter state per band, so bands can run on a worker pool
// ([WithWorkers]) and the result order always follows ascending band center.
// The phase convention is fixed per bank:
//
//   - [PhaseCausal] (default) runs each cascade forward once. Levels are
//     exact in steady state; outputs carry the filter's group delay.
//   - [PhaseZero] runs forward and backward. There is no phase shift, but the
//     magnitude response is squared, so band edges sit at -6 dB.
//
// Basic usage:
//
//	b, err := bank.Octave(3, 48000)
//	if err != nil {
//	    return err
//	}
//	for _, bs := range b.Process(samples) {
//	    if bs.Status != bank.StatusOK {
//	        continue
//	    }
//	    fmt.Println(bs.Band.Nominal, len(bs.Samples))
//	}
package bank
