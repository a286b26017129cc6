package bandlevel

import (
	"github.com/cwbudde/algo-acoustics/dsp/octave"
	"github.com/cwbudde/algo-acoustics/dsp/spectrum"
	"github.com/cwbudde/algo-acoustics/measure/level"
)

// SpectralLevels computes band levels by integrating the FFT mean-square
// spectrum of samples over each band, an ideal brick-wall filter bank. It is
// a cross-check for the filter bank rather than a standards-compliant
// measurement. Bands above Nyquist integrate to zero and report the floor.
// Pass spectrum.WithWindow for signals that are not periodic in their
// length.
func SpectralLevels(samples []float64, sampleRate int, bands []octave.Band, cfg level.Config, opts ...spectrum.Option) ([]level.Result, error) {
	spec, err := spectrum.MeanSquare(samples, float64(sampleRate), opts...)
	if err != nil {
		return nil, err
	}

	out := make([]level.Result, len(bands))
	for i, ms := range spec.Bands(bands) {
		band := bands[i]
		out[i] = cfg.NewResult(&band, level.MeanSquare(ms), level.Window{})
	}

	return out, nil
}
