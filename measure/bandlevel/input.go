package bandlevel

import (
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

// defaultBitDepth is assumed for integer buffers that do not record one.
const defaultBitDepth = 16

// Channel extracts one channel of a decoded buffer in the units of
// fullScale: a digital full-scale sample maps to fullScale. Integer buffers
// are normalised by their source bit depth, float buffers are taken as
// already full-scale normalised.
func Channel(buf audio.Buffer, channel int, fullScale float64) ([]float64, int, error) {
	if isNil(buf) || buf.PCMFormat() == nil {
		return nil, 0, fmt.Errorf("bandlevel: %w: missing format", audio.ErrInvalidBuffer)
	}

	format := buf.PCMFormat()

	channels := format.NumChannels
	if channels == 0 {
		channels = 1
	}

	if channel < 0 || channel >= channels {
		return nil, 0, fmt.Errorf("bandlevel: channel %d of %d", channel, channels)
	}

	if format.SampleRate <= 0 {
		return nil, 0, fmt.Errorf("bandlevel: %w: sample rate %d", audio.ErrInvalidBuffer, format.SampleRate)
	}

	if !(fullScale > 0) || math.IsInf(fullScale, 0) {
		return nil, 0, fmt.Errorf("%w: full scale %g", ErrInvalidConfig, fullScale)
	}

	scale := fullScale

	var data []float64

	if ib, ok := buf.(*audio.IntBuffer); ok {
		depth := ib.SourceBitDepth
		if depth <= 0 {
			depth = defaultBitDepth
		}

		scale /= math.Pow(2, float64(depth-1))
		data = make([]float64, len(ib.Data))

		for i, v := range ib.Data {
			data[i] = float64(v)
		}
	} else {
		data = buf.AsFloatBuffer().Data
	}

	frames := len(data) / channels
	out := make([]float64, frames)

	for i := range out {
		out[i] = data[i*channels+channel] * scale
	}

	return out, format.SampleRate, nil
}

// AnalyzeBuffer analyzes one channel of a decoded buffer, scaled by the
// configured FullScale.
func (a *Analyzer) AnalyzeBuffer(buf audio.Buffer, channel int) (*Report, error) {
	samples, sampleRate, err := Channel(buf, channel, a.cfg.FullScale)
	if err != nil {
		return nil, err
	}

	return a.Analyze(samples, sampleRate)
}

// isNil reports a nil interface or a nil pointer to one of the go-audio
// buffer types.
func isNil(buf audio.Buffer) bool {
	switch b := buf.(type) {
	case nil:
		return true
	case *audio.IntBuffer:
		return b == nil
	case *audio.FloatBuffer:
		return b == nil
	case *audio.Float32Buffer:
		return b == nil
	}

	return false
}
