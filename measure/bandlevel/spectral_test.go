package bandlevel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-acoustics/dsp/spectrum"
	"github.com/cwbudde/algo-acoustics/dsp/window"
	"github.com/cwbudde/algo-acoustics/internal/testutil"
	"github.com/cwbudde/algo-acoustics/measure/level"
)

func TestSpectralLevelsPartitionEnergy(t *testing.T) {
	a := newAnalyzer(t, nil)
	bands := a.Bands()

	x := testutil.BandLimitedNoise(4, bands[8].Lower, bands[24].Upper, sr, 0.1, sr)
	cfg := level.DefaultConfig()

	results, err := SpectralLevels(x, sr, bands, cfg)
	require.NoError(t, err)
	require.Len(t, results, len(bands))

	var ms level.MeanSquare
	for i, r := range results {
		ms += r.MeanSquare

		if i < 8 || i > 24 {
			assert.True(t, r.Floor, "%v", r.Band)
		}
	}

	assert.InDelta(t, float64(level.MeanSquareOf(x)), float64(ms), 1e-9)
}

func TestSpectralLevelsMatchFilterBank(t *testing.T) {
	a := newAnalyzer(t, nil)
	bands := a.Bands()

	// Periodic and flat, so every band sees exactly its share of energy.
	x := testutil.BandLimitedNoise(6, 10, 23000, sr, 0.2, 4*sr)

	spectral, err := SpectralLevels(x, sr, bands, level.DefaultConfig())
	require.NoError(t, err)

	report, err := a.Analyze(x, sr)
	require.NoError(t, err)

	for i, r := range report.Bands {
		if r.Band.Nominal < 100 || r.Band.Nominal > 10000 {
			continue
		}

		testutil.RequireDBNear(t, float64(r.Value), float64(spectral[i].Value), 1, r.Band.String())
	}
}

func TestSpectralLevelsEmpty(t *testing.T) {
	_, err := SpectralLevels(nil, sr, nil, level.DefaultConfig())
	require.ErrorIs(t, err, spectrum.ErrEmptySignal)
}

func TestSpectralLevelsWindowedSine(t *testing.T) {
	a := newAnalyzer(t, func(c *Config) { c.MinFreq, c.MaxFreq = 500, 2000 })
	bands := a.Bands()

	x := testutil.DeterministicSine(1000.5, sr, 1, sr)

	results, err := SpectralLevels(x, sr, bands, level.DefaultConfig(), spectrum.WithWindow(window.TypeHann))
	require.NoError(t, err)

	want := 20 * math.Log10((1/math.Sqrt2)/level.PressureAir)

	for _, r := range results {
		if r.Band.Nominal == 1000 {
			testutil.RequireDBNear(t, float64(r.Value), want, 0.05, "1 kHz")
		} else {
			assert.Less(t, float64(r.Value), want-60, "%v", r.Band)
		}
	}
}
