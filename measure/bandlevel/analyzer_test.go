package bandlevel

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cwbudde/algo-acoustics/dsp/filter/bank"
	"github.com/cwbudde/algo-acoustics/dsp/filter/weighting"
	"github.com/cwbudde/algo-acoustics/internal/testutil"
	"github.com/cwbudde/algo-acoustics/measure/level"
)

const sr = 48000

func newAnalyzer(t *testing.T, mutate func(*Config)) *Analyzer {
	t.Helper()

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	a, err := New(cfg, WithCache(bank.NewCache()))
	require.NoError(t, err)

	return a
}

func TestSineInThirdOctaveBand(t *testing.T) {
	const amp = 1.0

	a := newAnalyzer(t, func(c *Config) {
		c.Window = level.Window{Start: 250 * time.Millisecond}
	})

	x := testutil.DeterministicSine(1000, sr, amp, 2*sr)
	report, err := a.Analyze(x, sr)
	require.NoError(t, err)
	require.Zero(t, report.Dropped)

	want := 20 * math.Log10((amp/math.Sqrt2)/level.PressureAir)

	center, ok := report.Band(1000)
	require.True(t, ok)
	testutil.RequireDBNear(t, float64(center.Value), want, 0.5, "1 kHz band")

	for _, nominal := range []float64{800, 1250} {
		r, ok := report.Band(nominal)
		require.True(t, ok)
		assert.Less(t, float64(r.Value), want-20, "%v Hz band", nominal)
	}

	testutil.RequireDBNear(t, float64(report.Broadband.Value), want, 0.01, "broadband")
	testutil.RequireDBNear(t, float64(report.BandSum.Value), want, 0.5, "band sum")
}

func TestEnergySummationWithBandLimitedNoise(t *testing.T) {
	a := newAnalyzer(t, func(c *Config) {
		c.Window = level.Window{Start: 500 * time.Millisecond}
	})
	bands := a.Bands()

	cases := []struct {
		seed   int64
		lo, hi int // band indices into the grid
	}{
		{1, 10, 10},
		{2, 8, 12},
		{3, 6, 20},
		{4, 15, 26},
	}

	for _, tc := range cases {
		lower, upper := bands[tc.lo].Lower, bands[tc.hi].Upper
		x := testutil.BandLimitedNoise(tc.seed, lower, upper, sr, 0.1, 3*sr)

		report, err := a.Analyze(x, sr)
		require.NoError(t, err)

		testutil.RequireDBNear(t, float64(report.BandSum.Value), float64(report.Broadband.Value), 0.5,
			bands[tc.lo].String()+" to "+bands[tc.hi].String())

		var ms level.MeanSquare
		for _, r := range report.Bands {
			ms += r.MeanSquare
		}

		assert.InDelta(t, float64(report.BandSum.MeanSquare), float64(ms), 1e-12*float64(ms))
	}
}

func TestSingleBandNoiseStaysInBand(t *testing.T) {
	a := newAnalyzer(t, func(c *Config) {
		c.Window = level.Window{Start: 500 * time.Millisecond}
	})

	band := a.Bands()[17] // 1 kHz
	require.InDelta(t, 1000.0, band.Nominal, 0)

	x := testutil.BandLimitedNoise(9, band.Lower, band.Upper, sr, 0.1, 3*sr)
	report, err := a.Analyze(x, sr)
	require.NoError(t, err)

	r, ok := report.Band(1000)
	require.True(t, ok)
	testutil.RequireDBNear(t, float64(r.Value), float64(report.Broadband.Value), 1.5, "in-band share")
}

func TestZeroSignalYieldsFloor(t *testing.T) {
	a := newAnalyzer(t, func(c *Config) { c.FloorDB = -150 })

	report, err := a.Analyze(make([]float64, sr/2), sr)
	require.NoError(t, err)

	for _, r := range report.Bands {
		assert.True(t, r.Floor, "%v", r.Band)
		assert.Equal(t, level.Level(-150), r.Value, "%v", r.Band)
		assert.False(t, math.IsNaN(float64(r.Value)))
	}

	assert.True(t, report.BandSum.Floor)
	assert.True(t, report.Broadband.Floor)
	assert.Equal(t, level.Level(-150), report.Broadband.Value)
}

func TestDroppedBandsAreFlaggedAndExcluded(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	cfg := DefaultConfig()
	a, err := New(cfg, WithLogger(zap.New(core)), WithCache(bank.NewCache()))
	require.NoError(t, err)

	x := testutil.DeterministicNoise(5, 0.5, 44100)
	report, err := a.Analyze(x, 44100)
	require.NoError(t, err)

	require.Equal(t, 1, report.Dropped)

	last := report.Bands[len(report.Bands)-1]
	assert.InDelta(t, 20000.0, last.Band.Nominal, 0)
	assert.True(t, last.Dropped())
	assert.Equal(t, bank.StatusExceedsNyquist, last.Status)
	require.ErrorIs(t, last.Err, bank.ErrBandExceedsNyquist)
	assert.True(t, last.Floor)
	assert.Zero(t, float64(last.MeanSquare))

	var ms level.MeanSquare
	for _, r := range report.Bands[:len(report.Bands)-1] {
		require.False(t, r.Dropped())
		ms += r.MeanSquare
	}

	assert.InDelta(t, float64(ms), float64(report.BandSum.MeanSquare), 1e-12*float64(ms))

	// The bank is designed once per sample rate, so one warning per band.
	_, err = a.Analyze(x, 44100)
	require.NoError(t, err)

	warnings := logs.FilterMessage("band dropped").All()
	require.Len(t, warnings, 1)
	assert.InDelta(t, 20000.0, warnings[0].ContextMap()["nominal"], 0)
}

func TestWorkersMatchSequential(t *testing.T) {
	x := testutil.DeterministicNoise(11, 0.3, sr/2)

	seq, err := newAnalyzer(t, nil).Analyze(x, sr)
	require.NoError(t, err)

	par, err := newAnalyzer(t, func(c *Config) { c.Workers = 4 }).Analyze(x, sr)
	require.NoError(t, err)

	assert.Equal(t, seq.Levels(), par.Levels())
	assert.Equal(t, seq.BandSum, par.BandSum)
}

func TestInvalidInput(t *testing.T) {
	a := newAnalyzer(t, nil)

	_, err := a.Analyze([]float64{1, 2, 3}, 0)
	require.Error(t, err)

	_, err = a.Analyze(nil, sr)
	require.ErrorIs(t, err, level.ErrEmptyWindow)
}

func TestWeightingPathsOnSine(t *testing.T) {
	x := testutil.DeterministicSine(100, sr, 1, 2*sr)
	window := level.Window{Start: 500 * time.Millisecond}

	flat, err := newAnalyzer(t, func(c *Config) { c.Window = window }).Analyze(x, sr)
	require.NoError(t, err)

	for _, mode := range []WeightingMode{WeightingPreFilter, WeightingPerBand} {
		a := newAnalyzer(t, func(c *Config) {
			c.Window = window
			c.Weighting = "A"
			c.WeightingMode = mode
		})

		report, err := a.Analyze(x, sr)
		require.NoError(t, err)

		f, _ := flat.Band(100)
		w, _ := report.Band(100)
		testutil.RequireDBNear(t, float64(w.Value-f.Value), weighting.TypeA.GainDB(100), 0.5, string(mode))
	}
}

func TestWeightingPathsDivergenceIsBounded(t *testing.T) {
	x := testutil.DeterministicNoise(21, 0.5, 4*sr)

	analyze := func(mode WeightingMode) *Report {
		a := newAnalyzer(t, func(c *Config) {
			c.MaxFreq = 10000
			c.Window = level.Window{Start: 500 * time.Millisecond}
			c.Weighting = "A"
			c.WeightingMode = mode
		})

		report, err := a.Analyze(x, sr)
		require.NoError(t, err)

		return report
	}

	pre := analyze(WeightingPreFilter)
	per := analyze(WeightingPerBand)

	require.Len(t, per.Bands, len(pre.Bands))

	maxDiff := 0.0

	for i := range pre.Bands {
		nominal := pre.Bands[i].Band.Nominal
		if nominal < 100 || nominal > 8000 {
			continue
		}

		assert.Zero(t, pre.Bands[i].Correction)
		assert.InDelta(t, weighting.TypeA.GainDB(pre.Bands[i].Band.Center), per.Bands[i].Correction, 1e-12)

		d := math.Abs(float64(pre.Bands[i].Value - per.Bands[i].Value))
		assert.Less(t, d, 2.0, "%v Hz", nominal)

		maxDiff = math.Max(maxDiff, d)
	}

	// Alternative paths, not identical ones.
	assert.Greater(t, maxDiff, 0.0)
	testutil.RequireDBNear(t, float64(per.BandSum.Value), float64(pre.BandSum.Value), 1, "A-weighted total")
}

func TestTimeWeighted(t *testing.T) {
	a := newAnalyzer(t, nil)

	x := testutil.DeterministicSine(1000, sr, 1, 2*sr)
	series, err := a.TimeWeighted(x, sr)
	require.NoError(t, err)
	require.Len(t, series, len(a.Bands()))

	var center TimeSeries

	for _, s := range series {
		if s.Band.Nominal == 1000 {
			center = s
		}
	}

	assert.Equal(t, 100*time.Millisecond, center.Interval)
	require.Len(t, center.Levels, 20)

	want := 20 * math.Log10((1/math.Sqrt2)/level.PressureAir)
	testutil.RequireDBNear(t, float64(center.Levels[len(center.Levels)-1]), want, 0.5, "fast level")
	assert.Less(t, float64(center.Levels[0]), float64(center.Levels[len(center.Levels)-1]))
}

func TestSignals(t *testing.T) {
	a := newAnalyzer(t, func(c *Config) { c.MinFreq, c.MaxFreq = 500, 2000 })

	x := testutil.DeterministicNoise(3, 0.1, 4800)
	orig := append([]float64(nil), x...)

	signals, err := a.Signals(x, sr)
	require.NoError(t, err)
	require.Len(t, signals, 7)
	assert.Equal(t, orig, x)

	for i, s := range signals {
		assert.Len(t, s.Samples, len(x))
		assert.InDelta(t, float64(sr), s.SampleRate, 0)

		if i > 0 {
			assert.Less(t, signals[i-1].Band.Center, s.Band.Center)
		}
	}
}
