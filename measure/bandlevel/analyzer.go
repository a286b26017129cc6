package bandlevel

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-acoustics/dsp/filter/bank"
	"github.com/cwbudde/algo-acoustics/dsp/filter/weighting"
	"github.com/cwbudde/algo-acoustics/dsp/octave"
	"github.com/cwbudde/algo-acoustics/measure/level"
)

// BandResult is the level of one band. Status is not StatusOK for a band
// that could not be designed; its Value is then the floor and its energy is
// excluded from every total.
type BandResult struct {
	level.Result
	Status bank.Status
	Err    error
	// Correction is the per-band weighting in dB already included in Value.
	Correction float64
}

// Dropped reports whether the band was left out of the measurement.
func (r BandResult) Dropped() bool { return r.Status != bank.StatusOK }

// Report is the outcome of one Analyze call.
type Report struct {
	SampleRate int
	Weighting  weighting.Type
	Mode       WeightingMode
	Bands      []BandResult // ascending center frequency, dropped bands included
	// BandSum is the energy sum of all measured bands.
	BandSum level.Result
	// Broadband is measured directly on the signal, after the pre-filter
	// weighting when that path is selected.
	Broadband level.Result
	Dropped   int
}

// Band returns the result whose nominal center is nominal.
func (r *Report) Band(nominal float64) (BandResult, bool) {
	for _, b := range r.Bands {
		if b.Band != nil && b.Band.Nominal == nominal {
			return b, true
		}
	}

	return BandResult{}, false
}

// Levels returns the band levels in order.
func (r *Report) Levels() []level.Level {
	out := make([]level.Level, len(r.Bands))
	for i, b := range r.Bands {
		out[i] = b.Value
	}

	return out
}

// Analyzer computes band levels for one Config. It is safe for concurrent
// use; banks are designed once per sample rate.
type Analyzer struct {
	cfg       Config
	levels    level.Config
	weighting weighting.Type
	mode      WeightingMode
	bands     []octave.Band
	cache     *bank.Cache
	logger    *zap.Logger

	mu    sync.Mutex
	banks map[int]*bank.Bank
}

type analyzerConfig struct {
	logger *zap.Logger
	cache  *bank.Cache
}

// Option configures an Analyzer.
type Option func(*analyzerConfig)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *analyzerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCache designs filters through c instead of bank.DefaultCache.
func WithCache(c *bank.Cache) Option {
	return func(ac *analyzerConfig) {
		ac.cache = c
	}
}

// New validates cfg and lays out its band grid.
func New(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ac := analyzerConfig{logger: zap.NewNop(), cache: bank.DefaultCache}
	for _, o := range opts {
		o(&ac)
	}

	bands, err := octave.Grid(cfg.Fraction, cfg.MinFreq, cfg.MaxFreq, cfg.gridOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	wt, _ := weighting.ParseType(cfg.Weighting)

	mode := cfg.WeightingMode
	if mode == "" {
		mode = WeightingPreFilter
	}

	ac.logger.Debug("band grid",
		zap.Int("fraction", cfg.Fraction),
		zap.Int("bands", len(bands)),
		zap.Float64("min_freq", cfg.MinFreq),
		zap.Float64("max_freq", cfg.MaxFreq),
		zap.Stringer("weighting", wt),
		zap.String("weighting_mode", string(mode)),
	)

	return &Analyzer{
		cfg:       cfg,
		levels:    cfg.levelConfig(),
		weighting: wt,
		mode:      mode,
		bands:     bands,
		cache:     ac.cache,
		logger:    ac.logger,
		banks:     make(map[int]*bank.Bank),
	}, nil
}

// Config returns the configuration of a.
func (a *Analyzer) Config() Config { return a.cfg }

// Bands returns the nominal grid, before any Nyquist check.
func (a *Analyzer) Bands() []octave.Band {
	out := make([]octave.Band, len(a.bands))
	copy(out, a.bands)

	return out
}

// Bank returns the filter bank for sampleRate, designing it on first use.
func (a *Analyzer) Bank(sampleRate int) (*bank.Bank, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("bandlevel: invalid sample rate %d", sampleRate)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if b, ok := a.banks[sampleRate]; ok {
		return b, nil
	}

	start := time.Now()
	before := 0

	if a.cache != nil {
		before = a.cache.Len()
	}

	b := bank.New(a.bands, float64(sampleRate),
		bank.WithOrder(a.cfg.Order),
		bank.WithPhase(a.cfg.Phase),
		bank.WithWorkers(a.cfg.Workers),
		bank.WithCache(a.cache),
	)

	fields := []zap.Field{
		zap.Int("sample_rate", sampleRate),
		zap.Int("bands", b.NumBands()),
		zap.Int("order", b.Order()),
		zap.Stringer("phase", b.Phase()),
		zap.Duration("elapsed", time.Since(start)),
	}
	if a.cache != nil {
		fields = append(fields, zap.Int("designed", a.cache.Len()-before))
	}

	a.logger.Debug("filter bank designed", fields...)

	for i, band := range b.Bands() {
		if st := b.Status(i); st != bank.StatusOK {
			a.logger.Warn("band dropped",
				zap.Float64("nominal", band.Nominal),
				zap.Float64("upper", band.Upper),
				zap.Int("sample_rate", sampleRate),
				zap.Stringer("status", st),
			)
		}
	}

	a.banks[sampleRate] = b

	return b, nil
}

// Analyze measures every band of samples over the configured window.
// samples is not modified.
func (a *Analyzer) Analyze(samples []float64, sampleRate int) (*Report, error) {
	signals, x, lo, hi, err := a.split(samples, sampleRate)
	if err != nil {
		return nil, err
	}

	report := &Report{
		SampleRate: sampleRate,
		Weighting:  a.weighting,
		Mode:       a.mode,
		Bands:      make([]BandResult, len(signals)),
	}

	perBand := a.mode == WeightingPerBand && a.weighting != weighting.TypeZ

	var total level.MeanSquare

	for i, sig := range signals {
		band := sig.Band
		r := BandResult{Status: sig.Status, Err: sig.Err}

		if sig.Status != bank.StatusOK {
			r.Result = level.Result{
				Band:      &band,
				Value:     a.levels.Floor,
				Reference: a.levels.Reference,
				Window:    a.cfg.Window,
				Floor:     true,
			}
			report.Bands[i] = r
			report.Dropped++

			continue
		}

		ms := level.MeanSquareOf(sig.Samples[lo:hi])
		if perBand {
			r.Correction = a.weighting.GainDB(band.Center)
			ms *= level.MeanSquare(math.Pow(10, r.Correction/10))
		}

		r.Result = a.levels.NewResult(&band, ms, a.cfg.Window)
		report.Bands[i] = r
		total += ms
	}

	report.BandSum = a.levels.NewResult(nil, total, a.cfg.Window)
	report.Broadband = a.levels.NewResult(nil, level.MeanSquareOf(x[lo:hi]), a.cfg.Window)

	a.logger.Debug("analysis complete",
		zap.Int("samples", len(samples)),
		zap.Int("sample_rate", sampleRate),
		zap.Stringer("window", a.cfg.Window),
		zap.Stringer("band_sum", report.BandSum.Value),
		zap.Stringer("broadband", report.Broadband.Value),
		zap.Int("dropped", report.Dropped),
	)

	return report, nil
}

// Signals returns the band-filtered signals of samples, after the
// pre-filter weighting when that path is selected. Dropped bands have nil
// Samples.
func (a *Analyzer) Signals(samples []float64, sampleRate int) ([]bank.BandSignal, error) {
	signals, _, err := a.filter(samples, sampleRate)

	return signals, err
}

// TimeSeries is the time-weighted level of one band.
type TimeSeries struct {
	Band     octave.Band
	Status   bank.Status
	Interval time.Duration // time between successive Levels
	Levels   []level.Level
}

// TimeWeighted returns the running level of every band with the configured
// time constant and update rate. Dropped bands have no Levels. The window is
// not applied; every series starts at the first sample.
func (a *Analyzer) TimeWeighted(samples []float64, sampleRate int) ([]TimeSeries, error) {
	signals, err := a.Signals(samples, sampleRate)
	if err != nil {
		return nil, err
	}

	var opts []level.TimeWeightingOption
	if a.cfg.UpdateRate > 0 {
		opts = append(opts, level.WithUpdateRate(a.cfg.UpdateRate))
	}

	out := make([]TimeSeries, len(signals))

	for i, sig := range signals {
		tw, err := level.NewTimeWeighting(float64(sampleRate), a.cfg.TimeConstant, opts...)
		if err != nil {
			return nil, fmt.Errorf("bandlevel: time weighting: %w", err)
		}

		ts := TimeSeries{
			Band:     sig.Band,
			Status:   sig.Status,
			Interval: time.Duration(tw.Interval()) * time.Second / time.Duration(sampleRate),
		}

		if sig.Status == bank.StatusOK {
			ms := tw.Process(sig.Samples)
			if a.mode == WeightingPerBand && a.weighting != weighting.TypeZ {
				g := level.MeanSquare(math.Pow(10, a.weighting.GainDB(sig.Band.Center)/10))
				for j := range ms {
					ms[j] *= g
				}
			}

			ts.Levels = a.levels.Levels(ms)
		}

		out[i] = ts
	}

	return out, nil
}

// split filters samples and resolves the window to a sample range. x is
// the broadband signal the bands were split from.
func (a *Analyzer) split(samples []float64, sampleRate int) (signals []bank.BandSignal, x []float64, lo, hi int, err error) {
	if sampleRate <= 0 {
		return nil, nil, 0, 0, fmt.Errorf("bandlevel: invalid sample rate %d", sampleRate)
	}

	lo, hi, err = a.cfg.Window.Bounds(len(samples), float64(sampleRate))
	if err != nil {
		return nil, nil, 0, 0, err
	}

	signals, x, err = a.filter(samples, sampleRate)
	if err != nil {
		return nil, nil, 0, 0, err
	}

	return signals, x, lo, hi, nil
}

func (a *Analyzer) filter(samples []float64, sampleRate int) ([]bank.BandSignal, []float64, error) {
	b, err := a.Bank(sampleRate)
	if err != nil {
		return nil, nil, err
	}

	x, err := a.weighted(samples, sampleRate)
	if err != nil {
		return nil, nil, err
	}

	return b.Process(x), x, nil
}

// weighted returns samples through the pre-filter weighting, or samples
// itself when no pre-filter applies.
func (a *Analyzer) weighted(samples []float64, sampleRate int) ([]float64, error) {
	if a.mode != WeightingPreFilter || a.weighting == weighting.TypeZ {
		return samples, nil
	}

	x, err := weighting.Apply(a.weighting, samples, float64(sampleRate))
	if err != nil {
		return nil, fmt.Errorf("bandlevel: weighting: %w", err)
	}

	return x, nil
}
