package bank

import (
	"math"
	"sort"
	"sync"

	"github.com/cwbudde/algo-acoustics/dsp/filter/biquad"
	"github.com/cwbudde/algo-acoustics/dsp/octave"
)

const (
	defaultLowerFreq = 20.0
	defaultUpperFreq = 20000.0
)

// Phase selects the filtering convention of a Bank.
type Phase int

const (
	// PhaseCausal filters forward only.
	PhaseCausal Phase = iota
	// PhaseZero filters forward and backward (squared magnitude, no phase).
	PhaseZero
)

func (p Phase) String() string {
	if p == PhaseZero {
		return "zero"
	}

	return "causal"
}

// BandSignal is the output of one band. Samples is nil when Status is not
// StatusOK; Err then carries the design error.
type BandSignal struct {
	Band       octave.Band
	Samples    []float64
	SampleRate float64
	Status     Status
	Err        error
}

type entry struct {
	band   octave.Band
	spec   *FilterSpec
	status Status
	err    error
	chain  *biquad.Chain // streaming state for ProcessSample/ProcessBlock
}

// Bank is an ordered set of band filters designed for one sample rate.
type Bank struct {
	entries    []entry
	sampleRate float64
	order      int
	phase      Phase
	workers    int
}

type bankConfig struct {
	order    int
	lowerHz  float64
	upperHz  float64
	phase    Phase
	workers  int
	cache    *Cache
	gridOpts []octave.Option
}

func defaultBankConfig() bankConfig {
	return bankConfig{
		order:   DefaultOrder,
		lowerHz: defaultLowerFreq,
		upperHz: defaultUpperFreq,
		phase:   PhaseCausal,
		workers: 1,
		cache:   DefaultCache,
	}
}

// Option configures a Bank.
type Option func(*bankConfig)

// WithOrder sets the Butterworth prototype order; defaults to 4.
// Non-positive values are ignored.
func WithOrder(n int) Option {
	return func(cfg *bankConfig) {
		if n > 0 {
			cfg.order = n
		}
	}
}

// WithFrequencyRange sets the nominal frequency range used by Octave.
func WithFrequencyRange(lower, upper float64) Option {
	return func(cfg *bankConfig) {
		cfg.lowerHz = lower
		cfg.upperHz = upper
	}
}

// WithGrid passes options through to octave.Grid (reference, base).
func WithGrid(opts ...octave.Option) Option {
	return func(cfg *bankConfig) {
		cfg.gridOpts = append(cfg.gridOpts, opts...)
	}
}

// WithPhase selects the phase convention; defaults to PhaseCausal.
func WithPhase(p Phase) Option {
	return func(cfg *bankConfig) {
		cfg.phase = p
	}
}

// WithWorkers processes bands on up to n goroutines. n <= 1 keeps
// processing on the calling goroutine.
func WithWorkers(n int) Option {
	return func(cfg *bankConfig) {
		if n < 1 {
			n = 1
		}

		cfg.workers = n
	}
}

// WithCache uses c instead of DefaultCache. A nil cache disables caching.
func WithCache(c *Cache) Option {
	return func(cfg *bankConfig) {
		cfg.cache = c
	}
}

// New designs one filter per band. Bands that cannot be designed stay in the
// bank, flagged, so Process reports them in place.
func New(bands []octave.Band, sampleRate float64, opts ...Option) *Bank {
	cfg := defaultBankConfig()
	for _, o := range opts {
		o(&cfg)
	}

	sorted := make([]octave.Band, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Center < sorted[j].Center
	})

	b := &Bank{
		entries:    make([]entry, len(sorted)),
		sampleRate: sampleRate,
		order:      cfg.order,
		phase:      cfg.phase,
		workers:    cfg.workers,
	}

	for i, band := range sorted {
		var (
			spec *FilterSpec
			err  error
		)

		if cfg.cache != nil {
			spec, err = cfg.cache.Design(band, sampleRate, cfg.order)
		} else {
			spec, err = Design(band, sampleRate, cfg.order)
		}

		e := entry{band: band, spec: spec, status: StatusOf(err), err: err}
		if spec != nil {
			e.chain = spec.NewChain()
		}

		b.entries[i] = e
	}

	return b
}

// Octave builds a 1/fraction-octave bank over the configured nominal range
// (20 Hz to 20 kHz by default).
func Octave(fraction int, sampleRate float64, opts ...Option) (*Bank, error) {
	cfg := defaultBankConfig()
	for _, o := range opts {
		o(&cfg)
	}

	bands, err := octave.Grid(fraction, cfg.lowerHz, cfg.upperHz, cfg.gridOpts...)
	if err != nil {
		return nil, err
	}

	return New(bands, sampleRate, opts...), nil
}

// Custom builds a bank from arbitrary center frequencies and a bandwidth in
// octaves. Non-positive centers are skipped.
func Custom(centers []float64, bandwidth float64, sampleRate float64, opts ...Option) *Bank {
	if bandwidth <= 0 {
		bandwidth = 1
	}

	halfBW := math.Pow(2, bandwidth/2)

	bands := make([]octave.Band, 0, len(centers))

	for i, fc := range centers {
		if fc <= 0 || math.IsNaN(fc) || math.IsInf(fc, 0) {
			continue
		}

		bands = append(bands, octave.Band{
			Index:   i,
			Nominal: fc,
			Center:  fc,
			Lower:   fc / halfBW,
			Upper:   fc * halfBW,
		})
	}

	return New(bands, sampleRate, opts...)
}

// Bands returns all bands, including dropped ones, low to high.
func (b *Bank) Bands() []octave.Band {
	out := make([]octave.Band, len(b.entries))
	for i := range b.entries {
		out[i] = b.entries[i].band
	}

	return out
}

// Specs returns the design of every band; dropped bands have a nil spec.
func (b *Bank) Specs() []*FilterSpec {
	out := make([]*FilterSpec, len(b.entries))
	for i := range b.entries {
		out[i] = b.entries[i].spec
	}

	return out
}

// Status returns the status of band i.
func (b *Bank) Status(i int) Status { return b.entries[i].status }

// Dropped returns the bands that could not be designed.
func (b *Bank) Dropped() []octave.Band {
	var out []octave.Band

	for i := range b.entries {
		if b.entries[i].status != StatusOK {
			out = append(out, b.entries[i].band)
		}
	}

	return out
}

// NumBands returns the number of bands, including dropped ones.
func (b *Bank) NumBands() int { return len(b.entries) }

// SampleRate returns the sample rate the bank was built for.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// Order returns the Butterworth prototype order.
func (b *Bank) Order() int { return b.order }

// Phase returns the phase convention.
func (b *Bank) Phase() Phase { return b.phase }

// MagnitudeDB returns the effective magnitude response of band i in dB,
// including the second pass of PhaseZero. Dropped bands return -Inf.
func (b *Bank) MagnitudeDB(i int, freqHz float64) float64 {
	spec := b.entries[i].spec
	if spec == nil {
		return math.Inf(-1)
	}

	db := spec.MagnitudeDB(freqHz)
	if b.phase == PhaseZero {
		db *= 2
	}

	return db
}

// Process filters signal through every band. signal is not modified and
// every call starts from zero filter state. The result has one entry per
// band in ascending order.
func (b *Bank) Process(signal []float64) []BandSignal {
	out := make([]BandSignal, len(b.entries))

	if b.workers <= 1 || len(b.entries) <= 1 {
		for i := range b.entries {
			out[i] = b.processBand(i, signal)
		}

		return out
	}

	jobs := make(chan int)

	var wg sync.WaitGroup

	for range min(b.workers, len(b.entries)) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				out[i] = b.processBand(i, signal)
			}
		}()
	}

	for i := range b.entries {
		jobs <- i
	}

	close(jobs)
	wg.Wait()

	return out
}

func (b *Bank) processBand(i int, signal []float64) BandSignal {
	e := &b.entries[i]
	bs := BandSignal{
		Band:       e.band,
		SampleRate: b.sampleRate,
		Status:     e.status,
		Err:        e.err,
	}

	if e.spec == nil {
		return bs
	}

	chain := e.spec.NewChain()

	if b.phase == PhaseZero {
		bs.Samples = chain.ProcessZeroPhase(signal)
		if bs.Samples == nil {
			bs.Samples = []float64{}
		}

		return bs
	}

	bs.Samples = make([]float64, len(signal))
	chain.ProcessBlockTo(bs.Samples, signal)

	return bs
}

// ProcessSample feeds one sample through the streaming state of every band
// and returns per-band outputs; dropped bands output 0. Streaming is always
// causal and is not safe for concurrent use.
func (b *Bank) ProcessSample(x float64) []float64 {
	out := make([]float64, len(b.entries))
	for i := range b.entries {
		if c := b.entries[i].chain; c != nil {
			out[i] = c.ProcessSample(x)
		}
	}

	return out
}

// ProcessBlock is the block form of ProcessSample: result[band][sample].
func (b *Bank) ProcessBlock(input []float64) [][]float64 {
	result := make([][]float64, len(b.entries))
	for i := range b.entries {
		buf := make([]float64, len(input))
		if c := b.entries[i].chain; c != nil {
			c.ProcessBlockTo(buf, input)
		}

		result[i] = buf
	}

	return result
}

// Reset clears the streaming state of every band.
func (b *Bank) Reset() {
	for i := range b.entries {
		if c := b.entries[i].chain; c != nil {
			c.Reset()
		}
	}
}
