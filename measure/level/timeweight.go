package level

import (
	"fmt"
	"math"
	"time"
)

// TimeConstant is an exponential averaging time constant. Rise applies
// while the squared input is above the running average, Decay otherwise.
type TimeConstant struct {
	Rise  time.Duration `json:"rise"`
	Decay time.Duration `json:"decay"`
}

// IEC 61672-1 time weightings.
var (
	Fast    = TimeConstant{Rise: 125 * time.Millisecond, Decay: 125 * time.Millisecond}
	Slow    = TimeConstant{Rise: time.Second, Decay: time.Second}
	Impulse = TimeConstant{Rise: 35 * time.Millisecond, Decay: 1500 * time.Millisecond}
)

// Symmetric returns a time constant with equal rise and decay.
func Symmetric(tau time.Duration) TimeConstant {
	return TimeConstant{Rise: tau, Decay: tau}
}

func (tc TimeConstant) String() string {
	switch tc {
	case Fast:
		return "fast"
	case Slow:
		return "slow"
	case Impulse:
		return "impulse"
	}

	if tc.Rise == tc.Decay {
		return tc.Rise.String()
	}

	return fmt.Sprintf("%v/%v", tc.Rise, tc.Decay)
}

// TimeWeighting is a running exponential average of the squared signal.
// It is stateful and must see samples in time order.
type TimeWeighting struct {
	rise, decay float64
	interval    int
	ms          float64
	count       int
}

type twConfig struct {
	updateRate float64
}

// TimeWeightingOption configures a TimeWeighting.
type TimeWeightingOption func(*twConfig)

// WithUpdateRate sets how many outputs per second Process emits. The
// default of 0 emits one output per input sample.
func WithUpdateRate(hz float64) TimeWeightingOption {
	return func(c *twConfig) {
		c.updateRate = hz
	}
}

// NewTimeWeighting returns a time weighting for sampleRate.
func NewTimeWeighting(sampleRate float64, tc TimeConstant, opts ...TimeWeightingOption) (*TimeWeighting, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("level: invalid sample rate %g", sampleRate)
	}

	if tc.Rise <= 0 || tc.Decay <= 0 {
		return nil, fmt.Errorf("level: invalid time constant %v", tc)
	}

	var cfg twConfig
	for _, o := range opts {
		o(&cfg)
	}

	interval := 1

	if cfg.updateRate > 0 {
		if cfg.updateRate > sampleRate {
			return nil, fmt.Errorf("level: update rate %g Hz above sample rate %g Hz", cfg.updateRate, sampleRate)
		}

		interval = int(math.Round(sampleRate / cfg.updateRate))
	}

	return &TimeWeighting{
		rise:     coefficient(tc.Rise, sampleRate),
		decay:    coefficient(tc.Decay, sampleRate),
		interval: interval,
	}, nil
}

// coefficient is the one-pole smoothing factor 1 - exp(-1/(tau*fs)).
func coefficient(tau time.Duration, sampleRate float64) float64 {
	return -math.Expm1(-1 / (tau.Seconds() * sampleRate))
}

// Interval returns the number of input samples per output.
func (tw *TimeWeighting) Interval() int { return tw.interval }

// ProcessSample updates the average with one sample and returns it.
func (tw *TimeWeighting) ProcessSample(x float64) MeanSquare {
	sq := x * x

	a := tw.decay
	if sq > tw.ms {
		a = tw.rise
	}

	tw.ms += a * (sq - tw.ms)

	return MeanSquare(tw.ms)
}

// Process feeds samples in order and returns the running mean square at
// every update interval. Interval phase carries over between calls.
func (tw *TimeWeighting) Process(samples []float64) []MeanSquare {
	out := make([]MeanSquare, 0, (len(samples)+tw.count)/tw.interval)

	for _, x := range samples {
		ms := tw.ProcessSample(x)

		tw.count++
		if tw.count == tw.interval {
			tw.count = 0

			out = append(out, ms)
		}
	}

	return out
}

// Value returns the current mean square.
func (tw *TimeWeighting) Value() MeanSquare { return MeanSquare(tw.ms) }

// Reset clears the average and the interval phase.
func (tw *TimeWeighting) Reset() {
	tw.ms = 0
	tw.count = 0
}

// Levels converts mean-square values with c.
func (c Config) Levels(ms []MeanSquare) []Level {
	out := make([]Level, len(ms))
	for i, m := range ms {
		out[i], _ = c.Level(m)
	}

	return out
}
