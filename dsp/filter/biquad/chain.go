package biquad

// Chain is a cascade of sections with an optional input gain. Each band of
// a filter bank owns one Chain, so a Chain carries its own state and is not
// safe for concurrent use.
type Chain struct {
	sections []Section
	gain     float64
}

// ChainOption configures NewChain.
type ChainOption func(*Chain)

// WithGain scales the input before the first section (default 1). The
// weighting filters use it for their 1 kHz normalisation.
func WithGain(g float64) ChainOption {
	return func(c *Chain) { c.gain = g }
}

// NewChain builds a cascade at rest from coeffs, which are copied.
func NewChain(coeffs []Coefficients, opts ...ChainOption) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs)), gain: 1}
	for i, k := range coeffs {
		c.sections[i].Coefficients = k
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ProcessSample pushes one sample through the cascade.
func (c *Chain) ProcessSample(x float64) float64 {
	y := c.gain * x
	for i := range c.sections {
		y = c.sections[i].ProcessSample(y)
	}

	return y
}

// ProcessBlock filters buf in place, one section at a time.
func (c *Chain) ProcessBlock(buf []float64) {
	if c.gain != 1 {
		for i := range buf {
			buf[i] *= c.gain
		}
	}

	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// ProcessBlockTo writes the filtered src to dst, which must be at least
// len(src) long. src is left untouched.
func (c *Chain) ProcessBlockTo(dst, src []float64) {
	out := dst[:len(src)]
	copy(out, src)
	c.ProcessBlock(out)
}

// Reset returns every section to rest.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Order is twice the number of sections, counting a first-order section as
// two.
func (c *Chain) Order() int { return 2 * len(c.sections) }

func (c *Chain) NumSections() int { return len(c.sections) }

func (c *Chain) Gain() float64 { return c.gain }

// Coefficients returns a copy of the cascade, first section first.
func (c *Chain) Coefficients() []Coefficients {
	out := make([]Coefficients, 0, len(c.sections))
	for _, s := range c.sections {
		out = append(out, s.Coefficients)
	}

	return out
}

// State snapshots the cascade so that a response can be probed without
// disturbing a running filter.
func (c *Chain) State() [][2]float64 {
	out := make([][2]float64, len(c.sections))
	for i := range c.sections {
		out[i] = c.sections[i].State()
	}

	return out
}

// SetState restores a snapshot taken by State on the same chain.
func (c *Chain) SetState(states [][2]float64) {
	for i := range c.sections {
		c.sections[i].SetState(states[i])
	}
}
