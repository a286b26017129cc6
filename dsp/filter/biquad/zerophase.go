package biquad

// ProcessZeroPhase filters src forward and then backward through the chain
// and returns the result in a new slice of the same length.
//
// The effective magnitude response is |H(f)|^2 and the phase is zero. To
// reduce start-up transients at both ends the input is extended by an odd
// reflection of 3*(Order()+1) samples (clamped to len(src)-1) before
// filtering; the extension is discarded afterwards. The chain state is reset
// before and after the call.
func (c *Chain) ProcessZeroPhase(src []float64) []float64 {
	n := len(src)
	if n == 0 {
		return nil
	}

	pad := min(3*(c.Order()+1), n-1)

	ext := make([]float64, n+2*pad)
	for i := range pad {
		ext[i] = 2*src[0] - src[pad-i]
		ext[pad+n+i] = 2*src[n-1] - src[n-2-i]
	}

	copy(ext[pad:], src)

	c.Reset()
	c.ProcessBlock(ext)
	reverse(ext)
	c.Reset()
	c.ProcessBlock(ext)
	reverse(ext)
	c.Reset()

	out := make([]float64, n)
	copy(out, ext[pad:pad+n])

	return out
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
