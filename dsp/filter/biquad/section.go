package biquad

// Coefficients of one second-order section,
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2).
//
// A first-order section sets B2 and A2 to zero.
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Section runs one set of Coefficients in transposed direct form II. The
// band filters keep poles very close to z = 1 at low frequencies, where this
// form holds up better than direct form I.
type Section struct {
	Coefficients

	s1, s2 float64
}

// NewSection returns a section at rest.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample returns the next output for input x.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.s1
	s.s1 = s.B1*x - s.A1*y + s.s2
	s.s2 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place. It produces exactly the samples
// ProcessSample would.
func (s *Section) ProcessBlock(buf []float64) {
	c := s.Coefficients
	s1, s2 := s.s1, s.s2

	for i, x := range buf {
		y := c.B0*x + s1
		s1 = c.B1*x - c.A1*y + s2
		s2 = c.B2*x - c.A2*y
		buf[i] = y
	}

	s.s1, s.s2 = s1, s2
}

// Reset returns the section to rest.
func (s *Section) Reset() { s.s1, s.s2 = 0, 0 }

// State returns the two state variables.
func (s *Section) State() [2]float64 { return [2]float64{s.s1, s.s2} }

// SetState overwrites the state variables, e.g. with a value saved by State.
func (s *Section) SetState(state [2]float64) { s.s1, s.s2 = state[0], state[1] }
