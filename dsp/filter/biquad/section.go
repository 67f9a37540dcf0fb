package biquad

// Coefficients holds a normalized transfer function
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Identity returns the coefficients of a unity passthrough.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// Section is one biquad with its two state registers. The zero value holds
// all-zero coefficients and outputs silence.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a section with cleared state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place. It matches a ProcessSample loop bit for
// bit.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	i := 0
	for ; i+1 < len(buf); i += 2 {
		x := buf[i]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y

		x = buf[i+1]
		y = b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i+1] = y
	}
	if i < len(buf) {
		x := buf[i]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// Reset clears the state registers.
func (s *Section) Reset() {
	s.d0, s.d1 = 0, 0
}

// State returns the two state registers.
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// SetState restores registers returned by State.
func (s *Section) SetState(st [2]float64) {
	s.d0, s.d1 = st[0], st[1]
}
