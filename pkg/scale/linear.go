package scale

// DefaultTickCount is the tick count used when callers pass zero.
const DefaultTickCount = 10

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
	Clamp  bool       `json:"clamp,omitempty"`
}

// NewLinear returns a scale mapping [d0, d1] onto [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Map returns the range value for v. A zero-width domain maps everything to
// the start of the range, so bars built from it have zero length.
func (s Linear) Map(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	span := d1 - d0
	if span == 0 || !finite(span) || !finite(v) {
		return r0
	}
	t := (v - d0) / span
	if s.Clamp {
		t = min(1, max(0, t))
	}
	return r0 + t*(r1-r0)
}

// Invert returns the domain value for a range value.
func (s Linear) Invert(y float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	span := r1 - r0
	if span == 0 || !finite(span) || !finite(y) {
		return d0
	}
	t := (y - r0) / span
	if s.Clamp {
		t = min(1, max(0, t))
	}
	return d0 + t*(d1-d0)
}

// Nice returns a copy with the domain extended to round tick boundaries.
func (s Linear) Nice(count int) Linear {
	if count <= 0 {
		count = DefaultTickCount
	}
	s.Domain[0], s.Domain[1] = niceDomain(s.Domain[0], s.Domain[1], count)
	return s
}

// Ticks returns roughly count tick values inside the domain.
func (s Linear) Ticks(count int) []float64 {
	if count <= 0 {
		count = DefaultTickCount
	}
	return Ticks(s.Domain[0], s.Domain[1], count)
}

// WithRange returns a copy mapping onto [r0, r1].
func (s Linear) WithRange(r0, r1 float64) Linear {
	s.Range = [2]float64{r0, r1}
	return s
}
