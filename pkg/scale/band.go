package scale

import "math"

// Band spreads discrete keys over a continuous span. Each key owns a band
// of width Bandwidth; Map returns the band's start.
type Band struct {
	domain       []string
	index        map[string]int
	r0, r1       float64
	paddingInner float64
	paddingOuter float64
	align        float64
	round        bool

	step      float64
	bandwidth float64
	offsets   []float64
}

// BandOption configures a Band.
type BandOption func(*Band)

// WithPadding sets both inner and outer padding, as fractions of the step.
func WithPadding(p float64) BandOption {
	return func(b *Band) {
		b.paddingInner = min(1, p)
		b.paddingOuter = p
	}
}

func WithPaddingInner(p float64) BandOption { return func(b *Band) { b.paddingInner = min(1, p) } }
func WithPaddingOuter(p float64) BandOption { return func(b *Band) { b.paddingOuter = p } }

// WithAlign positions the outer padding: 0 pushes bands to the start, 1 to
// the end, 0.5 centers them.
func WithAlign(a float64) BandOption { return func(b *Band) { b.align = min(1, max(0, a)) } }

// WithRound snaps the step and band starts to whole units.
func WithRound() BandOption { return func(b *Band) { b.round = true } }

// NewBand returns a band scale over the unique keys of domain, mapped onto
// [r0, r1]. Duplicate keys keep their first position.
func NewBand(domain []string, r0, r1 float64, opts ...BandOption) *Band {
	b := &Band{r0: r0, r1: r1, align: 0.5}
	for _, opt := range opts {
		opt(b)
	}
	b.domain = Unique(domain)
	b.index = make(map[string]int, len(b.domain))
	for i, k := range b.domain {
		b.index[k] = i
	}
	b.rescale()
	return b
}

// NewPoint returns a zero-bandwidth band scale; padding is the outer
// padding in steps.
func NewPoint(domain []string, r0, r1, padding float64) *Band {
	return NewBand(domain, r0, r1, WithPaddingInner(1), WithPaddingOuter(padding))
}

func (b *Band) rescale() {
	n := float64(len(b.domain))
	reverse := b.r1 < b.r0
	start, stop := b.r0, b.r1
	if reverse {
		start, stop = stop, start
	}
	b.step = (stop - start) / math.Max(1, n-b.paddingInner+b.paddingOuter*2)
	if b.round {
		b.step = math.Floor(b.step)
	}
	start += (stop - start - b.step*(n-b.paddingInner)) * b.align
	b.bandwidth = b.step * (1 - b.paddingInner)
	if b.round {
		start = math.Round(start)
		b.bandwidth = math.Round(b.bandwidth)
	}
	b.offsets = make([]float64, len(b.domain))
	for i := range b.offsets {
		b.offsets[i] = start + b.step*float64(i)
	}
	if reverse {
		for i, j := 0, len(b.offsets)-1; i < j; i, j = i+1, j-1 {
			b.offsets[i], b.offsets[j] = b.offsets[j], b.offsets[i]
		}
	}
}

// Map returns the start of key's band.
func (b *Band) Map(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.offsets[i], true
}

// Center returns the middle of key's band.
func (b *Band) Center(key string) (float64, bool) {
	v, ok := b.Map(key)
	return v + b.bandwidth/2, ok
}

func (b *Band) Bandwidth() float64     { return b.bandwidth }
func (b *Band) Step() float64          { return b.step }
func (b *Band) Range() [2]float64      { return [2]float64{b.r0, b.r1} }
func (b *Band) Len() int               { return len(b.domain) }
func (b *Band) Domain() []string       { return append([]string(nil), b.domain...) }
func (b *Band) Contains(k string) bool { _, ok := b.index[k]; return ok }

// Unique returns the distinct values of keys in first-seen order.
func Unique(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
