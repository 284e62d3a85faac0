package scale

import (
	"math"

	"github.com/matzehuels/geomkit/pkg/datum"
	"github.com/matzehuels/geomkit/pkg/geometry"
)

// Roles names the fields that play the category and measure roles.
type Roles struct {
	Category string   `json:"category"`
	Measures []string `json:"measures"`
}

// Builder assembles the standard scale set for a categorical dataset.
type Builder struct {
	Palette   []string
	Padding   float64 // band padding, fraction of step
	Invert    bool    // map measures onto [height, 0] for y-down screens
	TickCount int     // used for nice(); DefaultTickCount when zero
}

// Set is the output of Builder.Build.
type Set struct {
	Keys     []string
	Category *Band
	Color    *Ordinal
	measures []namedLinear
}

type namedLinear struct {
	field string
	scale Linear
}

// Measure returns the scale built for field. Unknown fields get a
// zero-width scale that maps everything to zero.
func (s Set) Measure(field string) Linear {
	for _, m := range s.measures {
		if m.field == field {
			return m.scale
		}
	}
	return Linear{}
}

// MeasureFields lists the measure fields in build order.
func (s Set) MeasureFields() []string {
	out := make([]string, len(s.measures))
	for i, m := range s.measures {
		out[i] = m.field
	}
	return out
}

// Build derives scales from points. Category keys keep first-seen order.
// Measure domains are [0, max] niced; negative and non-finite values do not
// extend them. An empty extent still yields valid, zero-length scales.
func (b Builder) Build(points []datum.Point, roles Roles, extent geometry.Size) Set {
	count := b.TickCount
	if count <= 0 {
		count = DefaultTickCount
	}

	keys := make([]string, 0, len(points))
	for _, p := range points {
		keys = append(keys, p.Text(roles.Category))
	}
	keys = Unique(keys)

	w := math.Max(0, extent.Width)
	h := math.Max(0, extent.Height)

	set := Set{
		Keys:     keys,
		Category: NewBand(keys, 0, w, WithPadding(b.Padding)),
		Color:    NewOrdinal(keys, b.Palette),
	}

	for _, field := range roles.Measures {
		hi := 0.0
		for _, p := range points {
			if v := p.Number(field); v > hi {
				hi = v
			}
		}
		s := NewLinear(0, hi, 0, h)
		if b.Invert {
			s = NewLinear(0, hi, h, 0)
		}
		set.measures = append(set.measures, namedLinear{field: field, scale: s.Nice(count)})
	}
	return set
}
