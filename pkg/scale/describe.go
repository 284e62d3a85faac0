package scale

// Descriptor is a JSON-friendly snapshot of a Set, used by renderers of
// simple charts that only need positions, ticks, and colors.
type Descriptor struct {
	Category BandDescriptor     `json:"category"`
	Measures []LinearDescriptor `json:"measures"`
	Colors   []ColorEntry       `json:"colors"`
}

type BandDescriptor struct {
	Range     [2]float64 `json:"range"`
	Step      float64    `json:"step"`
	Bandwidth float64    `json:"bandwidth"`
	Positions []Position `json:"positions"`
}

type Position struct {
	Key    string  `json:"key"`
	Offset float64 `json:"offset"`
}

type LinearDescriptor struct {
	Field  string     `json:"field"`
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
	Ticks  []Tick     `json:"ticks"`
}

type Tick struct {
	Value  float64 `json:"value"`
	Offset float64 `json:"offset"`
}

type ColorEntry struct {
	Key   string `json:"key"`
	Color string `json:"color"`
}

// Describe snapshots s with about tickCount ticks per measure.
func (s Set) Describe(tickCount int) Descriptor {
	d := Descriptor{
		Category: BandDescriptor{
			Range:     s.Category.Range(),
			Step:      s.Category.Step(),
			Bandwidth: s.Category.Bandwidth(),
			Positions: make([]Position, 0, len(s.Keys)),
		},
		Measures: make([]LinearDescriptor, 0, len(s.measures)),
		Colors:   make([]ColorEntry, 0, len(s.Keys)),
	}
	for _, k := range s.Keys {
		off, _ := s.Category.Map(k)
		d.Category.Positions = append(d.Category.Positions, Position{Key: k, Offset: off})
		d.Colors = append(d.Colors, ColorEntry{Key: k, Color: s.Color.Map(k)})
	}
	for _, m := range s.measures {
		ld := LinearDescriptor{Field: m.field, Domain: m.scale.Domain, Range: m.scale.Range, Ticks: []Tick{}}
		for _, v := range m.scale.Ticks(tickCount) {
			ld.Ticks = append(ld.Ticks, Tick{Value: v, Offset: m.scale.Map(v)})
		}
		d.Measures = append(d.Measures, ld)
	}
	return d
}
