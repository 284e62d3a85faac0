package scale

// NeutralColor fills marks that belong to no category, such as a hierarchy
// root.
const NeutralColor = "#ccc"

// Tableau10 returns a fresh copy of the default categorical palette.
func Tableau10() []string {
	return []string{
		"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
		"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
	}
}

// Ordinal maps categories to colors, cycling through the palette when
// there are more categories than colors.
type Ordinal struct {
	domain  []string
	index   map[string]int
	palette []string
	unknown string
}

// NewOrdinal returns a color scale over the unique keys of domain. An empty
// palette falls back to Tableau10.
func NewOrdinal(domain, palette []string) *Ordinal {
	if len(palette) == 0 {
		palette = Tableau10()
	}
	o := &Ordinal{
		domain:  Unique(domain),
		palette: append([]string(nil), palette...),
		unknown: NeutralColor,
	}
	o.index = make(map[string]int, len(o.domain))
	for i, k := range o.domain {
		o.index[k] = i
	}
	return o
}

// WithUnknown returns a copy that maps unknown keys to color.
func (o *Ordinal) WithUnknown(color string) *Ordinal {
	c := *o
	c.unknown = color
	return &c
}

// Map returns the color of key, or the unknown color.
func (o *Ordinal) Map(key string) string {
	i, ok := o.index[key]
	if !ok {
		return o.unknown
	}
	return o.At(i)
}

// At returns the i-th palette color, wrapping in both directions.
func (o *Ordinal) At(i int) string {
	n := len(o.palette)
	return o.palette[((i%n)+n)%n]
}

func (o *Ordinal) Domain() []string  { return append([]string(nil), o.domain...) }
func (o *Ordinal) Palette() []string { return append([]string(nil), o.palette...) }
func (o *Ordinal) Unknown() string   { return o.unknown }
