// Package legend draws a horizontal row of color swatches and names.
package legend

import (
	"fmt"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/scale"
)

// Options controls spacing and text placement.
type Options struct {
	Spacing    float64 // distance between entries
	Swatch     float64 // swatch side length
	TextOffset float64 // distance from swatch start to text start
	TextColor  string
	FontSize   float64
}

// Defaults used by the partition charts.
func DefaultOptions() Options {
	return Options{Spacing: 120, Swatch: 12, TextOffset: 20, TextColor: "#666", FontSize: 12}
}

// Row draws one entry per name in color's domain, starting at origin.
func Row(color *scale.Ordinal, names []string, origin geometry.Point, opts Options) []geometry.Primitive {
	out := make([]geometry.Primitive, 0, 2*len(names))
	for i, name := range names {
		x := origin.X + float64(i)*opts.Spacing
		swatch := geometry.Rect{X: x, Y: origin.Y, W: opts.Swatch, H: opts.Swatch}
		out = append(out,
			geometry.NewRect(fmt.Sprintf("legend-%d", i), swatch, color.Map(name)).
				WithLayer(geometry.LayerLegend).
				WithLabel(name),
			geometry.NewText(fmt.Sprintf("legend-%d-text", i), geometry.Text{
				X:       x + opts.TextOffset,
				Y:       origin.Y + opts.Swatch - 2,
				Content: name,
				Size:    opts.FontSize,
			}, opts.TextColor).WithLayer(geometry.LayerLegend),
		)
	}
	return out
}
