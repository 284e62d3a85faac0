// Package axis draws linear-scale axes as scene primitives.
package axis

import (
	"fmt"
	"math"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/layout/label"
	"github.com/matzehuels/geomkit/pkg/scale"
)

const (
	DefaultTickSize = 6.0
	DefaultFontSize = 10.0
	DefaultColor    = "#666"
)

// Options controls how an axis is drawn.
type Options struct {
	Count    int     // approximate tick count
	TickSize float64 // tick mark length
	FontSize float64
	Color    string
	Domain   bool   // draw the baseline
	Prefix   string // key prefix, "axis-x" or "axis-y" by default
}

func (o Options) withDefaults(prefix string) Options {
	if o.Count <= 0 {
		o.Count = scale.DefaultTickCount
	}
	if o.TickSize <= 0 {
		o.TickSize = DefaultTickSize
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	if o.Prefix == "" {
		o.Prefix = prefix
	}
	return o
}

// TickFormat returns a formatter with enough decimals to tell ticks spaced
// step apart from each other.
func TickFormat(step float64) func(float64) string {
	decimals := 0
	if step = math.Abs(step); step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
	}
	return func(v float64) string { return label.Decimal(v, decimals) }
}

// Bottom draws a horizontal axis for s with its baseline at origin.Y. Scale
// outputs are offset by origin.X.
func Bottom(s scale.Linear, origin geometry.Point, opts Options) []geometry.Primitive {
	opts = opts.withDefaults("axis-x")
	ticks := s.Ticks(opts.Count)
	format := tickFormatFor(s, opts.Count)

	var out []geometry.Primitive
	var marks geometry.Path
	if opts.Domain {
		marks.MoveTo(origin.X+s.Range[0], origin.Y)
		marks.LineTo(origin.X+s.Range[1], origin.Y)
	}
	for i, t := range ticks {
		x := origin.X + s.Map(t)
		marks.MoveTo(x, origin.Y)
		marks.LineTo(x, origin.Y+opts.TickSize)
		out = append(out, geometry.NewText(fmt.Sprintf("%s-tick-%d", opts.Prefix, i), geometry.Text{
			X:       x,
			Y:       origin.Y + opts.TickSize + opts.FontSize,
			Content: format(t),
			Anchor:  geometry.AnchorMiddle,
			Size:    opts.FontSize,
		}, opts.Color).WithLayer(geometry.LayerAxis))
	}
	return append([]geometry.Primitive{line(opts, marks)}, out...)
}

// Left draws a vertical axis for s with its baseline at origin.X. Scale
// outputs are offset by origin.Y.
func Left(s scale.Linear, origin geometry.Point, opts Options) []geometry.Primitive {
	opts = opts.withDefaults("axis-y")
	ticks := s.Ticks(opts.Count)
	format := tickFormatFor(s, opts.Count)

	var out []geometry.Primitive
	var marks geometry.Path
	if opts.Domain {
		marks.MoveTo(origin.X, origin.Y+s.Range[0])
		marks.LineTo(origin.X, origin.Y+s.Range[1])
	}
	for i, t := range ticks {
		y := origin.Y + s.Map(t)
		marks.MoveTo(origin.X-opts.TickSize, y)
		marks.LineTo(origin.X, y)
		out = append(out, geometry.NewText(fmt.Sprintf("%s-tick-%d", opts.Prefix, i), geometry.Text{
			X:       origin.X - opts.TickSize - 3,
			Y:       y + opts.FontSize*0.32,
			Content: format(t),
			Anchor:  geometry.AnchorEnd,
			Size:    opts.FontSize,
		}, opts.Color).WithLayer(geometry.LayerAxis))
	}
	return append([]geometry.Primitive{line(opts, marks)}, out...)
}

func tickFormatFor(s scale.Linear, count int) func(float64) string {
	return TickFormat(scale.TickStep(s.Domain[0], s.Domain[1], count))
}

func line(opts Options, p geometry.Path) geometry.Primitive {
	return geometry.NewPath(opts.Prefix+"-line", p, "none").
		WithStroke(opts.Color).
		WithLayer(geometry.LayerAxis)
}
