// Package icicle lays out a hierarchy as a layered partition.
//
// Depth runs left to right: each level is availW/(height+1) wide, and a
// node's vertical span within its parent's band is proportional to its
// value. Every node with a positive value is emitted, the root included in
// the neutral color. The partition is uniformly rescaled to fit the plotting
// area and centered in the full extent.
package icicle

import (
	"fmt"
	"math"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/hierarchy"
	"github.com/matzehuels/geomkit/pkg/layout/label"
	"github.com/matzehuels/geomkit/pkg/layout/legend"
	"github.com/matzehuels/geomkit/pkg/scale"
)

// Chart is the chart tag used in scenes.
const Chart = "icicle"

// DefaultGap separates neighbouring cells.
const DefaultGap = 1.0

const labelSize = 10.0

// Options configures an icicle chart.
type Options struct {
	Margin     geometry.Margin
	Palette    []string
	Gap        float64
	ShowLabels bool
	ShowLegend bool
	LabelColor string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Margin:     geometry.DefaultMargin(),
		Palette:    scale.Tableau10(),
		Gap:        DefaultGap,
		ShowLabels: true,
		ShowLegend: true,
		LabelColor: "#fff",
	}
}

// Cell is one positioned node.
type Cell struct {
	Item  *hierarchy.Item
	Raw   geometry.Rect // partition coordinates before scaling
	Rect  geometry.Rect // scene coordinates after gap and scaling
	Color string
}

// Layout is a computed icicle chart.
type Layout struct {
	Size    geometry.Size
	Options Options
	Scale   float64
	Offset  geometry.Point
	Cells   []Cell // breadth-first
	Color   *scale.Ordinal
}

// span is a node's partition bounds: x runs along the value axis and y
// along the depth axis.
type span struct{ x0, x1, y0, y1 float64 }

// Compute partitions root within extent.
func Compute(root *hierarchy.Item, extent geometry.Size, opts Options) Layout {
	if extent.Width < 0 || extent.Height < 0 {
		panic(fmt.Sprintf("icicle: negative extent %vx%v", extent.Width, extent.Height))
	}
	opts.Gap = math.Max(0, opts.Gap)
	l := Layout{Size: extent, Options: opts}
	inner := extent.Inner(opts.Margin)
	if extent.Empty() || inner.Empty() || root == nil || !(root.Value > 0) {
		return l
	}
	l.Color = scale.NewOrdinal(root.BranchNames(), opts.Palette)

	spans := partition(root, inner.Height, inner.Width)
	minY0, maxY1 := math.Inf(1), math.Inf(-1)
	for _, s := range spans {
		minY0 = math.Min(minY0, s.y0)
		maxY1 = math.Max(maxY1, s.y1)
	}
	rawW := maxY1 - minY0
	rawH := spans[root].x1 - spans[root].x0
	l.Scale = math.Min(math.Min(inner.Width/rawW, inner.Height/rawH), 1)
	l.Offset = geometry.Point{
		X: (extent.Width-rawW*l.Scale)/2 - minY0*l.Scale,
		Y: (extent.Height - rawH*l.Scale) / 2,
	}

	for _, it := range root.Descendants() {
		if !(it.Value > 0) {
			continue
		}
		s := spans[it]
		h := s.x1 - s.x0
		w := math.Max(0, s.y1-s.y0-opts.Gap)
		h0 := math.Max(0, h-math.Min(opts.Gap, h/2))
		color := scale.NeutralColor
		if b := it.Branch(); b != nil {
			color = l.Color.Map(b.Name)
		}
		l.Cells = append(l.Cells, Cell{
			Item: it,
			Raw:  geometry.Rect{X: s.y0, Y: s.x0, W: s.y1 - s.y0, H: h},
			Rect: geometry.Rect{
				X: l.Offset.X + s.y0*l.Scale,
				Y: l.Offset.Y + s.x0*l.Scale,
				W: w * l.Scale,
				H: h0 * l.Scale,
			},
			Color: color,
		})
	}
	return l
}

// partition assigns spans over [0, dx] on the value axis and [0, dy] on the
// depth axis.
func partition(root *hierarchy.Item, dx, dy float64) map[*hierarchy.Item]span {
	n := float64(root.Height + 1)
	spans := map[*hierarchy.Item]span{root: {0, dx, 0, dy / n}}
	root.Each(func(it *hierarchy.Item) {
		if it.IsLeaf() {
			return
		}
		p := spans[it]
		k := 0.0
		if it.Value > 0 {
			k = (p.x1 - p.x0) / it.Value
		}
		y0 := dy * float64(it.Depth+1) / n
		y1 := dy * float64(it.Depth+2) / n
		x := p.x0
		for _, c := range it.Children {
			spans[c] = span{x, x + c.Value*k, y0, y1}
			x += c.Value * k
		}
	})
	return spans
}

// Scene renders the layout into drawable primitives.
func (l Layout) Scene() *geometry.Scene {
	sc := geometry.NewScene(Chart, l.Size)
	if len(l.Cells) == 0 {
		return sc
	}
	for _, c := range l.Cells {
		sc.Add(geometry.NewRect(c.Item.Key, c.Rect, c.Color).
			WithLabel(c.Item.Name).
			WithTooltip(label.Tooltip(c.Item.Path("/"), c.Item.Value)))
	}
	if l.Options.ShowLabels {
		for _, c := range l.Cells {
			if !label.IcicleVisible(c.Raw.H) {
				continue
			}
			clip := c.Rect
			sc.Add(geometry.NewText(c.Item.Key+"-label", geometry.Text{
				X:       c.Rect.X + 4,
				Y:       c.Rect.Y + 13,
				Content: label.Elide(c.Item.Name, c.Rect.W) + " " + label.Value(c.Item.Value, c.Rect.W),
				Size:    labelSize,
				Clip:    &clip,
			}, l.Options.LabelColor))
		}
	}
	if l.Options.ShowLegend {
		sc.Add(legend.Row(l.Color, l.Color.Domain(), geometry.Point{X: l.Options.Margin.Left, Y: l.Size.Height - 20}, legend.DefaultOptions())...)
	}
	return sc
}
