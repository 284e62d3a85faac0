package treemap

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
const Chart = "treemap"

// DefaultPadding is the inset applied to internal nodes.
const DefaultPadding = 2.0

// Options configures a treemap.
type Options struct {
	Margin     geometry.Margin
	Palette    []string
	Padding    float64 // inset of each internal node before tiling
	Ratio      float64 // target aspect ratio, Phi when <= 1
	Round      bool    // snap cell edges to whole units
	ShowLabels bool
	ShowLegend bool
	LabelColor string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Margin:     geometry.DefaultMargin(),
		Palette:    scale.Tableau10(),
		Padding:    DefaultPadding,
		Ratio:      Phi,
		ShowLabels: true,
		ShowLegend: true,
		LabelColor: "#fff",
	}
}

// Cell is one positioned leaf.
type Cell struct {
	Item  *hierarchy.Item
	Rect  geometry.Rect // scene coordinates
	Color string
}

// Layout is a computed treemap.
type Layout struct {
	Size    geometry.Size
	Options Options
	Offset  geometry.Point // top-left of the tiled area
	Area    geometry.Rect  // tiled area after the root's padding, scene coordinates
	Cells   []Cell
	Color   *scale.Ordinal
}

// Compute positions the leaves of root within extent. It returns an empty
// layout when the extent or the tree's total value is zero.
func Compute(root *hierarchy.Item, extent geometry.Size, opts Options) Layout {
	if extent.Width < 0 || extent.Height < 0 {
		panic(fmt.Sprintf("treemap: negative extent %vx%v", extent.Width, extent.Height))
	}
	if opts.Ratio <= 1 {
		opts.Ratio = Phi
	}
	opts.Padding = math.Max(0, opts.Padding)

	l := Layout{Size: extent, Options: opts}
	inner := extent.Inner(opts.Margin)
	if extent.Empty() || inner.Empty() || root == nil || !(root.Value > 0) {
		return l
	}
	l.Color = scale.NewOrdinal(root.BranchNames(), opts.Palette)
	l.Offset = geometry.Point{
		X: (extent.Width - inner.Width) / 2,
		Y: (extent.Height - inner.Height) / 2,
	}

	var place func(it *hierarchy.Item, b bounds)
	place = func(it *hierarchy.Item, b bounds) {
		if !(it.Value > 0) {
			return
		}
		if it.IsLeaf() {
			l.Cells = append(l.Cells, Cell{Item: it, Rect: l.toScene(b), Color: l.colorOf(it)})
			return
		}
		r := geometry.RectFromCorners(b.x0, b.y0, b.x1, b.y1).Inset(opts.Padding)
		ib := bounds{r.X, r.Y, r.Right(), r.Bottom()}
		if it.Depth == 0 {
			l.Area = l.toScene(ib)
		}
		for i, cb := range squarify(opts.Ratio, it, ib) {
			place(it.Children[i], cb)
		}
	}
	place(root, bounds{0, 0, inner.Width, inner.Height})
	return l
}

func (l Layout) toScene(b bounds) geometry.Rect {
	x0, y0 := b.x0+l.Offset.X, b.y0+l.Offset.Y
	x1, y1 := b.x1+l.Offset.X, b.y1+l.Offset.Y
	if l.Options.Round {
		x0, y0, x1, y1 = math.Round(x0), math.Round(y0), math.Round(x1), math.Round(y1)
	}
	return geometry.RectFromCorners(x0, y0, x1, y1)
}

func (l Layout) colorOf(it *hierarchy.Item) string {
	b := it.Branch()
	if b == nil {
		return scale.NeutralColor
	}
	return l.Color.Map(b.Name)
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
			WithTooltip(label.Tooltip(c.Item.Path("."), c.Item.Value)))
	}
	if l.Options.ShowLabels {
		for _, c := range l.Cells {
			sc.Add(cellLabels(c, l.Options.LabelColor)...)
		}
	}
	if l.Options.ShowLegend {
		sc.Add(legend.Row(l.Color, l.Color.Domain(), geometry.Point{X: l.Options.Margin.Left, Y: l.Size.Height - 20}, legend.DefaultOptions())...)
	}
	return sc
}

// cellLabels returns the name and value lines for a cell, or nothing when
// the cell is too small.
func cellLabels(c Cell, color string) []geometry.Primitive {
	r := c.Rect
	if !label.TreemapVisible(r.W, r.H) {
		return nil
	}
	size := label.FontSize(r.W, r.H)
	clip := r
	name := geometry.Text{
		X:       r.X + 4,
		Y:       r.Y + 1.1*size,
		Content: label.Elide(c.Item.Name, r.W),
		Size:    size,
		Clip:    &clip,
	}
	value := name
	value.Y = r.Y + 2.0*size
	value.Content = label.Value(c.Item.Value, r.W)
	return []geometry.Primitive{
		geometry.NewText(c.Item.Key+"-name", name, color),
		geometry.NewText(c.Item.Key+"-value", value, color),
	}
}
