// Package hexbin bins points into a hexagonal grid.
//
// Points are converted to fractional axial coordinates and cube-rounded to
// the nearest cell, so assignment is constant time per point. Cells are kept
// in order of first assignment; the first point in a cell supplies its
// value and label, and the cell's index picks its palette color.
//
// By default point coordinates are plot coordinates. With
// [Options.ScalePoints] they are first mapped through linear scales built
// from the data extent onto [0,w]×[h,0].
package hexbin

import (
	"fmt"
	"math"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/layout/axis"
	"github.com/matzehuels/geomkit/pkg/layout/label"
	"github.com/matzehuels/geomkit/pkg/scale"
)

// Chart is the chart tag used in scenes.
const Chart = "hexbin"

// DefaultRadius is the default cell radius.
const DefaultRadius = 30.0

const (
	textSize    = 10.0
	cellStroke  = "#fff"
	meshStroke  = "#ddd"
	labelMargin = 20.0
)

// Point is one input observation.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

// Options configures a hexbin chart.
type Options struct {
	Radius      float64
	Orientation geometry.Orientation
	Margin      geometry.Margin
	Palette     []string
	ScalePoints bool
	ShowAxisX   bool
	ShowAxisY   bool
	ShowLabels  bool
	ShowMesh    bool
	TextColor   string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Radius:      DefaultRadius,
		Orientation: geometry.Pointy,
		Margin:      geometry.Margin{Top: labelMargin, Right: labelMargin, Bottom: labelMargin, Left: labelMargin},
		Palette:     scale.Tableau10(),
		ShowLabels:  true,
		TextColor:   "#fff",
	}
}

// Cell is one non-empty bin.
type Cell struct {
	Axial
	Center geometry.Point // plot coordinates
	Points []int          // indices into the input
	Value  float64
	Label  string
	Color  string
}

// Count returns the number of points in the cell.
func (c Cell) Count() int { return len(c.Points) }

// Key returns the cell's stable key.
func (c Cell) Key() string { return fmt.Sprintf("hex-%d-%d", c.Q, c.R) }

// Layout is a computed hexbin chart. Cell centers are relative to Origin.
type Layout struct {
	Size    geometry.Size
	Options Options
	Origin  geometry.Point
	Inner   geometry.Size
	Grid    Grid
	Cells   []Cell
	X, Y    scale.Linear // axis scales
}

// Compute bins points within extent. Points with non-finite coordinates or
// beyond the addressable grid are skipped. It panics when the radius is not
// positive or the extent is negative.
func Compute(points []Point, extent geometry.Size, opts Options) Layout {
	if !(opts.Radius > 0) {
		panic(fmt.Sprintf("hexbin: radius must be positive, got %v", opts.Radius))
	}
	if extent.Width < 0 || extent.Height < 0 {
		panic(fmt.Sprintf("hexbin: negative extent %vx%v", extent.Width, extent.Height))
	}
	if opts.Orientation == "" {
		opts.Orientation = geometry.Pointy
	}
	l := Layout{Size: extent, Options: opts, Grid: Grid{Radius: opts.Radius, Orientation: opts.Orientation}}
	inner := extent.Inner(opts.Margin)
	if extent.Empty() || inner.Empty() || len(points) == 0 {
		return l
	}
	l.Inner = inner
	l.Origin = geometry.Point{X: (extent.Width - inner.Width) / 2, Y: (extent.Height - inner.Height) / 2}
	l.X = scale.NewLinear(0, inner.Width, 0, inner.Width)
	l.Y = scale.NewLinear(0, inner.Height, 0, inner.Height)
	if opts.ScalePoints {
		x0, x1, y0, y1 := extents(points)
		l.X = scale.NewLinear(x0, x1, 0, inner.Width)
		l.Y = scale.NewLinear(y0, y1, inner.Height, 0)
	}

	color := scale.NewOrdinal(nil, opts.Palette)
	index := map[Axial]int{}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		x, y := p.X, p.Y
		if opts.ScalePoints {
			x, y = l.X.Map(x), l.Y.Map(y)
		}
		if !l.Grid.Addressable(x, y) {
			continue
		}
		a := l.Grid.Locate(x, y)
		ci, ok := index[a]
		if !ok {
			ci = len(l.Cells)
			index[a] = ci
			l.Cells = append(l.Cells, Cell{
				Axial:  a,
				Center: l.Grid.Center(a),
				Value:  p.Value,
				Label:  p.Label,
				Color:  color.At(ci),
			})
		}
		l.Cells[ci].Points = append(l.Cells[ci].Points, i)
	}
	return l
}

// extents returns the finite data bounds of points.
func extents(points []Point) (x0, x1, y0, y1 float64) {
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		x0, x1 = math.Min(x0, p.X), math.Max(x1, p.X)
		y0, y1 = math.Min(y0, p.Y), math.Max(y1, p.Y)
	}
	if math.IsInf(x0, 1) {
		return 0, 0, 0, 0
	}
	return x0, x1, y0, y1
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Scene renders the layout into drawable primitives.
func (l Layout) Scene() *geometry.Scene {
	sc := geometry.NewScene(Chart, l.Size)
	if len(l.Cells) == 0 {
		return sc
	}
	ox, oy := l.Origin.X, l.Origin.Y

	if l.Options.ShowMesh {
		for _, a := range l.Grid.Centers(l.Inner) {
			h := l.Grid.Hexagon(a)
			h.CX += ox
			h.CY += oy
			sc.Add(geometry.NewHexagon(fmt.Sprintf("mesh-%d-%d", a.Q, a.R), h, "none").
				WithStroke(meshStroke).
				WithLayer(geometry.LayerMesh))
		}
	}
	for _, c := range l.Cells {
		h := l.Grid.Hexagon(c.Axial)
		h.CX += ox
		h.CY += oy
		name := c.Label
		if name == "" {
			name = fmt.Sprintf("%d,%d", c.Q, c.R)
		}
		sc.Add(geometry.NewHexagon(c.Key(), h, c.Color).
			WithStroke(cellStroke).
			WithLabel(c.Label).
			WithTooltip(label.Tooltip(name, c.Value)))
	}
	if l.Options.ShowLabels {
		for _, c := range l.Cells {
			x, y := ox+c.Center.X, oy+c.Center.Y
			sc.Add(geometry.NewText(c.Key()+"-value", geometry.Text{
				X: x, Y: y + 4, Content: label.Number(c.Value), Anchor: geometry.AnchorMiddle, Size: textSize,
			}, l.Options.TextColor))
			if c.Label != "" {
				sc.Add(geometry.NewText(c.Key()+"-label", geometry.Text{
					X: x, Y: y + l.Grid.Radius/2, Content: c.Label, Anchor: geometry.AnchorMiddle, Size: textSize,
				}, l.Options.TextColor))
			}
		}
	}
	if l.Options.ShowAxisX {
		count := max(4, int(l.Inner.Width/80))
		sc.Add(axis.Bottom(l.X, geometry.Point{X: ox, Y: oy + l.Inner.Height}, axis.Options{Count: count, Domain: true})...)
	}
	if l.Options.ShowAxisY {
		count := max(4, int(l.Inner.Height/50))
		sc.Add(axis.Left(l.Y, geometry.Point{X: ox, Y: oy}, axis.Options{Count: count, Domain: true})...)
	}
	return sc
}
