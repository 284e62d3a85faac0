package geometry

import "math"

// Kind tags the variant held by a Primitive.
type Kind string

const (
	KindRect    Kind = "rect"
	KindArc     Kind = "arc"
	KindPath    Kind = "path"
	KindHexagon Kind = "hexagon"
	KindText    Kind = "text"
)

// Layer names used by the layouts.
const (
	LayerCells  = "cells"
	LayerLabels = "labels"
	LayerAxis   = "axis"
	LayerLegend = "legend"
	LayerMesh   = "mesh"
)

// Point is a position in drawing units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a drawing extent. Zero on either axis means "not yet measurable".
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the size cannot hold any geometry.
func (s Size) Empty() bool { return !(s.Width > 0) || !(s.Height > 0) }

// Margin is the inset between a scene's border and its plotting area.
type Margin struct {
	Top    float64 `json:"top" toml:"top" yaml:"top"`
	Right  float64 `json:"right" toml:"right" yaml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" toml:"left" yaml:"left"`
}

// DefaultMargin returns the chart margin used when none is configured.
func DefaultMargin() Margin {
	return Margin{Top: 40, Right: 30, Bottom: 60, Left: 60}
}

// Inner returns the plotting area left after removing m, clamped at zero.
func (s Size) Inner(m Margin) Size {
	return Size{
		Width:  math.Max(0, s.Width-m.Left-m.Right),
		Height: math.Max(0, s.Height-m.Top-m.Bottom),
	}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectFromCorners builds a Rect from two opposite corners.
func RectFromCorners(x0, y0, x1, y1 float64) Rect {
	return Rect{X: math.Min(x0, x1), Y: math.Min(y0, y1), W: math.Abs(x1 - x0), H: math.Abs(y1 - y0)}
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }
func (r Rect) Area() float64   { return r.W * r.H }
func (r Rect) Center() Point   { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Inset shrinks r by p on every side. A rectangle narrower than 2p collapses
// onto its center line instead of turning inside out.
func (r Rect) Inset(p float64) Rect {
	x0, y0, x1, y1 := r.X+p, r.Y+p, r.Right()-p, r.Bottom()-p
	if x1 < x0 {
		x0 = (x0 + x1) / 2
		x1 = x0
	}
	if y1 < y0 {
		y0 = (y0 + y1) / 2
		y1 = y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Overlaps reports whether the interiors of r and o intersect by more than eps.
func (r Rect) Overlaps(o Rect, eps float64) bool {
	w := math.Min(r.Right(), o.Right()) - math.Max(r.X, o.X)
	h := math.Min(r.Bottom(), o.Bottom()) - math.Max(r.Y, o.Y)
	return w > eps && h > eps
}

// Union returns the smallest Rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	return RectFromCorners(
		math.Min(r.X, o.X), math.Min(r.Y, o.Y),
		math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom()),
	)
}

// Arc is an annular sector centered on (CX, CY).
type Arc struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	InnerRadius float64 `json:"r0"`
	OuterRadius float64 `json:"r1"`
	StartAngle  float64 `json:"a0"`
	EndAngle    float64 `json:"a1"`
}

// Centroid returns the midpoint of the arc's angular and radial extent.
func (a Arc) Centroid() Point {
	r := (a.InnerRadius + a.OuterRadius) / 2
	t := (a.StartAngle + a.EndAngle) / 2
	return polar(a.CX, a.CY, r, t)
}

// Path converts the sector to move/line/cubic commands.
func (a Arc) Path() Path {
	var p Path
	sweep := a.EndAngle - a.StartAngle
	if math.Abs(sweep) >= 2*math.Pi-1e-9 {
		start := polar(a.CX, a.CY, a.OuterRadius, a.StartAngle)
		p.MoveTo(start.X, start.Y)
		p.arcTo(a.CX, a.CY, a.OuterRadius, a.StartAngle, a.StartAngle+2*math.Pi)
		p.Close()
		if a.InnerRadius > 0 {
			in := polar(a.CX, a.CY, a.InnerRadius, a.StartAngle)
			p.MoveTo(in.X, in.Y)
			p.arcTo(a.CX, a.CY, a.InnerRadius, a.StartAngle, a.StartAngle-2*math.Pi)
			p.Close()
		}
		return p
	}

	start := polar(a.CX, a.CY, a.OuterRadius, a.StartAngle)
	p.MoveTo(start.X, start.Y)
	p.arcTo(a.CX, a.CY, a.OuterRadius, a.StartAngle, a.EndAngle)
	if a.InnerRadius > 0 {
		in := polar(a.CX, a.CY, a.InnerRadius, a.EndAngle)
		p.LineTo(in.X, in.Y)
		p.arcTo(a.CX, a.CY, a.InnerRadius, a.EndAngle, a.StartAngle)
	} else {
		p.LineTo(a.CX, a.CY)
	}
	p.Close()
	return p
}

func polar(cx, cy, r, angle float64) Point {
	return Point{X: cx + r*math.Sin(angle), Y: cy - r*math.Cos(angle)}
}

// Orientation selects which hexagon edge faces up.
type Orientation string

const (
	Pointy Orientation = "pointy"
	Flat   Orientation = "flat"
)

// Hexagon is a regular hexagon; Radius is the center-to-corner distance.
type Hexagon struct {
	CX          float64     `json:"cx"`
	CY          float64     `json:"cy"`
	Radius      float64     `json:"radius"`
	Orientation Orientation `json:"orientation,omitempty"`
}

// Corners returns the six corners clockwise, starting at the top (pointy)
// or the right (flat).
func (h Hexagon) Corners() [6]Point {
	var out [6]Point
	offset := 0.0
	if h.Orientation == Flat {
		offset = math.Pi / 6
	}
	for i := range out {
		out[i] = polar(h.CX, h.CY, h.Radius, offset+float64(i)*math.Pi/3)
	}
	return out
}

// Path returns the closed outline of the hexagon.
func (h Hexagon) Path() Path {
	var p Path
	for i, c := range h.Corners() {
		if i == 0 {
			p.MoveTo(c.X, c.Y)
			continue
		}
		p.LineTo(c.X, c.Y)
	}
	p.Close()
	return p
}

// Text anchors.
const (
	AnchorStart  = "start"
	AnchorMiddle = "middle"
	AnchorEnd    = "end"
)

// DefaultFontSize is used by renderers when Text.Size is zero.
const DefaultFontSize = 12.0

// Text is a run of text positioned at its baseline.
type Text struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Content string  `json:"content"`
	Anchor  string  `json:"anchor,omitempty"`
	Size    float64 `json:"size,omitempty"`
	Rotate  float64 `json:"rotate,omitempty"` // degrees, clockwise
	Clip    *Rect   `json:"clip,omitempty"`   // cell the text must stay inside
}

// FontSize returns the effective font size.
func (t Text) FontSize() float64 {
	if t.Size > 0 {
		return t.Size
	}
	return DefaultFontSize
}

// Primitive is one drawable item. Exactly one of the shape pointers is set,
// matching Kind.
type Primitive struct {
	Kind    Kind   `json:"kind"`
	Key     string `json:"key,omitempty"`
	Layer   string `json:"layer,omitempty"`
	Fill    string `json:"fill,omitempty"`
	Stroke  string `json:"stroke,omitempty"`
	Label   string `json:"label,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`

	Rect    *Rect    `json:"rect,omitempty"`
	Arc     *Arc     `json:"arc,omitempty"`
	Path    *Path    `json:"path,omitempty"`
	Hexagon *Hexagon `json:"hexagon,omitempty"`
	Text    *Text    `json:"text,omitempty"`
}

func NewRect(key string, r Rect, fill string) Primitive {
	return Primitive{Kind: KindRect, Key: key, Layer: LayerCells, Fill: fill, Rect: &r}
}

func NewArc(key string, a Arc, fill string) Primitive {
	return Primitive{Kind: KindArc, Key: key, Layer: LayerCells, Fill: fill, Arc: &a}
}

func NewPath(key string, p Path, fill string) Primitive {
	return Primitive{Kind: KindPath, Key: key, Layer: LayerCells, Fill: fill, Path: &p}
}

func NewHexagon(key string, h Hexagon, fill string) Primitive {
	return Primitive{Kind: KindHexagon, Key: key, Layer: LayerCells, Fill: fill, Hexagon: &h}
}

func NewText(key string, t Text, fill string) Primitive {
	return Primitive{Kind: KindText, Key: key, Layer: LayerLabels, Fill: fill, Label: t.Content, Text: &t}
}

// WithLayer returns a copy of p assigned to layer.
func (p Primitive) WithLayer(layer string) Primitive {
	p.Layer = layer
	return p
}

// WithTooltip returns a copy of p carrying tooltip.
func (p Primitive) WithTooltip(tooltip string) Primitive {
	p.Tooltip = tooltip
	return p
}

// WithLabel returns a copy of p carrying label.
func (p Primitive) WithLabel(label string) Primitive {
	p.Label = label
	return p
}

// WithStroke returns a copy of p outlined in stroke.
func (p Primitive) WithStroke(stroke string) Primitive {
	p.Stroke = stroke
	return p
}

// Outline returns the primitive's shape as a path. Text has no outline and
// returns an empty path.
func (p Primitive) Outline() Path {
	switch p.Kind {
	case KindRect:
		var out Path
		r := *p.Rect
		out.MoveTo(r.X, r.Y)
		out.LineTo(r.Right(), r.Y)
		out.LineTo(r.Right(), r.Bottom())
		out.LineTo(r.X, r.Bottom())
		out.Close()
		return out
	case KindArc:
		return p.Arc.Path()
	case KindPath:
		return *p.Path
	case KindHexagon:
		return p.Hexagon.Path()
	}
	return Path{}
}

// Bounds returns the axis-aligned bounding box of the primitive. Text is
// approximated from its font size.
func (p Primitive) Bounds() Rect {
	switch p.Kind {
	case KindRect:
		return *p.Rect
	case KindText:
		t := p.Text
		size := t.FontSize()
		w := float64(len([]rune(t.Content))) * size * 0.6
		x := t.X
		switch t.Anchor {
		case AnchorMiddle:
			x -= w / 2
		case AnchorEnd:
			x -= w
		}
		return Rect{X: x, Y: t.Y - size, W: w, H: size}
	}
	return p.Outline().Bounds()
}
