// Package styles defines the visual presets shared by every sink.
//
// A layout decides where things go and which palette color they get. A
// [Style] decides how those colors are painted: fill opacity, outlines,
// label contrast and font. Two presets ship:
//
//   - [Simple]: translucent fills and white labels, for screens
//   - [Print]: opaque fills, dark outlines and labels picked for contrast
//     against the cell beneath them
package styles

import (
	"bytes"
	"encoding/xml"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/geomkit/pkg/errors"
	"github.com/matzehuels/geomkit/pkg/geometry"
)

// Names accepted by [ByName].
const (
	NameSimple = "simple"
	NamePrint  = "print"
)

// FontFamily is the CSS font stack used for SVG text.
const FontFamily = `system-ui, -apple-system, 'Segoe UI', Helvetica, Arial, sans-serif`

// Paint is the resolved appearance of one primitive.
type Paint struct {
	Fill          string
	FillOpacity   float64
	Stroke        string
	StrokeWidth   float64
	StrokeOpacity float64
}

// HasFill reports whether the fill should be drawn.
func (p Paint) HasFill() bool { return p.Fill != "" && p.Fill != "none" && p.FillOpacity > 0 }

// HasStroke reports whether the outline should be drawn.
func (p Paint) HasStroke() bool {
	return p.Stroke != "" && p.Stroke != "none" && p.StrokeWidth > 0 && p.StrokeOpacity > 0
}

// Style resolves paints for the primitives of a scene.
type Style struct {
	Name        string
	Background  string
	CellOpacity float64
	CellStroke  string // overrides the primitive's own stroke when set
	StrokeWidth float64
	// ContrastLabels recolors cell labels to whichever of LightText or
	// DarkText reads better on the cell underneath.
	ContrastLabels bool
	LightText      string
	DarkText       string
	FontFamily     string
}

// Simple is the screen preset.
func Simple() Style {
	return Style{
		Name:        NameSimple,
		CellOpacity: 0.85,
		StrokeWidth: 1,
		LightText:   "#fff",
		DarkText:    "#333",
		FontFamily:  FontFamily,
	}
}

// Print is the paper preset.
func Print() Style {
	return Style{
		Name:           NamePrint,
		Background:     "#fff",
		CellOpacity:    1,
		CellStroke:     "#333",
		StrokeWidth:    0.75,
		ContrastLabels: true,
		LightText:      "#fff",
		DarkText:       "#222",
		FontFamily:     FontFamily,
	}
}

// ByName returns the preset called name. The empty name selects Simple.
func ByName(name string) (Style, error) {
	switch name {
	case "", NameSimple:
		return Simple(), nil
	case NamePrint:
		return Print(), nil
	}
	return Style{}, errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: simple, print)", name)
}

// Names lists the available presets.
func Names() []string { return []string{NameSimple, NamePrint} }

// Paint resolves the appearance of the i-th primitive of scene.
func (s Style) Paint(scene *geometry.Scene, i int) Paint {
	p := scene.Primitives[i]
	out := Paint{Fill: p.Fill, FillOpacity: 1, Stroke: p.Stroke, StrokeWidth: s.StrokeWidth, StrokeOpacity: 1}
	if out.StrokeWidth <= 0 {
		out.StrokeWidth = 1
	}

	switch {
	case p.Kind == geometry.KindText:
		if s.ContrastLabels && p.Layer == geometry.LayerLabels {
			if under, ok := scene.At(geometry.Point{X: p.Text.X, Y: p.Text.Y - p.Text.FontSize()/2}); ok {
				out.Fill = s.Contrast(under.Fill)
			}
		}
	case p.Layer == geometry.LayerCells:
		out.FillOpacity = s.CellOpacity
		if s.CellStroke != "" && out.Stroke != "" && out.Stroke != "none" {
			out.Stroke = s.CellStroke
		}
	case p.Layer == geometry.LayerMesh:
		out.StrokeOpacity = 0.8
	}
	return out
}

// Contrast returns LightText or DarkText, whichever stands out more against
// the background color bg. Unparsable colors get DarkText.
func (s Style) Contrast(bg string) string {
	c, err := colorful.Hex(bg)
	if err != nil {
		return s.DarkText
	}
	l, _, _ := c.Lab()
	if l < 0.6 {
		return s.LightText
	}
	return s.DarkText
}

// RGB converts a hex color to 8-bit channels. Invalid colors and "none"
// report false.
func RGB(hex string) (r, g, b uint8, ok bool) {
	if hex == "" || hex == "none" {
		return 0, 0, 0, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, false
	}
	r, g, b = c.RGB255()
	return r, g, b, true
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
