package sink

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/render/styles"
)

// pdfFont is a core PDF font, so text stays vector without embedding.
const pdfFont = "Helvetica"

// RenderPDF renders the scene onto a single page sized to the scene. Units
// are points, one per scene unit.
func RenderPDF(scene *geometry.Scene, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	w, h := scene.Width, scene.Height
	if !(w > 0) || !(h > 0) {
		w, h = 1, 1
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if r.title != "" {
		pdf.SetTitle(r.title, true)
	}
	pdf.SetCreator("geomkit", false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if r.style.Background != "" {
		if setFill(pdf, r.style.Background) {
			pdf.Rect(0, 0, w, h, "F")
		}
	}
	for i, p := range scene.Primitives {
		paint := r.style.Paint(scene, i)
		if p.Kind == geometry.KindText {
			drawPDFText(pdf, tr, p, paint)
			continue
		}
		drawPDFShape(pdf, p, paint)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func setFill(pdf *gofpdf.Fpdf, hex string) bool {
	r, g, b, ok := styles.RGB(hex)
	if ok {
		pdf.SetFillColor(int(r), int(g), int(b))
	}
	return ok
}

func setDraw(pdf *gofpdf.Fpdf, hex string) bool {
	r, g, b, ok := styles.RGB(hex)
	if ok {
		pdf.SetDrawColor(int(r), int(g), int(b))
	}
	return ok
}

func drawPDFShape(pdf *gofpdf.Fpdf, p geometry.Primitive, paint styles.Paint) {
	fill := paint.HasFill() && setFill(pdf, paint.Fill)
	stroke := paint.HasStroke() && setDraw(pdf, paint.Stroke)
	if !fill && !stroke {
		return
	}
	style := "D"
	switch {
	case fill && stroke:
		style = "FD"
	case fill:
		style = "F"
	}

	if fill && paint.FillOpacity < 1 {
		pdf.SetAlpha(paint.FillOpacity, "Normal")
		defer pdf.SetAlpha(1, "Normal")
	}
	pdf.SetLineWidth(paint.StrokeWidth)

	if p.Kind == geometry.KindRect {
		pdf.Rect(p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H, style)
		return
	}
	outline := p.Outline()
	if len(outline.Commands) == 0 {
		return
	}
	for _, c := range outline.Commands {
		switch c.Op {
		case geometry.OpMove:
			pdf.MoveTo(c.Points[0].X, c.Points[0].Y)
		case geometry.OpLine:
			pdf.LineTo(c.Points[0].X, c.Points[0].Y)
		case geometry.OpCubic:
			pdf.CurveBezierCubicTo(c.Points[0].X, c.Points[0].Y, c.Points[1].X, c.Points[1].Y, c.Points[2].X, c.Points[2].Y)
		case geometry.OpClose:
			pdf.ClosePath()
		}
	}
	pdf.DrawPath(style)
}

func drawPDFText(pdf *gofpdf.Fpdf, tr func(string) string, p geometry.Primitive, paint styles.Paint) {
	t := p.Text
	if t.Content == "" {
		return
	}
	if r, g, b, ok := styles.RGB(paint.Fill); ok {
		pdf.SetTextColor(int(r), int(g), int(b))
	} else {
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.SetFont(pdfFont, "", t.FontSize())
	content := tr(t.Content)

	x := t.X
	switch t.Anchor {
	case geometry.AnchorMiddle:
		x -= pdf.GetStringWidth(content) / 2
	case geometry.AnchorEnd:
		x -= pdf.GetStringWidth(content)
	}

	if t.Clip != nil {
		pdf.ClipRect(t.Clip.X, t.Clip.Y, t.Clip.W, t.Clip.H, false)
		defer pdf.ClipEnd()
	}
	if t.Rotate != 0 {
		pdf.TransformBegin()
		// gofpdf rotates counter-clockwise.
		pdf.TransformRotate(-t.Rotate, t.X, t.Y)
		defer pdf.TransformEnd()
	}
	pdf.Text(x, t.Y, content)
}
