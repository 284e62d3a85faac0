package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/render/styles"
)

// maxPixels bounds the raster size.
const maxPixels = 64 << 20

// RenderPNG rasterizes the scene. Text uses the fixed 7x13 bitmap face, so
// font sizes and rotations are not honored.
func RenderPNG(scene *geometry.Scene, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	k := r.scale
	w := int(math.Ceil(scene.Width * k))
	h := int(math.Ceil(scene.Height * k))
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	if w*h > maxPixels {
		return nil, fmt.Errorf("png too large: %dx%d", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if c, ok := rgba(r.style.Background, 1); ok {
		draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	}

	ras := &raster{img: img, z: vector.NewRasterizer(w, h), scale: k}
	for i, p := range scene.Primitives {
		paint := r.style.Paint(scene, i)
		if p.Kind == geometry.KindText {
			ras.text(p, paint)
			continue
		}
		ras.shape(p, paint)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func rgba(hex string, opacity float64) (color.Color, bool) {
	r, g, b, ok := styles.RGB(hex)
	if !ok || opacity <= 0 {
		return nil, false
	}
	a := uint8(math.Round(math.Min(1, opacity) * 255))
	// Premultiplied.
	return color.RGBA{
		R: uint8(uint16(r) * uint16(a) / 255),
		G: uint8(uint16(g) * uint16(a) / 255),
		B: uint8(uint16(b) * uint16(a) / 255),
		A: a,
	}, true
}

type raster struct {
	img   *image.RGBA
	z     *vector.Rasterizer
	scale float64
}

func (r *raster) pt(p geometry.Point) (float32, float32) {
	return float32(p.X * r.scale), float32(p.Y * r.scale)
}

func (r *raster) reset() {
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
}

func (r *raster) draw(c color.Color) {
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func (r *raster) shape(p geometry.Primitive, paint styles.Paint) {
	outline := p.Outline()
	if paint.HasFill() {
		if c, ok := rgba(paint.Fill, paint.FillOpacity); ok {
			r.reset()
			r.fill(outline)
			r.draw(c)
		}
	}
	if paint.HasStroke() {
		if c, ok := rgba(paint.Stroke, paint.StrokeOpacity); ok {
			r.reset()
			width := math.Max(1, paint.StrokeWidth*r.scale)
			for _, poly := range outline.Flatten() {
				r.stroke(poly, width)
			}
			r.draw(c)
		}
	}
}

func (r *raster) fill(path geometry.Path) {
	open := false
	for _, c := range path.Commands {
		switch c.Op {
		case geometry.OpMove:
			if open {
				r.z.ClosePath()
			}
			r.z.MoveTo(r.pt(c.Points[0]))
			open = true
		case geometry.OpLine:
			r.z.LineTo(r.pt(c.Points[0]))
		case geometry.OpCubic:
			bx, by := r.pt(c.Points[0])
			cx, cy := r.pt(c.Points[1])
			dx, dy := r.pt(c.Points[2])
			r.z.CubeTo(bx, by, cx, cy, dx, dy)
		case geometry.OpClose:
			r.z.ClosePath()
			open = false
		}
	}
	if open {
		r.z.ClosePath()
	}
}

// stroke adds one quad per segment of poly, width pixels wide.
func (r *raster) stroke(poly []geometry.Point, width float64) {
	half := width / 2
	for i := 1; i < len(poly); i++ {
		x0, y0 := poly[i-1].X*r.scale, poly[i-1].Y*r.scale
		x1, y1 := poly[i].X*r.scale, poly[i].Y*r.scale
		dx, dy := x1-x0, y1-y0
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		r.z.MoveTo(float32(x0+nx), float32(y0+ny))
		r.z.LineTo(float32(x1+nx), float32(y1+ny))
		r.z.LineTo(float32(x1-nx), float32(y1-ny))
		r.z.LineTo(float32(x0-nx), float32(y0-ny))
		r.z.ClosePath()
	}
}

func (r *raster) text(p geometry.Primitive, paint styles.Paint) {
	t := p.Text
	c, ok := rgba(paint.Fill, 1)
	if t.Content == "" || !ok {
		return
	}
	dst := draw.Image(r.img)
	if t.Clip != nil {
		clip := image.Rect(
			int(math.Floor(t.Clip.X*r.scale)), int(math.Floor(t.Clip.Y*r.scale)),
			int(math.Ceil(t.Clip.Right()*r.scale)), int(math.Ceil(t.Clip.Bottom()*r.scale)),
		)
		dst = r.img.SubImage(clip).(*image.RGBA)
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13}
	x := fixed.I(int(math.Round(t.X * r.scale)))
	switch t.Anchor {
	case geometry.AnchorMiddle:
		x -= d.MeasureString(t.Content) / 2
	case geometry.AnchorEnd:
		x -= d.MeasureString(t.Content)
	}
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I(int(math.Round(t.Y * r.scale)))}
	d.DrawString(t.Content)
}
