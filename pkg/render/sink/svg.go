package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/render/styles"
)

// clipNamespace seeds the name-based UUIDs used as clip-path ids.
var clipNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/geomkit/clip"))

// ClipID returns the deterministic clip-path id for a primitive key.
func ClipID(key string) string {
	return "clip-" + uuid.NewSHA1(clipNamespace, []byte(key)).String()
}

const svgCSS = `
    .cell { transition: fill-opacity 0.2s ease; }
    .cell:hover { fill-opacity: 1; }
    text { pointer-events: none; }`

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(scene *geometry.Scene, opts ...Option) []byte {
	r := newRenderer(opts...)
	st := r.style

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		geometry.Num(scene.Width), geometry.Num(scene.Height), scene.Width, scene.Height, styles.EscapeXML(st.FontFamily))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgCSS)

	writeClipDefs(&buf, scene)
	if st.Background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", styles.EscapeXML(st.Background))
	}

	layer := ""
	for i, p := range scene.Primitives {
		if p.Layer != layer {
			if layer != "" {
				buf.WriteString("  </g>\n")
			}
			layer = p.Layer
			fmt.Fprintf(&buf, "  <g class=\"%s\">\n", styles.EscapeXML(layerName(layer)))
		}
		writePrimitive(&buf, p, st.Paint(scene, i))
	}
	if layer != "" {
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func layerName(l string) string {
	if l == "" {
		return "scene"
	}
	return l
}

func writeClipDefs(buf *bytes.Buffer, scene *geometry.Scene) {
	seen := map[string]bool{}
	var defs bytes.Buffer
	for _, p := range scene.Primitives {
		if p.Kind != geometry.KindText || p.Text.Clip == nil || p.Key == "" || seen[p.Key] {
			continue
		}
		seen[p.Key] = true
		c := p.Text.Clip
		fmt.Fprintf(&defs, `    <clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
			ClipID(p.Key), geometry.Num(c.X), geometry.Num(c.Y), geometry.Num(c.W), geometry.Num(c.H))
	}
	if defs.Len() == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	buf.Write(defs.Bytes())
	buf.WriteString("  </defs>\n")
}

func writePrimitive(buf *bytes.Buffer, p geometry.Primitive, paint styles.Paint) {
	attrs := paintAttrs(p, paint)
	if p.Key != "" {
		attrs = fmt.Sprintf(` data-key="%s"`, styles.EscapeXML(p.Key)) + attrs
	}

	if p.Kind == geometry.KindText {
		writeText(buf, p, paint, attrs)
		return
	}

	class := ""
	if p.Layer == geometry.LayerCells {
		class = ` class="cell"`
	}
	var shape string
	if p.Kind == geometry.KindRect {
		r := p.Rect
		shape = fmt.Sprintf(`<rect%s x="%s" y="%s" width="%s" height="%s"%s`,
			class, geometry.Num(r.X), geometry.Num(r.Y), geometry.Num(r.W), geometry.Num(r.H), attrs)
	} else {
		shape = fmt.Sprintf(`<path%s d="%s"%s`, class, p.Outline().SVG(), attrs)
	}
	buf.WriteString("    ")
	buf.WriteString(shape)
	if p.Tooltip != "" {
		fmt.Fprintf(buf, "><title>%s</title></%s>\n", styles.EscapeXML(p.Tooltip), tagOf(p))
		return
	}
	buf.WriteString("/>\n")
}

func tagOf(p geometry.Primitive) string {
	if p.Kind == geometry.KindRect {
		return "rect"
	}
	return "path"
}

func paintAttrs(p geometry.Primitive, paint styles.Paint) string {
	var b strings.Builder
	if paint.HasFill() {
		fmt.Fprintf(&b, ` fill="%s"`, styles.EscapeXML(paint.Fill))
		if paint.FillOpacity < 1 && p.Kind != geometry.KindText {
			fmt.Fprintf(&b, ` fill-opacity="%s"`, geometry.Num(paint.FillOpacity))
		}
	} else {
		b.WriteString(` fill="none"`)
	}
	if paint.HasStroke() && p.Kind != geometry.KindText {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, styles.EscapeXML(paint.Stroke), geometry.Num(paint.StrokeWidth))
		if paint.StrokeOpacity < 1 {
			fmt.Fprintf(&b, ` stroke-opacity="%s"`, geometry.Num(paint.StrokeOpacity))
		}
	}
	return b.String()
}

func writeText(buf *bytes.Buffer, p geometry.Primitive, paint styles.Paint, attrs string) {
	t := p.Text
	fmt.Fprintf(buf, `    <text x="%s" y="%s" font-size="%s"`, geometry.Num(t.X), geometry.Num(t.Y), geometry.Num(t.FontSize()))
	if t.Anchor != "" && t.Anchor != geometry.AnchorStart {
		fmt.Fprintf(buf, ` text-anchor="%s"`, t.Anchor)
	}
	if t.Rotate != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%s %s %s)"`, geometry.Num(t.Rotate), geometry.Num(t.X), geometry.Num(t.Y))
	}
	if t.Clip != nil && p.Key != "" {
		fmt.Fprintf(buf, ` clip-path="url(#%s)"`, ClipID(p.Key))
	}
	buf.WriteString(attrs)
	buf.WriteByte('>')
	buf.WriteString(styles.EscapeXML(t.Content))
	if p.Tooltip != "" {
		fmt.Fprintf(buf, "<title>%s</title>", styles.EscapeXML(p.Tooltip))
	}
	buf.WriteString("</text>\n")
}
