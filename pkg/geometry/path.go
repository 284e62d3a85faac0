package geometry

import (
	"math"
	"strconv"
	"strings"
)

// Op is a path command.
type Op string

const (
	OpMove  Op = "M"
	OpLine  Op = "L"
	OpCubic Op = "C"
	OpClose Op = "Z"
)

// Command is one path step. Move and Line carry one point, Cubic carries
// two control points followed by the end point, Close carries none.
type Command struct {
	Op     Op      `json:"op"`
	Points []Point `json:"points,omitempty"`
}

// Path is a sequence of commands in absolute coordinates.
type Path struct {
	Commands []Command `json:"commands"`
}

func (p *Path) MoveTo(x, y float64) {
	p.Commands = append(p.Commands, Command{Op: OpMove, Points: []Point{{x, y}}})
}

func (p *Path) LineTo(x, y float64) {
	p.Commands = append(p.Commands, Command{Op: OpLine, Points: []Point{{x, y}}})
}

func (p *Path) CurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.Commands = append(p.Commands, Command{Op: OpCubic, Points: []Point{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

func (p *Path) Close() {
	p.Commands = append(p.Commands, Command{Op: OpClose})
}

// arcTo appends cubic segments approximating a circular arc from angle a0
// to a1. The current point must already sit at polar(cx, cy, r, a0).
func (p *Path) arcTo(cx, cy, r, a0, a1 float64) {
	sweep := a1 - a0
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	if n == 0 {
		return
	}
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)
	for i := 0; i < n; i++ {
		a := a0 + float64(i)*step
		b := a + step
		p0 := polar(cx, cy, r, a)
		p3 := polar(cx, cy, r, b)
		p.CurveTo(
			p0.X+k*r*math.Cos(a), p0.Y+k*r*math.Sin(a),
			p3.X-k*r*math.Cos(b), p3.Y-k*r*math.Sin(b),
			p3.X, p3.Y,
		)
	}
}

// SVG returns the path in SVG "d" attribute syntax.
func (p Path) SVG() string {
	var b strings.Builder
	for _, c := range p.Commands {
		b.WriteString(string(c.Op))
		for i, pt := range c.Points {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Num(pt.X))
			b.WriteByte(',')
			b.WriteString(Num(pt.Y))
		}
	}
	return b.String()
}

// Num formats a coordinate with at most three decimals and no trailing zeros.
func Num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// flattenSteps is the number of line segments used per cubic when flattening.
const flattenSteps = 16

// Flatten converts the path into closed or open polylines, one per subpath.
func (p Path) Flatten() [][]Point {
	var (
		out     [][]Point
		current []Point
		start   Point
	)
	flush := func() {
		if len(current) > 1 {
			out = append(out, current)
		}
		current = nil
	}
	for _, c := range p.Commands {
		switch c.Op {
		case OpMove:
			flush()
			start = c.Points[0]
			current = []Point{start}
		case OpLine:
			current = append(current, c.Points[0])
		case OpCubic:
			if len(current) == 0 {
				current = []Point{start}
			}
			p0 := current[len(current)-1]
			for i := 1; i <= flattenSteps; i++ {
				current = append(current, cubicAt(p0, c.Points[0], c.Points[1], c.Points[2], float64(i)/flattenSteps))
			}
		case OpClose:
			if len(current) > 0 {
				current = append(current, start)
			}
			flush()
		}
	}
	flush()
	return out
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// Bounds returns the bounding box of the flattened path.
func (p Path) Bounds() Rect {
	first := true
	var x0, y0, x1, y1 float64
	for _, poly := range p.Flatten() {
		for _, pt := range poly {
			if first {
				x0, y0, x1, y1 = pt.X, pt.Y, pt.X, pt.Y
				first = false
				continue
			}
			x0, y0 = math.Min(x0, pt.X), math.Min(y0, pt.Y)
			x1, y1 = math.Max(x1, pt.X), math.Max(y1, pt.Y)
		}
	}
	return RectFromCorners(x0, y0, x1, y1)
}
