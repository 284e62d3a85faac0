package geometry

import "math"

// Contains reports whether pt falls inside the primitive's filled area.
// Paths use the even-odd rule over their flattened outline. Text never
// contains a point.
func (p Primitive) Contains(pt Point) bool {
	switch p.Kind {
	case KindRect:
		r := p.Rect
		return pt.X >= r.X && pt.X < r.Right() && pt.Y >= r.Y && pt.Y < r.Bottom()
	case KindArc:
		return p.Arc.contains(pt)
	case KindHexagon:
		c := p.Hexagon.Corners()
		return polygonContains(c[:], pt)
	case KindPath:
		inside := false
		for _, poly := range p.Path.Flatten() {
			if polygonContains(poly, pt) {
				inside = !inside
			}
		}
		return inside
	}
	return false
}

func (a Arc) contains(pt Point) bool {
	dx, dy := pt.X-a.CX, pt.Y-a.CY
	r := math.Hypot(dx, dy)
	if r < a.InnerRadius || r > a.OuterRadius {
		return false
	}
	sweep := a.EndAngle - a.StartAngle
	if math.Abs(sweep) >= 2*math.Pi {
		return true
	}
	// polar() puts angle 0 at twelve o'clock, clockwise.
	angle := math.Atan2(dx, -dy)
	lo, hi := a.StartAngle, a.EndAngle
	if lo > hi {
		lo, hi = hi, lo
	}
	angle = lo + math.Mod(math.Mod(angle-lo, 2*math.Pi)+2*math.Pi, 2*math.Pi)
	return angle <= hi
}

func polygonContains(poly []Point, pt Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
