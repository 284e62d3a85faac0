package hexbin

import (
	"math"

	"github.com/matzehuels/geomkit/pkg/geometry"
)

var sqrt3 = math.Sqrt(3)

// Grid maps between plot coordinates and axial hexagon coordinates.
type Grid struct {
	Radius      float64
	Orientation geometry.Orientation
}

// Axial identifies a cell.
type Axial struct{ Q, R int }

// maxAxial bounds the axial coordinates a cell may have. Beyond 2^53 a
// float64 no longer tells neighbouring cells apart.
const maxAxial = 1 << 53

// Locate returns the cell containing (x, y). The result is undefined when
// the point lies outside the addressable grid; see Addressable.
func (g Grid) Locate(x, y float64) Axial {
	return cubeRound(g.fractional(x, y))
}

// Addressable reports whether (x, y) falls within the range of cells an
// Axial can name.
func (g Grid) Addressable(x, y float64) bool {
	q, r := g.fractional(x, y)
	return math.Abs(q) < maxAxial && math.Abs(r) < maxAxial && math.Abs(q+r) < maxAxial
}

func (g Grid) fractional(x, y float64) (q, r float64) {
	if g.Orientation == geometry.Flat {
		return (2.0 / 3 * x) / g.Radius, (-1.0/3*x + sqrt3/3*y) / g.Radius
	}
	return (sqrt3/3*x - 1.0/3*y) / g.Radius, (2.0 / 3 * y) / g.Radius
}

// Center returns the plot position of a cell's center.
func (g Grid) Center(a Axial) geometry.Point {
	q, r := float64(a.Q), float64(a.R)
	if g.Orientation == geometry.Flat {
		return geometry.Point{X: g.Radius * 1.5 * q, Y: g.Radius * sqrt3 * (r + q/2)}
	}
	return geometry.Point{X: g.Radius * sqrt3 * (q + r/2), Y: g.Radius * 1.5 * r}
}

// Hexagon returns the outline of a cell.
func (g Grid) Hexagon(a Axial) geometry.Hexagon {
	c := g.Center(a)
	return geometry.Hexagon{CX: c.X, CY: c.Y, Radius: g.Radius, Orientation: g.Orientation}
}

// cubeRound rounds fractional axial coordinates to the nearest cell.
func cubeRound(q, r float64) Axial {
	s := -q - r
	rq, rr, rs := math.Round(q), math.Round(r), math.Round(s)
	dq, dr, ds := math.Abs(rq-q), math.Abs(rr-r), math.Abs(rs-s)
	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	}
	return Axial{Q: int(rq), R: int(rr)}
}

// Centers enumerates the cells whose centers cover the extent, row by row
// for pointy grids and column by column for flat ones.
func (g Grid) Centers(extent geometry.Size) []Axial {
	if extent.Empty() || !(g.Radius > 0) {
		return nil
	}
	var out []Axial
	if g.Orientation == geometry.Flat {
		dx, dy := g.Radius*1.5, g.Radius*sqrt3
		for col := 0; float64(col)*dx < extent.Width+g.Radius; col++ {
			for row := 0; ; row++ {
				y := float64(row)*dy + float64(col&1)*dy/2
				if y >= extent.Height+dy/2 {
					break
				}
				out = append(out, Axial{Q: col, R: row - col/2})
			}
		}
		return out
	}
	dx, dy := g.Radius*sqrt3, g.Radius*1.5
	for row := 0; float64(row)*dy < extent.Height+g.Radius; row++ {
		for col := 0; ; col++ {
			x := float64(col)*dx + float64(row&1)*dx/2
			if x >= extent.Width+dx/2 {
				break
			}
			out = append(out, Axial{Q: col - row/2, R: row})
		}
	}
	return out
}
