package treemap

import (
	"math"

	"github.com/matzehuels/geomkit/pkg/hierarchy"
)

// Phi is the golden ratio, the default target aspect ratio.
var Phi = (1 + math.Sqrt(5)) / 2

type bounds struct{ x0, y0, x1, y1 float64 }

// squarify positions the children of parent inside b. It returns one
// bounds per child, in child order.
func squarify(ratio float64, parent *hierarchy.Item, b bounds) []bounds {
	nodes := parent.Children
	out := make([]bounds, len(nodes))
	value := parent.Value
	n := len(nodes)
	x0, y0, x1, y1 := b.x0, b.y0, b.x1, b.y1

	for i0, i1 := 0, 0; i0 < n; {
		dx, dy := x1-x0, y1-y0

		// Skip leading empty nodes.
		var sum float64
		for {
			sum = nodes[i1].Value
			i1++
			if sum != 0 || i1 >= n {
				break
			}
		}
		minV, maxV := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (value * ratio)
		beta := sum * sum * alpha
		minRatio := math.Max(maxV/beta, beta/minV)

		for ; i1 < n; i1++ {
			v := nodes[i1].Value
			sum += v
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
			beta = sum * sum * alpha
			next := math.Max(maxV/beta, beta/minV)
			if next > minRatio {
				sum -= v
				break
			}
			minRatio = next
		}

		row := nodes[i0:i1]
		if dx < dy {
			ry0, ry1 := y0, y1
			if value > 0 {
				y0 += dy * sum / value
				ry1 = y0
			}
			dice(row, out[i0:i1], sum, bounds{x0, ry0, x1, ry1})
		} else {
			rx0, rx1 := x0, x1
			if value > 0 {
				x0 += dx * sum / value
				rx1 = x0
			}
			slice(row, out[i0:i1], sum, bounds{rx0, y0, rx1, y1})
		}
		value -= sum
		i0 = i1
	}
	return out
}

// dice lays nodes left to right across b.
func dice(nodes []*hierarchy.Item, out []bounds, total float64, b bounds) {
	k := 0.0
	if total > 0 {
		k = (b.x1 - b.x0) / total
	}
	x := b.x0
	for i, n := range nodes {
		out[i] = bounds{x, b.y0, x + n.Value*k, b.y1}
		x = out[i].x1
	}
}

// slice lays nodes top to bottom down b.
func slice(nodes []*hierarchy.Item, out []bounds, total float64, b bounds) {
	k := 0.0
	if total > 0 {
		k = (b.y1 - b.y0) / total
	}
	y := b.y0
	for i, n := range nodes {
		out[i] = bounds{b.x0, y, b.x1, y + n.Value*k}
		y = out[i].y1
	}
}
