package hexbin

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/matzehuels/geomkit/pkg/geometry"
)

func bare(r float64) Options {
	opts := DefaultOptions()
	opts.Radius = r
	opts.Margin = geometry.Margin{}
	return opts
}

func randomPoints(n int, w, h float64) []Point {
	rng := rand.New(rand.NewPCG(1, 2))
	out := make([]Point, n)
	for i := range out {
		out[i] = Point{X: rng.Float64() * w, Y: rng.Float64() * h, Value: float64(i)}
	}
	return out
}

func TestLocateRoundTrip(t *testing.T) {
	for _, o := range []geometry.Orientation{geometry.Pointy, geometry.Flat} {
		g := Grid{Radius: 7, Orientation: o}
		for q := -4; q <= 4; q++ {
			for r := -4; r <= 4; r++ {
				a := Axial{q, r}
				c := g.Center(a)
				if got := g.Locate(c.X, c.Y); got != a {
					t.Errorf("%s: Locate(Center(%v)) = %v", o, a, got)
				}
				// A point just inside the cell stays in it.
				if got := g.Locate(c.X+g.Radius*0.4, c.Y-g.Radius*0.3); got != a {
					t.Errorf("%s: offset point in %v located in %v", o, a, got)
				}
			}
		}
	}
}

func TestLocatePicksNearestCenter(t *testing.T) {
	for _, o := range []geometry.Orientation{geometry.Pointy, geometry.Flat} {
		g := Grid{Radius: 10, Orientation: o}
		for _, p := range randomPoints(500, 200, 200) {
			a := g.Locate(p.X, p.Y)
			c := g.Center(a)
			d := math.Hypot(p.X-c.X, p.Y-c.Y)
			if d > g.Radius+1e-9 {
				t.Errorf("%s: (%v,%v) is %v from its center", o, p.X, p.Y, d)
			}
			for _, n := range neighbours(a) {
				nc := g.Center(n)
				if math.Hypot(p.X-nc.X, p.Y-nc.Y) < d-1e-9 {
					t.Errorf("%s: neighbour %v is closer than %v", o, n, a)
				}
			}
		}
	}
}

func neighbours(a Axial) []Axial {
	return []Axial{
		{a.Q + 1, a.R}, {a.Q - 1, a.R}, {a.Q, a.R + 1},
		{a.Q, a.R - 1}, {a.Q + 1, a.R - 1}, {a.Q - 1, a.R + 1},
	}
}

func TestAssignmentTotality(t *testing.T) {
	points := randomPoints(300, 400, 300)
	points = append(points, Point{X: math.NaN(), Y: 1}, Point{X: 1, Y: math.Inf(1)})
	l := Compute(points, geometry.Size{Width: 400, Height: 300}, bare(20))

	seen := map[int]int{}
	distinct := map[Axial]bool{}
	for _, c := range l.Cells {
		if c.Count() == 0 {
			t.Errorf("cell %v is empty", c.Axial)
		}
		for _, i := range c.Points {
			seen[i]++
		}
	}
	for i, p := range points[:300] {
		if seen[i] != 1 {
			t.Errorf("point %d assigned %d times", i, seen[i])
		}
		distinct[l.Grid.Locate(p.X, p.Y)] = true
	}
	if seen[300] != 0 || seen[301] != 0 {
		t.Error("non-finite points must be skipped")
	}
	if len(l.Cells) != len(distinct) {
		t.Errorf("got %d cells, want %d distinct", len(l.Cells), len(distinct))
	}
}

func TestFarPoints(t *testing.T) {
	opts := bare(1)
	opts.ScalePoints = false
	extent := geometry.Size{Width: 10, Height: 10}

	tests := []struct {
		name   string
		points []Point
		cells  int
	}{
		{"distant but addressable", []Point{{X: 1e12}, {X: 3e12}, {X: -1e12}}, 3},
		{"beyond the grid", []Point{{X: 1e30}, {X: 3e30}, {X: -1e30}}, 0},
		{"mixed", []Point{{X: 1e30}, {X: 5, Y: 5}, {Y: -1e300}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Compute(tt.points, extent, opts)
			if len(l.Cells) != tt.cells {
				t.Fatalf("got %d cells, want %d", len(l.Cells), tt.cells)
			}
			for _, c := range l.Cells {
				if len(c.Points) != 1 {
					t.Errorf("cell %v holds points %v", c.Axial, c.Points)
				}
				p := tt.points[c.Points[0]]
				if d := math.Hypot(p.X-c.Center.X, p.Y-c.Center.Y); d > opts.Radius+1e-3 {
					t.Errorf("point %d is %v from its cell center %v", c.Points[0], d, c.Center)
				}
			}
		})
	}
}

func TestFirstPointWins(t *testing.T) {
	points := []Point{
		{X: 26, Y: 45, Value: 1, Label: "first"},
		{X: 300, Y: 200, Value: 9, Label: "other"},
		{X: 28, Y: 47, Value: 2, Label: "second"},
	}
	palette := []string{"#a", "#b"}
	opts := bare(30)
	opts.Palette = palette
	l := Compute(points, geometry.Size{Width: 400, Height: 300}, opts)
	if len(l.Cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(l.Cells))
	}
	c := l.Cells[0]
	if c.Value != 1 || c.Label != "first" || !reflect.DeepEqual(c.Points, []int{0, 2}) {
		t.Errorf("first cell = %+v", c)
	}
	if l.Cells[0].Color != "#a" || l.Cells[1].Color != "#b" {
		t.Error("cell colors follow first-assignment order")
	}
}

func TestScalePoints(t *testing.T) {
	points := []Point{{X: 0, Y: 0}, {X: 10, Y: 10}}
	opts := bare(5)
	opts.ScalePoints = true
	l := Compute(points, geometry.Size{Width: 100, Height: 100}, opts)
	if got, want := l.Cells[0].Axial, l.Grid.Locate(0, 100); got != want {
		t.Errorf("(0,0) binned into %v, want %v", got, want)
	}
	if got, want := l.Cells[1].Axial, l.Grid.Locate(100, 0); got != want {
		t.Errorf("(10,10) binned into %v, want %v", got, want)
	}
}

func TestCentersCoverExtent(t *testing.T) {
	extent := geometry.Size{Width: 120, Height: 80}
	for _, o := range []geometry.Orientation{geometry.Pointy, geometry.Flat} {
		g := Grid{Radius: 10, Orientation: o}
		centers := g.Centers(extent)
		have := map[Axial]bool{}
		for _, a := range centers {
			have[a] = true
		}
		if len(have) != len(centers) {
			t.Errorf("%s: duplicate centers", o)
		}
		for _, p := range randomPoints(400, extent.Width, extent.Height) {
			if a := g.Locate(p.X, p.Y); !have[a] {
				t.Errorf("%s: cell %v of (%v,%v) missing from mesh", o, a, p.X, p.Y)
			}
		}
	}
}

func TestEmpty(t *testing.T) {
	if l := Compute(nil, geometry.Size{Width: 10, Height: 10}, bare(5)); !l.Scene().Empty() {
		t.Error("no points should give an empty scene")
	}
	if l := Compute(randomPoints(5, 10, 10), geometry.Size{Width: 10}, bare(5)); !l.Scene().Empty() {
		t.Error("zero height should give an empty scene")
	}
}

func TestPanics(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		extent geometry.Size
	}{
		{"zero radius", 0, geometry.Size{Width: 10, Height: 10}},
		{"negative radius", -3, geometry.Size{Width: 10, Height: 10}},
		{"negative extent", 5, geometry.Size{Width: -1, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			Compute(randomPoints(3, 10, 10), tt.extent, bare(tt.radius))
		})
	}
}

func TestScene(t *testing.T) {
	opts := bare(20)
	opts.ShowMesh = true
	opts.ShowAxisX = true
	opts.ShowAxisY = true
	points := []Point{{X: 50, Y: 50, Value: 1234, Label: "north"}}
	sc := Compute(points, geometry.Size{Width: 200, Height: 100}, opts).Scene()

	if len(sc.Layer(geometry.LayerMesh)) == 0 {
		t.Error("mesh layer missing")
	}
	if len(sc.Layer(geometry.LayerAxis)) == 0 {
		t.Error("axis layer missing")
	}
	cells := sc.Layer(geometry.LayerCells)
	if len(cells) != 1 || cells[0].Tooltip != "north\n1,234" {
		t.Errorf("cells = %+v", cells)
	}
	if _, ok := sc.Find(cells[0].Key + "-label"); !ok {
		t.Error("missing label text")
	}
}

func TestIdempotent(t *testing.T) {
	points := randomPoints(100, 300, 200)
	extent := geometry.Size{Width: 300, Height: 200}
	if !reflect.DeepEqual(Compute(points, extent, DefaultOptions()).Scene(), Compute(points, extent, DefaultOptions()).Scene()) {
		t.Error("two runs differ")
	}
}
