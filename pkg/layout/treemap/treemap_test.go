package treemap

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/hierarchy"
)

const eps = 1e-6

func noMargin() Options {
	opts := DefaultOptions()
	opts.Margin = geometry.Margin{}
	return opts
}

func twoLeaves() *hierarchy.Item {
	return hierarchy.Prepare(&hierarchy.Node{Name: "Root", Children: []*hierarchy.Node{
		{Name: "A", Value: 30},
		{Name: "B", Value: 70},
	}})
}

func nested() *hierarchy.Item {
	return hierarchy.Prepare(&hierarchy.Node{Name: "root", Children: []*hierarchy.Node{
		{Name: "fruit", Children: []*hierarchy.Node{
			{Name: "apple", Value: 12},
			{Name: "pear", Value: 7},
			{Name: "fig", Value: 3},
		}},
		{Name: "veg", Children: []*hierarchy.Node{
			{Name: "kale", Value: 9},
			{Name: "leek", Value: 4},
			{Name: "root", Children: []*hierarchy.Node{
				{Name: "carrot", Value: 6},
				{Name: "beet", Value: 2},
			}},
		}},
		{Name: "nuts", Value: 5},
		{Name: "empty", Value: 0},
	}})
}

func cellByName(t *testing.T, l Layout, name string) Cell {
	t.Helper()
	for _, c := range l.Cells {
		if c.Item.Name == name {
			return c
		}
	}
	t.Fatalf("no cell named %q", name)
	return Cell{}
}

func TestTwoLeavesAreaRatio(t *testing.T) {
	l := Compute(twoLeaves(), geometry.Size{Width: 200, Height: 100}, noMargin())
	if len(l.Cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(l.Cells))
	}
	a := cellByName(t, l, "A").Rect.Area()
	b := cellByName(t, l, "B").Rect.Area()
	total := 196.0 * 96.0
	if math.Abs(a+b-total) > eps {
		t.Errorf("areas sum to %v, want %v", a+b, total)
	}
	if math.Abs(a/b-3.0/7.0) > eps {
		t.Errorf("area ratio = %v, want 3:7", a/b)
	}
	if math.Abs(b/total-0.7) > eps {
		t.Errorf("B covers %v of the area, want 0.7", b/total)
	}
}

func TestTilingIsExact(t *testing.T) {
	opts := noMargin()
	opts.Padding = 0
	root := nested()
	l := Compute(root, geometry.Size{Width: 640, Height: 360}, opts)

	var sum float64
	for _, c := range l.Cells {
		sum += c.Rect.Area()
		share := c.Item.Value / root.Value
		if got := c.Rect.Area() / (640 * 360); math.Abs(got-share) > eps {
			t.Errorf("%s covers %v, want %v", c.Item.Name, got, share)
		}
	}
	if math.Abs(sum-640*360) > 1e-6*640*360 {
		t.Errorf("leaf areas sum to %v, want %v", sum, 640*360)
	}
}

func TestNoOverlap(t *testing.T) {
	l := Compute(nested(), geometry.Size{Width: 500, Height: 300}, noMargin())
	for i, a := range l.Cells {
		if !contains(l.Area, a.Rect) {
			t.Errorf("%s escapes the tiled area", a.Item.Name)
		}
		for _, b := range l.Cells[i+1:] {
			if a.Rect.Overlaps(b.Rect, eps) {
				t.Errorf("%s overlaps %s", a.Item.Name, b.Item.Name)
			}
		}
	}
}

func contains(outer, inner geometry.Rect) bool {
	return inner.X >= outer.X-eps && inner.Y >= outer.Y-eps &&
		inner.Right() <= outer.Right()+eps && inner.Bottom() <= outer.Bottom()+eps
}

func TestValueConservation(t *testing.T) {
	root := nested()
	l := Compute(root, geometry.Size{Width: 500, Height: 300}, noMargin())
	var sum float64
	for _, c := range l.Cells {
		sum += c.Item.Value
	}
	if sum != root.Value {
		t.Errorf("cell values sum to %v, want %v", sum, root.Value)
	}
}

func TestZeroValuedLeavesAreSkipped(t *testing.T) {
	l := Compute(nested(), geometry.Size{Width: 500, Height: 300}, noMargin())
	for _, c := range l.Cells {
		if c.Item.Name == "empty" {
			t.Error("zero-valued leaf produced a cell")
		}
	}
	if len(l.Cells) != 8 {
		t.Errorf("got %d cells, want 8", len(l.Cells))
	}
}

func TestEmptyInputs(t *testing.T) {
	zeroSum := hierarchy.Prepare(&hierarchy.Node{Name: "r", Children: []*hierarchy.Node{{Name: "a"}}})
	tests := []struct {
		name   string
		root   *hierarchy.Item
		extent geometry.Size
		opts   Options
	}{
		{"zero width", twoLeaves(), geometry.Size{Height: 100}, noMargin()},
		{"zero height", twoLeaves(), geometry.Size{Width: 100}, noMargin()},
		{"margin eats extent", twoLeaves(), geometry.Size{Width: 80, Height: 90}, DefaultOptions()},
		{"zero sum", zeroSum, geometry.Size{Width: 100, Height: 100}, noMargin()},
		{"nil root", nil, geometry.Size{Width: 100, Height: 100}, noMargin()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Compute(tt.root, tt.extent, tt.opts)
			if len(l.Cells) != 0 || !l.Scene().Empty() {
				t.Errorf("expected empty layout, got %d cells", len(l.Cells))
			}
		})
	}
}

func TestNegativeExtentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Compute(twoLeaves(), geometry.Size{Width: -1, Height: 10}, noMargin())
}

func TestColorsFollowBranch(t *testing.T) {
	l := Compute(nested(), geometry.Size{Width: 500, Height: 300}, noMargin())
	fruit := l.Color.Map("fruit")
	veg := l.Color.Map("veg")
	if fruit == veg {
		t.Fatal("branches should have distinct colors")
	}
	if got := cellByName(t, l, "apple").Color; got != fruit {
		t.Errorf("apple = %s, want %s", got, fruit)
	}
	if got := cellByName(t, l, "carrot").Color; got != veg {
		t.Errorf("carrot = %s, want %s", got, veg)
	}
	if got := l.Color.Domain(); !reflect.DeepEqual(got, []string{"fruit", "veg", "nuts", "empty"}) {
		t.Errorf("color domain = %v", got)
	}
}

func TestRound(t *testing.T) {
	opts := noMargin()
	opts.Round = true
	l := Compute(nested(), geometry.Size{Width: 333, Height: 211}, opts)
	for _, c := range l.Cells {
		r := c.Rect
		for _, v := range []float64{r.X, r.Y, r.W, r.H} {
			if v != math.Round(v) {
				t.Errorf("%s has fractional coordinate %v", c.Item.Name, v)
			}
		}
	}
}

func TestSceneContents(t *testing.T) {
	l := Compute(twoLeaves(), geometry.Size{Width: 400, Height: 300}, noMargin())
	sc := l.Scene()

	b, ok := sc.Find("node-1")
	if !ok {
		t.Fatal("missing cell for B")
	}
	if b.Tooltip != "Root.B\n70" {
		t.Errorf("tooltip = %q", b.Tooltip)
	}
	name, ok := sc.Find("node-1-name")
	if !ok || name.Text.Content != "B" || name.Text.Clip == nil {
		t.Errorf("name label = %+v", name)
	}
	if got := len(sc.Layer(geometry.LayerLegend)); got != 4 {
		t.Errorf("legend has %d primitives, want 4", got)
	}

	opts := noMargin()
	opts.ShowLabels = false
	opts.ShowLegend = false
	if got := Compute(twoLeaves(), geometry.Size{Width: 400, Height: 300}, opts).Scene().Len(); got != 2 {
		t.Errorf("bare scene has %d primitives, want 2", got)
	}
}

func TestIdempotent(t *testing.T) {
	extent := geometry.Size{Width: 640, Height: 480}
	a := Compute(nested(), extent, DefaultOptions()).Scene()
	b := Compute(nested(), extent, DefaultOptions()).Scene()
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs produced different scenes")
	}
}
