package histogram

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/geomkit/pkg/geometry"
)

func bare(hint int) Options {
	opts := DefaultOptions()
	opts.BinCountHint = hint
	opts.Margin = geometry.Margin{}
	return opts
}

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestBins(t *testing.T) {
	l := Compute(seq(100), geometry.Size{Width: 500, Height: 300}, bare(10))
	if len(l.Bins) != 10 {
		t.Fatalf("got %d bins, want 10", len(l.Bins))
	}
	total := 0
	for i, b := range l.Bins {
		if b.Count != 10 {
			t.Errorf("bin %d [%v,%v) has %d values, want 10", i, b.X0, b.X1, b.Count)
		}
		if b.X1-b.X0 != 10 {
			t.Errorf("bin %d has width %v", i, b.X1-b.X0)
		}
		total += b.Count
	}
	if total != 100 {
		t.Errorf("bins hold %d values, want 100", total)
	}
	if l.Bins[0].X0 != 0 || l.Bins[9].X1 != 100 {
		t.Errorf("domain = [%v,%v], want [0,100]", l.Bins[0].X0, l.Bins[9].X1)
	}
}

func TestUpperBoundIsClosed(t *testing.T) {
	l := Compute([]float64{0, 5, 10}, geometry.Size{Width: 100, Height: 100}, bare(2))
	last := l.Bins[len(l.Bins)-1]
	if last.X1 != 10 || last.Count != 2 {
		t.Errorf("last bin = %+v, want 5 and 10 inside it", last)
	}
}

func TestBars(t *testing.T) {
	l := Compute(seq(100), geometry.Size{Width: 500, Height: 300}, bare(10))
	want := geometry.Rect{X: 1, Y: 0, W: 49, H: 300}
	if got := l.Bars[0]; math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.W-want.W) > 1e-9 || got.Y != want.Y || got.H != want.H {
		t.Errorf("first bar = %+v, want %+v", got, want)
	}
}

func TestSingleValue(t *testing.T) {
	l := Compute([]float64{5, 5, 5}, geometry.Size{Width: 200, Height: 100}, bare(40))
	if len(l.Bins) != 1 || l.Bins[0].Count != 3 {
		t.Fatalf("bins = %+v, want one bin of 3", l.Bins)
	}
	if l.Bars[0].W != 199 {
		t.Errorf("bar width = %v, want 199", l.Bars[0].W)
	}
}

func TestStats(t *testing.T) {
	l := Compute([]float64{4, 1, 3, 2, math.NaN()}, geometry.Size{Width: 200, Height: 100}, bare(5))
	want := Stats{Count: 4, Mean: 2.5, Median: 2.5, Min: 1, Max: 4}
	if l.Stats != want {
		t.Errorf("stats = %+v, want %+v", l.Stats, want)
	}
	if got := want.String(); got != "Count: 4 | Mean: 2.5 | Median: 2.5 | Range: 1.0-4.0" {
		t.Errorf("String() = %q", got)
	}
}

func TestScene(t *testing.T) {
	sc := Compute(seq(100), geometry.Size{Width: 500, Height: 300}, bare(10)).Scene()
	first, ok := sc.Find("bin-0")
	if !ok || first.Tooltip != "[0, 10)\n10" {
		t.Errorf("bin-0 = %+v", first)
	}
	last, ok := sc.Find("bin-9")
	if !ok || last.Tooltip != "[90, 100]\n10" {
		t.Errorf("bin-9 = %+v", last)
	}
	if _, ok := sc.Find("stats"); !ok {
		t.Error("missing stats line")
	}
	if len(sc.Layer(geometry.LayerAxis)) == 0 {
		t.Error("missing axes")
	}
}

func TestEmpty(t *testing.T) {
	for name, l := range map[string]Layout{
		"no values":    Compute(nil, geometry.Size{Width: 100, Height: 100}, bare(10)),
		"only NaN":     Compute([]float64{math.NaN()}, geometry.Size{Width: 100, Height: 100}, bare(10)),
		"zero width":   Compute(seq(10), geometry.Size{Height: 100}, bare(10)),
		"margin eaten": Compute(seq(10), geometry.Size{Width: 50, Height: 50}, DefaultOptions()),
	} {
		if !l.Scene().Empty() {
			t.Errorf("%s: expected empty scene", name)
		}
	}
}

func TestIdempotent(t *testing.T) {
	values := []float64{3.2, 1.1, 7.5, 7.4, 2.2, 9.9, 0.3}
	extent := geometry.Size{Width: 400, Height: 300}
	if !reflect.DeepEqual(Compute(values, extent, DefaultOptions()).Scene(), Compute(values, extent, DefaultOptions()).Scene()) {
		t.Error("two runs differ")
	}
}
