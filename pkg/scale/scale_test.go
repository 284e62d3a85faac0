package scale

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/geomkit/pkg/datum"
	"github.com/matzehuels/geomkit/pkg/geometry"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTicks(t *testing.T) {
	tests := []struct {
		name        string
		start, stop float64
		count       int
		want        []float64
	}{
		{"unit decimals", 0, 1, 5, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{"tens", 0, 100, 10, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
		{"reversed", 10, 0, 5, []float64{10, 8, 6, 4, 2, 0}},
		{"single value", 1, 1, 5, []float64{1}},
		{"zero count", 0, 10, 0, nil},
		{"non-finite", 0, math.Inf(1), 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ticks(tt.start, tt.stop, tt.count)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Ticks(%v, %v, %d) = %v, want %v", tt.start, tt.stop, tt.count, got, tt.want)
			}
		})
	}
}

func TestTickIncrement(t *testing.T) {
	if got := TickIncrement(0, 100, 10); got != 10 {
		t.Errorf("TickIncrement(0, 100, 10) = %v, want 10", got)
	}
	if got := TickIncrement(0, 1, 10); got != -10 {
		t.Errorf("TickIncrement(0, 1, 10) = %v, want -10 (1/10 steps)", got)
	}
	if got := TickIncrement(3, 3, 10); got != 0 {
		t.Errorf("TickIncrement on empty span = %v, want 0", got)
	}
	if got := TickStep(1, 0, 10); got != 0.1 {
		t.Errorf("TickStep(1, 0, 10) = %v, want 0.1", got)
	}
}

func TestLinearNice(t *testing.T) {
	tests := []struct {
		name   string
		d0, d1 float64
		want   [2]float64
	}{
		{"0-97", 0, 97, [2]float64{0, 100}},
		{"fractional", 0.5, 9.7, [2]float64{0, 10}},
		{"sub-unit", 0, 0.97, [2]float64{0, 1}},
		{"already nice", 0, 50, [2]float64{0, 50}},
		{"zero range", 0, 0, [2]float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLinear(tt.d0, tt.d1, 0, 1).Nice(10).Domain
			if got != tt.want {
				t.Errorf("Nice() domain = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinearMapInvert(t *testing.T) {
	s := NewLinear(0, 100, 0, 500)
	if got := s.Map(20); got != 100 {
		t.Errorf("Map(20) = %v, want 100", got)
	}
	if got := s.Invert(100); got != 20 {
		t.Errorf("Invert(100) = %v, want 20", got)
	}

	inverted := NewLinear(0, 100, 300, 0)
	if got := inverted.Map(25); got != 225 {
		t.Errorf("inverted Map(25) = %v, want 225", got)
	}

	clamped := NewLinear(0, 10, 0, 100)
	clamped.Clamp = true
	if got := clamped.Map(20); got != 100 {
		t.Errorf("clamped Map(20) = %v, want 100", got)
	}
}

func TestLinearZeroRangeDomain(t *testing.T) {
	s := NewLinear(5, 5, 40, 100)
	for _, v := range []float64{0, 5, 10} {
		if got := s.Map(v); got != 40 {
			t.Errorf("Map(%v) = %v, want range start 40", v, got)
		}
	}
	if got := s.Map(math.NaN()); got != 40 {
		t.Errorf("Map(NaN) = %v, want 40", got)
	}
}

func TestBand(t *testing.T) {
	b := NewBand([]string{"a", "b", "c", "a"}, 0, 300)
	if got := b.Domain(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("Domain() = %v", got)
	}
	if b.Step() != 100 || b.Bandwidth() != 100 {
		t.Errorf("step=%v bandwidth=%v, want 100/100", b.Step(), b.Bandwidth())
	}
	for i, k := range []string{"a", "b", "c"} {
		if got, _ := b.Map(k); got != float64(i)*100 {
			t.Errorf("Map(%q) = %v", k, got)
		}
	}
	if _, ok := b.Map("zzz"); ok {
		t.Error("unknown key should not map")
	}
}

func TestBandPadding(t *testing.T) {
	b := NewBand([]string{"a", "b", "c"}, 0, 300, WithPadding(0.1))
	step := 300 / 3.1
	if !approx(b.Step(), step) {
		t.Errorf("Step() = %v, want %v", b.Step(), step)
	}
	if !approx(b.Bandwidth(), step*0.9) {
		t.Errorf("Bandwidth() = %v, want %v", b.Bandwidth(), step*0.9)
	}
	if got, _ := b.Map("a"); !approx(got, step*0.1) {
		t.Errorf("Map(a) = %v, want outer padding %v", got, step*0.1)
	}
	last, _ := b.Map("c")
	if !approx(last+b.Bandwidth()+step*0.1, 300) {
		t.Errorf("bands should end one outer padding before the range end, last=%v", last)
	}
}

func TestBandReversedRange(t *testing.T) {
	b := NewBand([]string{"a", "b"}, 100, 0)
	a, _ := b.Map("a")
	bb, _ := b.Map("b")
	if a != 50 || bb != 0 {
		t.Errorf("reversed range offsets a=%v b=%v, want 50/0", a, bb)
	}
}

func TestPoint(t *testing.T) {
	p := NewPoint([]string{"from", "to"}, 0, 100, 0.3)
	if p.Bandwidth() != 0 {
		t.Errorf("point scale bandwidth = %v, want 0", p.Bandwidth())
	}
	if !approx(p.Step(), 62.5) {
		t.Errorf("Step() = %v, want 62.5", p.Step())
	}
	from, _ := p.Map("from")
	to, _ := p.Map("to")
	if !approx(from, 18.75) || !approx(to, 81.25) {
		t.Errorf("positions = %v, %v; want 18.75, 81.25", from, to)
	}
}

func TestOrdinalCycles(t *testing.T) {
	o := NewOrdinal([]string{"a", "b", "c"}, []string{"#f00", "#00f"})
	tests := map[string]string{"a": "#f00", "b": "#00f", "c": "#f00", "nope": NeutralColor}
	for k, want := range tests {
		if got := o.Map(k); got != want {
			t.Errorf("Map(%q) = %q, want %q", k, got, want)
		}
	}
	if got := o.At(-1); got != "#00f" {
		t.Errorf("At(-1) = %q, want #00f", got)
	}
	if got := o.WithUnknown("#000").Map("nope"); got != "#000" {
		t.Errorf("WithUnknown Map = %q", got)
	}
	if got := o.Map("nope"); got != NeutralColor {
		t.Error("WithUnknown must not modify the receiver")
	}
}

func TestOrdinalDefaultPalette(t *testing.T) {
	o := NewOrdinal([]string{"x"}, nil)
	if got := o.Map("x"); got != "#4e79a7" {
		t.Errorf("default palette first color = %q", got)
	}

	p := Tableau10()
	p[0] = "#000000"
	if Tableau10()[0] != "#4e79a7" {
		t.Error("Tableau10 must return a fresh copy")
	}
}

func point(name string, value float64) datum.Point {
	var p datum.Point
	p.Set("name", datum.String(name))
	p.Set("value", datum.Number(value))
	return p
}

func TestBuilder(t *testing.T) {
	points := []datum.Point{point("a", 30), point("b", 97), point("a", 10)}
	roles := Roles{Category: "name", Measures: []string{"value"}}
	set := Builder{Invert: true}.Build(points, roles, geometry.Size{Width: 200, Height: 100})

	if !reflect.DeepEqual(set.Keys, []string{"a", "b"}) {
		t.Errorf("Keys = %v", set.Keys)
	}
	y := set.Measure("value")
	if y.Domain != [2]float64{0, 100} {
		t.Errorf("measure domain = %v, want niced [0 100]", y.Domain)
	}
	if y.Map(100) != 0 || y.Map(0) != 100 {
		t.Errorf("inverted measure maps 100->%v, 0->%v", y.Map(100), y.Map(0))
	}
	if set.Color.Map("b") != "#f28e2c" {
		t.Errorf("color of b = %q", set.Color.Map("b"))
	}
	if got, _ := set.Category.Map("b"); got != 100 {
		t.Errorf("category offset of b = %v, want 100", got)
	}
}

func TestBuilderAllZeroMeasure(t *testing.T) {
	points := []datum.Point{point("a", 0), point("b", 0)}
	set := Builder{Invert: true}.Build(points, Roles{Category: "name", Measures: []string{"value"}}, geometry.Size{Width: 100, Height: 80})

	y := set.Measure("value")
	for _, v := range []float64{0, 10} {
		got := y.Map(v)
		if math.IsNaN(got) || got != 80 {
			t.Errorf("zero-range measure Map(%v) = %v, want baseline 80", v, got)
		}
	}
}

func TestBuilderIdempotent(t *testing.T) {
	points := []datum.Point{point("a", 3), point("b", 7)}
	roles := Roles{Category: "name", Measures: []string{"value"}}
	size := geometry.Size{Width: 320, Height: 240}
	b := Builder{Padding: 0.2}

	if !reflect.DeepEqual(b.Build(points, roles, size), b.Build(points, roles, size)) {
		t.Error("Build should be deterministic")
	}
}

func TestDescribe(t *testing.T) {
	points := []datum.Point{point("a", 30), point("b", 70)}
	set := Builder{}.Build(points, Roles{Category: "name", Measures: []string{"value"}}, geometry.Size{Width: 200, Height: 100})
	d := set.Describe(5)

	if len(d.Category.Positions) != 2 || d.Category.Positions[1].Key != "b" {
		t.Errorf("positions = %+v", d.Category.Positions)
	}
	if len(d.Colors) != 2 || d.Colors[0].Color != "#4e79a7" {
		t.Errorf("colors = %+v", d.Colors)
	}
	if len(d.Measures) != 1 || d.Measures[0].Field != "value" {
		t.Fatalf("measures = %+v", d.Measures)
	}
	ticks := d.Measures[0].Ticks
	if len(ticks) == 0 || ticks[0].Value != 0 || ticks[len(ticks)-1].Offset != 100 {
		t.Errorf("ticks = %+v", ticks)
	}
}
