// Package histogram bins numeric values into bars.
//
// The value extent is niced for [Options.BinCountHint] ticks and the ticks
// strictly inside it become bin thresholds. Bins are half-open [x0, x1)
// except the last, which also holds the upper bound. A single distinct
// value produces one bin spanning the plot.
package histogram

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/layout/axis"
	"github.com/matzehuels/geomkit/pkg/layout/label"
	"github.com/matzehuels/geomkit/pkg/scale"
)

// Chart is the chart tag used in scenes.
const Chart = "histogram"

// DefaultBinCountHint is the default approximate number of bins.
const DefaultBinCountHint = 40

// Options configures a histogram.
type Options struct {
	BinCountHint int
	Margin       geometry.Margin
	Fill         string
	ShowAxisX    bool
	ShowAxisY    bool
	ShowLegend   bool // summary statistics under the plot
	TextColor    string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		BinCountHint: DefaultBinCountHint,
		Margin:       geometry.DefaultMargin(),
		Fill:         scale.Tableau10()[0],
		ShowAxisX:    true,
		ShowAxisY:    true,
		ShowLegend:   true,
		TextColor:    "#666",
	}
}

// Bin is one bar.
type Bin struct {
	X0, X1 float64
	Count  int
}

// Stats summarizes the binned values.
type Stats struct {
	Count        int
	Mean, Median float64
	Min, Max     float64
}

// Layout is a computed histogram. Bar rects are in scene coordinates.
type Layout struct {
	Size    geometry.Size
	Options Options
	Origin  geometry.Point
	Inner   geometry.Size
	Bins    []Bin
	Bars    []geometry.Rect
	Stats   Stats
	X, Y    scale.Linear
}

// Compute bins values within extent. Non-finite values are ignored.
func Compute(values []float64, extent geometry.Size, opts Options) Layout {
	if extent.Width < 0 || extent.Height < 0 {
		panic(fmt.Sprintf("histogram: negative extent %vx%v", extent.Width, extent.Height))
	}
	if opts.BinCountHint <= 0 {
		opts.BinCountHint = DefaultBinCountHint
	}
	l := Layout{Size: extent, Options: opts}
	inner := extent.Inner(opts.Margin)
	vals := finiteSorted(values)
	if extent.Empty() || inner.Empty() || len(vals) == 0 {
		return l
	}
	l.Origin = geometry.Point{X: opts.Margin.Left, Y: opts.Margin.Top}
	l.Inner = inner
	l.Stats = summarize(vals)

	lo, hi := vals[0], vals[len(vals)-1]
	if lo == hi {
		l.Bins = []Bin{{X0: lo, X1: hi, Count: len(vals)}}
		l.X = scale.NewLinear(lo-0.5, hi+0.5, 0, inner.Width)
	} else {
		l.X = scale.NewLinear(lo, hi, 0, inner.Width).Nice(opts.BinCountHint)
		l.Bins = bin(vals, l.X.Domain[0], l.X.Domain[1], opts.BinCountHint)
	}

	maxCount := 0
	for _, b := range l.Bins {
		maxCount = max(maxCount, b.Count)
	}
	l.Y = scale.NewLinear(0, float64(maxCount), inner.Height, 0).Nice(scale.DefaultTickCount)

	for _, b := range l.Bins {
		x0, x1 := l.X.Map(b.X0), l.X.Map(b.X1)
		if lo == hi {
			x0, x1 = 0, inner.Width
		}
		y := l.Y.Map(float64(b.Count))
		l.Bars = append(l.Bars, geometry.Rect{
			X: l.Origin.X + x0 + 1,
			Y: l.Origin.Y + y,
			W: math.Max(0, x1-x0-1),
			H: inner.Height - y,
		})
	}
	return l
}

// bin splits sorted values at the ticks strictly inside [lo, hi].
func bin(sorted []float64, lo, hi float64, count int) []Bin {
	var thresholds []float64
	for _, t := range scale.Ticks(lo, hi, count) {
		if t > lo && t < hi {
			thresholds = append(thresholds, t)
		}
	}
	edges := append(append([]float64{lo}, thresholds...), hi)
	bins := make([]Bin, len(edges)-1)
	for i := range bins {
		bins[i] = Bin{X0: edges[i], X1: edges[i+1]}
	}
	for _, v := range sorted {
		i := sort.Search(len(thresholds), func(i int) bool { return thresholds[i] > v })
		bins[i].Count++
	}
	return bins
}

func finiteSorted(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func summarize(sorted []float64) Stats {
	n := len(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return Stats{Count: n, Mean: sum / float64(n), Median: median, Min: sorted[0], Max: sorted[n-1]}
}

// String renders the statistics line shown under the plot.
func (s Stats) String() string {
	return fmt.Sprintf("Count: %d | Mean: %s | Median: %s | Range: %s-%s",
		s.Count, label.Decimal(s.Mean, 1), label.Decimal(s.Median, 1), label.Decimal(s.Min, 1), label.Decimal(s.Max, 1))
}

// Scene renders the layout into drawable primitives.
func (l Layout) Scene() *geometry.Scene {
	sc := geometry.NewScene(Chart, l.Size)
	if len(l.Bins) == 0 {
		return sc
	}
	for i, b := range l.Bins {
		closing := ")"
		if i == len(l.Bins)-1 {
			closing = "]"
		}
		tip := fmt.Sprintf("[%s, %s%s\n%d", label.Number(b.X0), label.Number(b.X1), closing, b.Count)
		sc.Add(geometry.NewRect(fmt.Sprintf("bin-%d", i), l.Bars[i], l.Options.Fill).WithTooltip(tip))
	}
	if l.Options.ShowAxisX {
		count := max(1, int(l.Inner.Width/80))
		sc.Add(axis.Bottom(l.X, geometry.Point{X: l.Origin.X, Y: l.Origin.Y + l.Inner.Height}, axis.Options{Count: count, Domain: true, FontSize: 12})...)
	}
	if l.Options.ShowAxisY {
		count := max(1, int(l.Inner.Height/40))
		sc.Add(axis.Left(l.Y, l.Origin, axis.Options{Count: count, FontSize: 12})...)
	}
	if l.Options.ShowLegend {
		sc.Add(geometry.NewText("stats", geometry.Text{
			X:       l.Origin.X,
			Y:       l.Origin.Y + l.Inner.Height + 40,
			Content: l.Stats.String(),
			Size:    10,
		}, l.Options.TextColor).WithLayer(geometry.LayerLegend))
	}
	return sc
}
