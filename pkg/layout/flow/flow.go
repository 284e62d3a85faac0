package flow

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/layout/label"
	"github.com/matzehuels/geomkit/pkg/layout/legend"
	"github.com/matzehuels/geomkit/pkg/scale"
)

// Chart is the chart tag used in scenes.
const Chart = "flow"

// DefaultPadding is the outer padding of the stage point scale.
const DefaultPadding = 0.3

// bottomWithoutAxis keeps room for the legend when the stage axis is off.
const bottomWithoutAxis = 20.0

const textSize = 11.0

// Record is one observation: a category per stage field and a value.
type Record struct {
	Categories map[string]string `json:"categories"`
	Value      float64           `json:"value"`
}

// Category returns the record's category for field, or "" when missing.
func (r Record) Category(field string) string { return r.Categories[field] }

func (r Record) value() float64 {
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) || r.Value < 0 {
		return 0
	}
	return r.Value
}

// Options configures a flow chart.
type Options struct {
	Stages     []string
	Padding    float64
	Margin     geometry.Margin
	Palette    []string
	ShowAxisX  bool // stage names under each column
	ShowAxisY  bool // reserve the left margin
	ShowLegend bool
	ShowLabels bool // category names beside spans
	TextColor  string
}

// DefaultOptions returns the documented defaults for the given stages.
func DefaultOptions(stages ...string) Options {
	return Options{
		Stages:     stages,
		Padding:    DefaultPadding,
		Margin:     geometry.DefaultMargin(),
		Palette:    scale.Tableau10(),
		ShowAxisX:  true,
		ShowAxisY:  true,
		ShowLegend: true,
		ShowLabels: true,
		TextColor:  "#333",
	}
}

// Span is one category's slot within a stage, in plot coordinates.
type Span struct {
	Category string
	Value    float64
	Y0, Y1   float64
}

// Stage is one column.
type Stage struct {
	Name  string
	X     float64 // plot coordinates
	Total float64
	Spans []Span
	index map[string]int
}

// Span returns the span for category.
func (s Stage) Span(category string) (Span, bool) {
	i, ok := s.index[category]
	if !ok {
		return Span{}, false
	}
	return s.Spans[i], true
}

// Ribbon connects a source span in stage Stage to a target span in the next.
type Ribbon struct {
	Stage              int
	Source, Target     string
	Value              float64
	SourceY0, SourceY1 float64
	TargetY0, TargetY1 float64
	Color              string
}

// Layout is a computed flow chart. Stage and ribbon coordinates are relative
// to Origin, the top-left corner of the plotting area.
type Layout struct {
	Size    geometry.Size
	Options Options
	Origin  geometry.Point
	Inner   geometry.Size
	Step    float64 // distance between adjacent stages
	Stages  []Stage
	Ribbons []Ribbon
	Color   *scale.Ordinal
	Legend  []string
}

// margins returns the margin after applying the axis toggles.
func (o Options) margins() geometry.Margin {
	m := o.Margin
	if !o.ShowAxisY {
		m.Left = 0
	}
	if !o.ShowAxisX {
		m.Bottom = bottomWithoutAxis
	}
	return m
}

// Compute lays out records across opts.Stages within extent.
func Compute(records []Record, extent geometry.Size, opts Options) Layout {
	if extent.Width < 0 || extent.Height < 0 {
		panic(fmt.Sprintf("flow: negative extent %vx%v", extent.Width, extent.Height))
	}
	l := Layout{Size: extent, Options: opts}
	m := opts.margins()
	inner := extent.Inner(m)
	if extent.Empty() || inner.Empty() || len(records) == 0 || len(opts.Stages) == 0 {
		return l
	}
	l.Origin = geometry.Point{X: m.Left, Y: m.Top}
	l.Inner = inner

	x := scale.NewPoint(opts.Stages, 0, inner.Width, opts.Padding)
	l.Step = x.Step()

	var domain []string
	for i, name := range opts.Stages {
		st := rollupStage(records, name, inner.Height)
		st.X, _ = x.Map(name)
		l.Stages = append(l.Stages, st)
		cats := categories(records, name)
		if i == 0 {
			l.Legend = cats
		}
		domain = append(domain, cats...)
	}
	l.Color = scale.NewOrdinal(domain, opts.Palette)

	for i := 0; i+1 < len(l.Stages); i++ {
		l.Ribbons = append(l.Ribbons, l.link(records, i, inner.Height)...)
	}
	return l
}

// rollupStage sums values per category and stacks the sorted spans.
func rollupStage(records []Record, field string, height float64) Stage {
	st := Stage{Name: field, index: map[string]int{}}
	for _, r := range records {
		c := r.Category(field)
		i, ok := st.index[c]
		if !ok {
			i = len(st.Spans)
			st.index[c] = i
			st.Spans = append(st.Spans, Span{Category: c})
		}
		st.Spans[i].Value += r.value()
		st.Total += r.value()
	}
	sortSpans(st.Spans)

	y := 0.0
	for i := range st.Spans {
		h := 0.0
		if st.Total > 0 {
			h = st.Spans[i].Value / st.Total * height
		}
		st.Spans[i].Y0, st.Spans[i].Y1 = y, y+h
		st.index[st.Spans[i].Category] = i
		y += h
	}
	return st
}

// categories returns field's categories in first-seen order.
func categories(records []Record, field string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range records {
		c := r.Category(field)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

type pair struct{ source, target string }

// link builds the ribbons between stage i and i+1.
func (l *Layout) link(records []Record, i int, height float64) []Ribbon {
	src, dst := l.Stages[i], l.Stages[i+1]

	var sources []string
	targets := map[string][]string{}
	sums := map[pair]float64{}
	for _, r := range records {
		p := pair{r.Category(src.Name), r.Category(dst.Name)}
		if _, ok := targets[p.source]; !ok {
			sources = append(sources, p.source)
			targets[p.source] = nil
		}
		if _, ok := sums[p]; !ok {
			targets[p.source] = append(targets[p.source], p.target)
		}
		sums[p] += r.value()
	}

	srcOffset := map[string]float64{}
	dstOffset := map[string]float64{}
	var out []Ribbon
	for _, s := range sources {
		sSpan, _ := src.Span(s)
		if _, ok := srcOffset[s]; !ok {
			srcOffset[s] = sSpan.Y0
		}
		for _, t := range targets[s] {
			v := sums[pair{s, t}]
			tSpan, _ := dst.Span(t)
			if _, ok := dstOffset[t]; !ok {
				dstOffset[t] = tSpan.Y0
			}
			if !(v > 0) {
				continue
			}
			sh := v / src.Total * height
			th := v / dst.Total * height
			rb := Ribbon{
				Stage:    i,
				Source:   s,
				Target:   t,
				Value:    v,
				SourceY0: srcOffset[s],
				SourceY1: srcOffset[s] + sh,
				TargetY0: dstOffset[t],
				TargetY1: dstOffset[t] + th,
				Color:    l.Color.Map(s),
			}
			srcOffset[s] += sh
			dstOffset[t] += th
			out = append(out, rb)
		}
	}
	return out
}

// Path returns the ribbon outline in scene coordinates.
func (l Layout) Path(rb Ribbon) geometry.Path {
	ox, oy := l.Origin.X, l.Origin.Y
	x0 := ox + l.Stages[rb.Stage].X
	x1 := ox + l.Stages[rb.Stage+1].X
	c0 := x0 + l.Step/2
	c1 := x1 - l.Step/2

	var p geometry.Path
	p.MoveTo(x0, oy+rb.SourceY0)
	p.CurveTo(c0, oy+rb.SourceY0, c1, oy+rb.TargetY0, x1, oy+rb.TargetY0)
	p.LineTo(x1, oy+rb.TargetY1)
	p.CurveTo(c1, oy+rb.TargetY1, c0, oy+rb.SourceY1, x0, oy+rb.SourceY1)
	p.Close()
	return p
}

// Scene renders the layout into drawable primitives.
func (l Layout) Scene() *geometry.Scene {
	sc := geometry.NewScene(Chart, l.Size)
	if len(l.Stages) == 0 {
		return sc
	}
	for _, rb := range l.Ribbons {
		si := l.Stages[rb.Stage].index[rb.Source]
		ti := l.Stages[rb.Stage+1].index[rb.Target]
		name := rb.Source + " → " + rb.Target
		sc.Add(geometry.NewPath(fmt.Sprintf("ribbon-%d-%d-%d", rb.Stage, si, ti), l.Path(rb), rb.Color).
			WithLabel(name).
			WithTooltip(label.Tooltip(name, rb.Value)))
	}

	color := l.Options.TextColor
	if l.Options.ShowLabels {
		for i, st := range l.Stages {
			for j, sp := range st.Spans {
				if sp.Y1 <= sp.Y0 {
					continue
				}
				sc.Add(geometry.NewText(fmt.Sprintf("stage-%d-span-%d", i, j), geometry.Text{
					X:       l.Origin.X + st.X + 10,
					Y:       l.Origin.Y + (sp.Y0+sp.Y1)/2,
					Content: sp.Category,
					Size:    textSize,
				}, color).WithTooltip(label.Tooltip(st.Name+"."+sp.Category, sp.Value)))
			}
		}
	}
	if l.Options.ShowAxisX {
		for i, st := range l.Stages {
			sc.Add(geometry.NewText(fmt.Sprintf("stage-%d", i), geometry.Text{
				X:       l.Origin.X + st.X,
				Y:       l.Origin.Y + l.Inner.Height + 16,
				Content: st.Name,
				Anchor:  geometry.AnchorMiddle,
				Size:    textSize,
			}, color).WithLayer(geometry.LayerAxis))
		}
	}
	if l.Options.ShowLegend {
		opts := legend.DefaultOptions()
		opts.Spacing, opts.TextOffset = 100, 16
		sc.Add(legend.Row(l.Color, l.Legend, geometry.Point{X: l.Origin.X, Y: l.Size.Height - 25}, opts)...)
	}
	return sc
}

// sortSpans orders spans by value, largest first, keeping first-seen order
// among equal values.
func sortSpans(spans []Span) {
	slices.SortStableFunc(spans, func(a, b Span) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})
}
