package dataset

import (
	"math"

	"github.com/matzehuels/geomkit/pkg/datum"
	"github.com/matzehuels/geomkit/pkg/hierarchy"
	"github.com/matzehuels/geomkit/pkg/layout/flow"
	"github.com/matzehuels/geomkit/pkg/layout/hexbin"
	"github.com/matzehuels/geomkit/pkg/layout/label"
)

// sizeField is consulted when the value field is absent.
const sizeField = "size"

// WrapFlat places records as leaves under a synthetic root named Root.
//
// A leaf's name comes from the name field, then the label field, then
// "Item <value>". Its value comes from the value field, then "size", and is
// 1 when neither holds a number.
func WrapFlat(records []datum.Point, f Fields) *hierarchy.Node {
	f = f.WithDefaults()
	root := &hierarchy.Node{Name: RootName}
	for _, r := range records {
		v := flatValue(r, f.Value)
		name := r.Text(f.Name)
		if name == "" {
			name = r.Text(f.Label)
		}
		if name == "" {
			name = "Item " + label.Number(v)
		}
		root.Children = append(root.Children, &hierarchy.Node{Name: name, Value: v})
	}
	return root
}

func flatValue(r datum.Point, field string) float64 {
	for _, fld := range []string{field, sizeField} {
		if v, ok := r.Get(fld); ok {
			if f, ok := v.Float(); ok && finite(f) {
				return f
			}
		}
	}
	return 1
}

// HierarchyFromRecords nests records by the categorical fields in path and
// sums valueField at the leaves. Groups keep first-seen order.
func HierarchyFromRecords(records []datum.Point, path []string, valueField string) *hierarchy.Node {
	root := &hierarchy.Node{Name: RootName}
	index := map[*hierarchy.Node]map[string]*hierarchy.Node{}
	for _, r := range records {
		n := root
		for _, field := range path {
			name := r.Text(field)
			children := index[n]
			if children == nil {
				children = map[string]*hierarchy.Node{}
				index[n] = children
			}
			c, ok := children[name]
			if !ok {
				c = &hierarchy.Node{Name: name}
				children[name] = c
				n.Children = append(n.Children, c)
			}
			n = c
		}
		if n != root {
			n.Value += r.Number(valueField)
		}
	}
	return root
}

// Points converts records to hexbin input using the x, y, value and label
// roles. Missing coordinates read as 0.
func Points(records []datum.Point, f Fields) []hexbin.Point {
	f = f.WithDefaults()
	out := make([]hexbin.Point, len(records))
	for i, r := range records {
		out[i] = hexbin.Point{
			X:     number(r, f.X),
			Y:     number(r, f.Y),
			Value: r.Number(f.Value),
			Label: r.Text(f.Label),
		}
	}
	return out
}

// number keeps NaN for a present but non-numeric field so the layout can
// skip the point; a missing field reads as 0.
func number(r datum.Point, field string) float64 {
	v, ok := r.Get(field)
	if !ok || v.IsNull() {
		return 0
	}
	f, ok := v.Float()
	if !ok {
		return math.NaN()
	}
	return f
}

// FlowRecords converts records to flow input. Every stage field is read as
// a category.
func FlowRecords(records []datum.Point, stages []string, valueField string) []flow.Record {
	out := make([]flow.Record, len(records))
	for i, r := range records {
		cats := make(map[string]string, len(stages))
		for _, s := range stages {
			if r.Has(s) {
				cats[s] = r.Text(s)
			}
		}
		out[i] = flow.Record{Categories: cats, Value: r.Number(valueField)}
	}
	return out
}

// InferStages returns every field except valueField in first-seen order
// across records.
func InferStages(records []datum.Point, valueField string) []string {
	var out []string
	seen := map[string]bool{valueField: true}
	for _, r := range records {
		for _, f := range r.Fields() {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// Values extracts the finite numeric readings of field.
func Values(records []datum.Point, field string) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		v, ok := r.Get(field)
		if !ok {
			continue
		}
		if f, ok := v.Float(); ok && finite(f) {
			out = append(out, f)
		}
	}
	return out
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
