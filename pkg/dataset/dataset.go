package dataset

import (
	"github.com/matzehuels/geomkit/pkg/datum"
	"github.com/matzehuels/geomkit/pkg/hierarchy"
)

// RootName names the synthetic root created for flat records.
const RootName = "Root"

// Fields assigns roles to record fields.
type Fields struct {
	Name  string `json:"name,omitempty"`
	Label string `json:"label,omitempty"`
	Value string `json:"value,omitempty"`
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
}

// DefaultFields returns the conventional field names.
func DefaultFields() Fields {
	return Fields{Name: "name", Label: "label", Value: "value", X: "x", Y: "y"}
}

// WithDefaults fills empty roles from DefaultFields.
func (f Fields) WithDefaults() Fields {
	d := DefaultFields()
	if f.Name == "" {
		f.Name = d.Name
	}
	if f.Label == "" {
		f.Label = d.Label
	}
	if f.Value == "" {
		f.Value = d.Value
	}
	if f.X == "" {
		f.X = d.X
	}
	if f.Y == "" {
		f.Y = d.Y
	}
	return f
}

// Dataset holds either flat records or a tree.
type Dataset struct {
	Records []datum.Point   `json:"records,omitempty"`
	Tree    *hierarchy.Node `json:"tree,omitempty"`
}

// IsHierarchy reports whether the dataset was read as a tree.
func (d *Dataset) IsHierarchy() bool { return d != nil && d.Tree != nil }

// Empty reports whether the dataset holds no data.
func (d *Dataset) Empty() bool {
	return d == nil || (d.Tree == nil && len(d.Records) == 0)
}

// Hierarchy returns the tree, wrapping flat records under a synthetic root
// when the dataset has no tree of its own.
func (d *Dataset) Hierarchy(f Fields) *hierarchy.Node {
	if d == nil {
		return nil
	}
	if d.Tree != nil {
		return d.Tree
	}
	if len(d.Records) == 0 {
		return nil
	}
	return WrapFlat(d.Records, f)
}

// Flat returns the records, flattening a tree into one record per leaf with
// the leaf name, its value and its depth-1 branch.
func (d *Dataset) Flat() []datum.Point {
	if d == nil {
		return nil
	}
	if d.Tree == nil {
		return d.Records
	}
	var out []datum.Point
	root := hierarchy.Prepare(d.Tree)
	for _, leaf := range root.Leaves() {
		var p datum.Point
		p.Set("name", datum.String(leaf.Name))
		p.Set("value", datum.Number(leaf.Value))
		if b := leaf.Branch(); b != nil {
			p.Set("branch", datum.String(b.Name))
		}
		out = append(out, p)
	}
	return out
}
