package legend

import (
	"testing"

	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/scale"
)

func TestRow(t *testing.T) {
	color := scale.NewOrdinal([]string{"a", "b"}, []string{"#111", "#222"})
	prims := Row(color, color.Domain(), geometry.Point{X: 10, Y: 100}, DefaultOptions())
	if len(prims) != 4 {
		t.Fatalf("got %d primitives, want 4", len(prims))
	}
	second := prims[2]
	if second.Rect.X != 130 || second.Fill != "#222" || second.Label != "b" {
		t.Errorf("second swatch = %+v", second)
	}
	if prims[3].Text.X != 150 || prims[3].Layer != geometry.LayerLegend {
		t.Errorf("second text = %+v", prims[3])
	}
}
