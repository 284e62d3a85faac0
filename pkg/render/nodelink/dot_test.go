package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/geomkit/pkg/hierarchy"
)

func tree() *hierarchy.Item {
	return hierarchy.Prepare(&hierarchy.Node{Name: "root", Children: []*hierarchy.Node{
		{Name: "a", Children: []*hierarchy.Node{{Name: "a1", Value: 1200}}},
		{Name: "b", Value: 0},
	}})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(tree(), Options{Detailed: true, Palette: []string{"#111111", "#222222"}})

	for _, want := range []string{
		"rankdir=TB;",
		`"node" [label="root\n1,200"];`,
		`"node-0" [label="a\n1,200", fillcolor="#111111", fontcolor=white];`,
		`"node-0-0" [label="a1\n1,200", fillcolor="#111111", fontcolor=white];`,
		`"node-1" [label="b\n0", fillcolor="#222222", fontcolor=white, style="rounded,filled,dashed"];`,
		`"node" -> "node-0";`,
		`"node-0" -> "node-0-0";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTPlainLabels(t *testing.T) {
	dot := ToDOT(tree(), Options{RankDir: "LR"})
	if !strings.Contains(dot, `"node-0" [label="a",`) || !strings.Contains(dot, "rankdir=LR;") {
		t.Errorf("unexpected DOT:\n%s", dot)
	}
}

func TestToDOTNilRoot(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("nil root DOT = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s", got)
	}
}
