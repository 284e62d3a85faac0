package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/geomkit/pkg/hierarchy"
	"github.com/matzehuels/geomkit/pkg/layout/label"
	"github.com/matzehuels/geomkit/pkg/scale"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds each node's aggregated value to its label.
	Detailed bool
	// Palette colors nodes by depth-1 branch. Empty means Tableau10.
	Palette []string
	// RankDir is TB, LR, BT or RL.
	RankDir string
}

// ToDOT converts a prepared hierarchy to Graphviz DOT. Node ids are the
// hierarchy keys; the root is drawn white and every other node takes its
// branch color.
func ToDOT(root *hierarchy.Item, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#999999\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}
	buf.WriteString("\n")

	color := scale.NewOrdinal(root.BranchNames(), opts.Palette)
	root.Each(func(it *hierarchy.Item) {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(it, opts.Detailed))}
		if b := it.Branch(); b != nil {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color.Map(b.Name)), "fontcolor=white")
		}
		if it.Value == 0 {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", it.Key, strings.Join(attrs, ", "))
	})

	buf.WriteString("\n")
	root.Each(func(it *hierarchy.Item) {
		for _, c := range it.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", it.Key, c.Key)
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(it *hierarchy.Item, detailed bool) string {
	if !detailed {
		return it.Name
	}
	return it.Name + "\n" + label.Format(it.Value)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the SVG scales like the other sinks.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
