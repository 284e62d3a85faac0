// Package nodelink renders hierarchies as node-link diagrams.
//
// # Overview
//
// Treemaps and icicles show a hierarchy by area. This package draws the same
// tree as boxes joined by arrows using Graphviz, which makes deep or
// unbalanced trees easier to read.
//
// # Usage
//
// Prepare the tree, convert it to DOT, then render:
//
//	root := hierarchy.Prepare(tree)
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Detailed: label nodes with their aggregated value as well as the name
//   - Palette: branch colors, matching the treemap and icicle legends
//   - RankDir: Graphviz rank direction (default "TB")
//
// # Dependencies
//
// Rendering runs in-process through [github.com/goccy/go-graphviz]; no
// Graphviz install is required.
package nodelink
