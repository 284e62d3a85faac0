// Package treemap lays out a hierarchy as nested, squarified rectangles.
//
// # Overview
//
// [Compute] takes a prepared [hierarchy.Item] tree and an extent and assigns
// every positive leaf a rectangle whose area is proportional to its value:
//
//	root := hierarchy.Prepare(node)
//	l := treemap.Compute(root, geometry.Size{Width: 800, Height: 600}, treemap.DefaultOptions())
//	scene := l.Scene()
//
// # Tiling
//
// Children are tiled with the squarify heuristic: a row grows while its
// worst aspect ratio keeps improving toward [Options.Ratio] (the golden
// ratio by default), is laid along the shorter side of the remaining area,
// and the process repeats in what is left.
//
// Before an internal node's children are tiled its rectangle is inset by
// [Options.Padding]. Leaves fill their parent's inset rectangle exactly, so
// leaf areas stay proportional to leaf values. Subtrees with a zero value
// produce no cells.
//
// # Scene
//
// [Layout.Scene] emits one rect per leaf colored by its depth-1 ancestor,
// optional name and value labels clipped to the cell, and an optional legend
// of the root's children. Tooltips carry the dot-separated path and value.
//
// [hierarchy.Item]: github.com/matzehuels/geomkit/pkg/hierarchy
package treemap
