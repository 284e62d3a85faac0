// Package render groups the output stages that turn a computed scene, or the
// hierarchy behind it, into files.
//
// # Overview
//
//   - Scene sinks (in [sink] subpackage): SVG, PNG, PDF and JSON
//   - Paint presets (in [styles] subpackage): simple and print
//   - Hierarchy diagrams (in [nodelink] subpackage): Graphviz DOT, SVG, PNG
//
// # Scene Sinks
//
// Every layout produces a [geometry.Scene]. The sinks paint it without
// knowing which chart made it:
//
//	scene := treemap.Compute(root, size, opts).Scene()
//	svg := sink.RenderSVG(scene, sink.WithStyle(styles.Print))
//	png, err := sink.RenderPNG(scene, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(scene, sink.WithTitle("Sales"))
//
// # Hierarchy Diagrams
//
// The [nodelink] subpackage draws the prepared hierarchy of a treemap or
// icicle as a top-down tree. It is a debugging view of the data, not of the
// layout.
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// [geometry.Scene]: github.com/matzehuels/geomkit/pkg/geometry.Scene
// [sink]: github.com/matzehuels/geomkit/pkg/render/sink
// [styles]: github.com/matzehuels/geomkit/pkg/render/styles
// [nodelink]: github.com/matzehuels/geomkit/pkg/render/nodelink
package render
