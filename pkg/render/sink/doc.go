// Package sink writes a [geometry.Scene] to an output format.
//
// # Formats
//
//   - SVG ([RenderSVG]): one element per primitive, tooltips as <title>,
//     labels clipped to their cell
//   - JSON ([RenderJSON]): the scene itself, readable by [geometry.UnmarshalScene]
//   - PDF ([RenderPDF]): vector output through gofpdf, one page sized to the scene
//   - PNG ([RenderPNG]): rasterized with x/image/vector and basicfont text
//
// Every sink paints through a [styles.Style] and converts arcs and hexagons to
// their path outlines, so all formats agree on shape.
//
//	scene := treemap.Compute(root, size, opts).Scene()
//	svg := sink.RenderSVG(scene, sink.WithStyle(styles.Print()))
//	png, err := sink.RenderPNG(scene, sink.WithScale(2))
//
// # Clip ids
//
// SVG clip-path ids are name-based UUIDs of the primitive key, so rendering
// the same scene twice yields identical bytes.
//
// [geometry.Scene]: github.com/matzehuels/geomkit/pkg/geometry.Scene
// [geometry.UnmarshalScene]: github.com/matzehuels/geomkit/pkg/geometry.UnmarshalScene
// [styles.Style]: github.com/matzehuels/geomkit/pkg/render/styles.Style
package sink
