// Package geometry defines the drawable primitives produced by every layout.
//
// A layout never paints anything. It returns a [Scene]: an ordered list of
// [Primitive] values, each a tagged union over rectangles, annular arcs,
// command paths, hexagons, and text. The Scene is the only artifact that
// crosses the boundary to a renderer (the sinks under pkg/render, the
// terminal preview, or an external consumer reading the JSON form).
//
// # Coordinates
//
// All coordinates are in drawing units with the origin at the top-left of
// the scene and y growing downward. Arc angles are in radians, measured
// clockwise from twelve o'clock.
//
// # Metadata
//
// Every primitive carries a stable Key derived from its position in the
// input (a hierarchy path, a stage/category pair, a hex cell address), never
// from a process-wide counter, so identical inputs produce identical scenes.
// Tooltip strings follow the form "<path or category>\n<formatted value>".
//
// # Layers
//
// Primitives are tagged with a Layer so renderers can group them: cells
// (the data marks), labels, axis, legend, and mesh.
package geometry
