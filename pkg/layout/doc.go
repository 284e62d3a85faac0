// Package layout groups the chart layouts. Each subpackage turns data plus
// an extent into a [geometry.Scene]:
//
//   - [treemap]: squarified partition of a hierarchy
//   - [icicle]: layered partition of a hierarchy
//   - [flow]: parallel-sets ribbons between categorical stages
//   - [hexbin]: hexagonal binning of points
//   - [histogram]: binned counts of a numeric field
//
// Layouts are synchronous and pure. A zero width or height produces an
// empty scene. Shared helpers live in [label] and [axis].
//
// [geometry.Scene]: github.com/matzehuels/geomkit/pkg/geometry
package layout
