// Package scale builds the domain-to-range mappings shared by every layout.
//
// Scales are plain values built fresh for each render from the current
// data. None of them reads or writes package state, so two charts rendered
// side by side never influence each other's colors or positions.
//
// # Kinds
//
//   - [Linear]: continuous numeric mapping with d3-style nice domains and
//     tick generation.
//   - [Band]: ordinal categories spread over a span with inner and outer
//     padding; [NewPoint] is the zero-bandwidth variant used for stage axes.
//   - [Ordinal]: categories to colors over a cyclic palette.
//
// # Builder
//
// [Builder] assembles the standard set for a categorical dataset: a band
// scale for the category field, a niced [0, max] linear scale per measure
// field, and a color scale keyed by category.
//
//	set := scale.Builder{Palette: scale.Tableau10(), Invert: true}.
//	    Build(points, scale.Roles{Category: "name", Measures: []string{"value"}}, size)
//	x, _ := set.Category.Map("apples")
//	y := set.Measure("value").Map(42)
package scale
