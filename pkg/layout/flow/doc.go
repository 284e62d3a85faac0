// Package flow lays out categorical records as parallel sets: one column of
// stacked spans per stage and ribbons between adjacent stages.
//
// # Stages
//
// Each stage names a categorical field. Per stage, record values are rolled
// up by category in first-seen order, stable-sorted by value descending and
// stacked from the top with heights proportional to value/stageTotal. A
// stage whose total is zero gets zero-height spans.
//
// # Ribbons
//
// Between stages i and i+1 values are rolled up by (source, target) pair.
// Sources are visited in first-occurrence order, and targets within a
// source in first-occurrence order too. Each ribbon carves a sub-span from a
// running offset at its source span and an independent running offset at
// its target span, so the incoming ribbons of a target exactly fill it.
//
// Ribbons are closed cubic paths whose control points sit halfway between
// the two stage positions. A ribbon takes the color of its source category.
//
// # Colors
//
// The color domain is the first stage's categories followed by categories
// first seen in later stages. The legend lists the first stage only.
package flow
