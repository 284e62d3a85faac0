// Package hierarchy prepares trees for the partition layouts.
//
// # Overview
//
// Input trees are plain [Node] values: a name, an optional value and ordered
// children. [Prepare] turns a Node into an [Item] tree that the treemap and
// icicle layouts position:
//
//   - Values are summed bottom-up. A non-leaf node's own value is ignored,
//     and negative or non-finite leaf values count as zero.
//   - Every item knows its depth (distance from the root) and height
//     (distance to its deepest leaf).
//   - Children are stable-sorted by height descending, then value descending.
//   - Keys are derived from the original child-index path, so "node-0-2-1"
//     is the second child of the third child of the root's first child. Keys
//     do not change when sorting reorders siblings.
//
// # Traversal
//
// [Item.Descendants] walks breadth-first, [Item.Leaves] returns leaves in
// pre-order, and [Item.Ancestors] walks from an item up to the root.
// [Item.Branch] is the depth-1 ancestor used for coloring.
package hierarchy
