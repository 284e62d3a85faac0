// Package dataset reads chart input and adapts it to the shapes each layout
// consumes.
//
// # Sources
//
// Three document shapes are accepted:
//
//   - a JSON array of objects ([ReadRecords]), field order preserved
//   - a CSV file with a header row ([ReadCSV])
//   - a tree of {name, value, children} nodes in JSON or YAML ([ReadHierarchy])
//
// [ReadFile] picks a reader by file extension and sniffs JSON documents to
// tell records from trees.
//
// # Adapters
//
// Layouts never guess which field means what. Callers name field roles with
// [Fields] and convert explicitly:
//
//	records, _ := dataset.ReadRecords(r)
//	root := dataset.WrapFlat(records, dataset.DefaultFields())
//	layout := treemap.Compute(hierarchy.Prepare(root), size, opts)
//
// # Validation
//
// [ValidateRecords] and [ValidateHierarchy] check raw documents against the
// JSON schemas in this package before they are decoded.
package dataset
