// Package pkg provides the core libraries for geomkit chart geometry.
//
// # Overview
//
// geomkit turns tabular or hierarchical data into chart geometry: positioned
// rectangles, arcs, hexagons, ribbons and labels that any renderer can
// paint. The pkg directory is organized into four main areas:
//
//  1. [layout] - Chart layouts (treemap, icicle, flow, hexbin, histogram)
//  2. [scale] and [dimension] - Scales and stable drawing sizes
//  3. [render] - Output sinks for computed scenes
//  4. [pipeline] - Orchestration (read → layout → render) with caching
//
// # Architecture
//
// The typical data flow through geomkit:
//
//	JSON / CSV / YAML dataset
//	         ↓
//	    [dataset] package (records or hierarchy)
//	         ↓
//	    [layout] packages (chart geometry)
//	         ↓
//	    [geometry] Scene (primitives with keys and layers)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Lay out a hierarchy as a treemap and render it to SVG:
//
//	import (
//	    "github.com/matzehuels/geomkit/pkg/dataset"
//	    "github.com/matzehuels/geomkit/pkg/geometry"
//	    "github.com/matzehuels/geomkit/pkg/hierarchy"
//	    "github.com/matzehuels/geomkit/pkg/layout/treemap"
//	    "github.com/matzehuels/geomkit/pkg/render/sink"
//	)
//
//	// 1. Read the data
//	ds, _ := dataset.ReadFile("budget.json")
//
//	// 2. Prepare the hierarchy (sums, sorting, keys)
//	root := hierarchy.Prepare(ds.Hierarchy(dataset.DefaultFields()))
//
//	// 3. Compute layout
//	l := treemap.Compute(root, geometry.Size{Width: 1200, Height: 800}, treemap.DefaultOptions())
//
//	// 4. Render to SVG
//	svg := sink.RenderSVG(l.Scene())
//
// # Main Packages
//
// ## Layouts
//
// [layout/treemap] - Squarified treemap of the leaves of a hierarchy.
//
// [layout/icicle] - Radial partition (sunburst) of a hierarchy.
//
// [layout/flow] - Parallel-sets flow between categorical stages.
//
// [layout/hexbin] - Hexagonal binning of points, colored by density.
//
// [layout/histogram] - Equal-width bins of one numeric field.
//
// ## Shared Model
//
// [geometry] - Primitives, scenes, hit testing and path building.
//
// [hierarchy] - Tree nodes and the prepared items layouts consume.
//
// [datum] - Dynamically typed record fields.
//
// [scale] - Band, linear and ordinal scales with nice ticks.
//
// [dimension] - Resolves a stable size for a surface measured by an external
// layout engine.
//
// ## Infrastructure
//
// [pipeline] - Complete pipeline (read → layout → render) used by the CLI and
// the HTTP API. Ensures consistent behavior across both entry points.
//
// [cache] - Scene and artifact caching with file, SQLite, Redis and MongoDB
// backends.
//
// [config] - TOML and YAML settings with environment overrides.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/layout/...         # Layouts only
//
// Redis and MongoDB cache tests run when GEOMKIT_TEST_REDIS_URL or
// GEOMKIT_TEST_MONGO_URL is set.
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/layout
// [layout/treemap]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/layout/treemap
// [layout/icicle]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/layout/icicle
// [layout/flow]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/layout/flow
// [layout/hexbin]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/layout/hexbin
// [layout/histogram]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/layout/histogram
// [geometry]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/geometry
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/hierarchy
// [datum]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/datum
// [scale]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/scale
// [dimension]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/dimension
// [render]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/errors
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/geomkit/pkg/dataset
package pkg
