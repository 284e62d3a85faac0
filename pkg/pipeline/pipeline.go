// Package pipeline provides the read → layout → render pipeline for geomkit.
//
// The CLI and the HTTP API both drive charts through this package, so chart
// dispatch, validation, defaults and caching behave the same at every entry
// point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: load a dataset from JSON, CSV or YAML ([ReadDataset])
//  2. Layout: compute a [geometry.Scene] for one chart type ([Layout])
//  3. Render: turn the scene into SVG, PNG, PDF, JSON or DOT ([RenderFromScene])
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{
//	    Chart:   "treemap",
//	    Width:   800,
//	    Height:  600,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, ds, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geomkit/pkg/cache"
	"github.com/matzehuels/geomkit/pkg/config"
	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/errors"
	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/layout/flow"
	"github.com/matzehuels/geomkit/pkg/layout/hexbin"
	"github.com/matzehuels/geomkit/pkg/layout/histogram"
	"github.com/matzehuels/geomkit/pkg/layout/icicle"
	"github.com/matzehuels/geomkit/pkg/layout/treemap"
	"github.com/matzehuels/geomkit/pkg/render/styles"
)

const (
	// DefaultWidth is the default drawing width.
	DefaultWidth = 800.0

	// DefaultHeight is the default drawing height.
	DefaultHeight = 600.0

	// DefaultScale is the default PNG raster scale.
	DefaultScale = 2.0

	// DefaultChart is used when Options.Chart is empty.
	DefaultChart = treemap.Chart

	// DefaultStyle is the default paint preset.
	DefaultStyle = styles.NameSimple
)

// Chart tags.
const (
	ChartTreemap   = treemap.Chart
	ChartIcicle    = icicle.Chart
	ChartFlow      = flow.Chart
	ChartHexbin    = hexbin.Chart
	ChartHistogram = histogram.Chart
)

// Charts lists the supported chart tags in display order.
var Charts = []string{ChartTreemap, ChartIcicle, ChartFlow, ChartHexbin, ChartHistogram}

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"

	// FormatDOT is the Graphviz source of the hierarchy.
	FormatDOT = "dot"
	// FormatGraphSVG and FormatGraphPNG are the hierarchy drawn by Graphviz.
	FormatGraphSVG = "graph.svg"
	FormatGraphPNG = "graph.png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatGraphSVG: true,
	FormatGraphPNG: true,
}

// graphFormats need a hierarchy and are only offered for hierarchy charts.
var graphFormats = map[string]bool{FormatDOT: true, FormatGraphSVG: true, FormatGraphPNG: true}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Chart  string         `json:"chart,omitempty"`
	Width  float64        `json:"width,omitempty"`
	Height float64        `json:"height,omitempty"`
	Config *config.Chart  `json:"config,omitempty"`
	Fields dataset.Fields `json:"fields,omitempty"`
	Stages []string       `json:"stages,omitempty"` // flow stage fields, inferred when empty
	Path   []string       `json:"path,omitempty"`   // grouping fields that nest flat records

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Title   string   `json:"title,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Progress, when set, is called as [Runner.Execute] enters each stage
	// ("layout", then "render").
	Progress func(stage string) `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the computed geometry.
	Scene *geometry.Scene

	// DataHash is the content hash of the dataset.
	DataHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	Primitives int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateChart checks that a chart tag is supported.
func ValidateChart(chart string) error {
	if !slices.Contains(Charts, chart) {
		return errors.New(errors.ErrCodeInvalidChart, "invalid chart: %q (must be one of: %s)", chart, strings.Join(Charts, ", "))
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot, graph.svg, graph.png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	_, err := styles.ByName(style)
	return err
}

// IsHierarchyChart reports whether chart partitions a tree.
func IsHierarchyChart(chart string) bool {
	return chart == ChartTreemap || chart == ChartIcicle
}

// SetDefaults fills zero-valued options. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Chart == "" {
		o.Chart = DefaultChart
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Config == nil {
		c := config.DefaultChart()
		o.Config = &c
	}
	o.Fields = o.Fields.WithDefaults()
	if o.Fields.Value == dataset.DefaultFields().Value && o.Config.ValueField != "" {
		o.Fields.Value = o.Config.ValueField
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout applies defaults and checks everything a layout needs.
// Misuse that would make a layout panic, such as a negative extent or a
// non-positive hex radius, is reported as INVALID_INPUT.
func (o *Options) ValidateForLayout() error {
	o.SetDefaults()
	if err := ValidateChart(o.Chart); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if err := o.Config.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "chart options")
	}
	for _, name := range []string{o.Fields.Name, o.Fields.Label, o.Fields.Value, o.Fields.X, o.Fields.Y} {
		if err := errors.ValidateFieldName(name); err != nil {
			return err
		}
	}
	for _, name := range append(slices.Clone(o.Stages), o.Path...) {
		if err := errors.ValidateFieldName(name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForRender validates layout options plus formats, style and scale.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if graphFormats[f] && !IsHierarchyChart(o.Chart) {
			return errors.New(errors.ErrCodeInvalidFormat, "format %q is only available for treemap and icicle charts", f)
		}
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if !(o.Scale > 0) || o.Scale > 16 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, 16], got %v", o.Scale)
	}
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Chart:  o.Chart,
		Width:  o.Width,
		Height: o.Height,
		Options: struct {
			Config *config.Chart  `json:"config"`
			Fields dataset.Fields `json:"fields"`
			Stages []string       `json:"stages,omitempty"`
			Path   []string       `json:"path,omitempty"`
		}{o.Config, o.Fields, o.Stages, o.Path},
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
		Scale:  o.Scale,
		Title:  o.Title,
	}
}
