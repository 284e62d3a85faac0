package pipeline

import (
	"github.com/matzehuels/geomkit/pkg/config"
	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/errors"
	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/hierarchy"
	"github.com/matzehuels/geomkit/pkg/layout/flow"
	"github.com/matzehuels/geomkit/pkg/layout/hexbin"
	"github.com/matzehuels/geomkit/pkg/layout/histogram"
	"github.com/matzehuels/geomkit/pkg/layout/icicle"
	"github.com/matzehuels/geomkit/pkg/layout/treemap"
)

// Layout computes the scene for opts.Chart. It is the single dispatch point
// from chart tag to layout package. Empty data and zero dimensions give an
// empty scene, not an error.
func Layout(ds *dataset.Dataset, opts Options) (*geometry.Scene, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	size := geometry.Size{Width: opts.Width, Height: opts.Height}
	cfg := *opts.Config

	switch opts.Chart {
	case ChartTreemap:
		return layoutTreemap(ds, size, cfg, opts), nil
	case ChartIcicle:
		return layoutIcicle(ds, size, cfg, opts), nil
	case ChartFlow:
		return layoutFlow(ds, size, cfg, opts), nil
	case ChartHexbin:
		return layoutHexbin(ds, size, cfg, opts), nil
	case ChartHistogram:
		return layoutHistogram(ds, size, cfg, opts), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidChart, "invalid chart: %q", opts.Chart)
}

// Hierarchy returns the tree a hierarchy chart partitions: the dataset's own
// tree, records nested by opts.Path, or records wrapped under one root.
func Hierarchy(ds *dataset.Dataset, opts Options) *hierarchy.Item {
	if ds == nil {
		return nil
	}
	if !ds.IsHierarchy() && len(opts.Path) > 0 {
		return hierarchy.Prepare(dataset.HierarchyFromRecords(ds.Records, opts.Path, opts.Fields.Value))
	}
	return hierarchy.Prepare(ds.Hierarchy(opts.Fields))
}

func layoutTreemap(ds *dataset.Dataset, size geometry.Size, cfg config.Chart, opts Options) *geometry.Scene {
	o := treemap.DefaultOptions()
	o.Margin = cfg.Margin
	o.Palette = cfg.ColorPalette
	o.Padding = cfg.Padding
	o.Round = cfg.RoundCells
	o.ShowLabels = cfg.ShowLabels
	o.ShowLegend = cfg.ShowLegend
	return treemap.Compute(Hierarchy(ds, opts), size, o).Scene()
}

func layoutIcicle(ds *dataset.Dataset, size geometry.Size, cfg config.Chart, opts Options) *geometry.Scene {
	o := icicle.DefaultOptions()
	o.Margin = cfg.Margin
	o.Palette = cfg.ColorPalette
	o.ShowLabels = cfg.ShowLabels
	o.ShowLegend = cfg.ShowLegend
	return icicle.Compute(Hierarchy(ds, opts), size, o).Scene()
}

func layoutFlow(ds *dataset.Dataset, size geometry.Size, cfg config.Chart, opts Options) *geometry.Scene {
	records := ds.Flat()
	stages := opts.Stages
	if len(stages) == 0 {
		stages = dataset.InferStages(records, opts.Fields.Value)
	}
	o := flow.DefaultOptions(stages...)
	o.Margin = cfg.Margin
	o.Palette = cfg.ColorPalette
	o.ShowAxisX = cfg.ShowAxisX
	o.ShowAxisY = cfg.ShowAxisY
	o.ShowLegend = cfg.ShowLegend
	o.ShowLabels = cfg.ShowLabels
	return flow.Compute(dataset.FlowRecords(records, stages, opts.Fields.Value), size, o).Scene()
}

func layoutHexbin(ds *dataset.Dataset, size geometry.Size, cfg config.Chart, opts Options) *geometry.Scene {
	o := hexbin.DefaultOptions()
	o.Radius = cfg.HexRadius
	o.Orientation = geometry.Orientation(cfg.HexOrientation)
	o.Margin = cfg.Margin
	o.Palette = cfg.ColorPalette
	o.ScalePoints = cfg.ScalePoints
	o.ShowAxisX = cfg.ShowAxisX
	o.ShowAxisY = cfg.ShowAxisY
	o.ShowLabels = cfg.ShowLabels
	o.ShowMesh = cfg.ShowMesh
	return hexbin.Compute(dataset.Points(ds.Flat(), opts.Fields), size, o).Scene()
}

func layoutHistogram(ds *dataset.Dataset, size geometry.Size, cfg config.Chart, opts Options) *geometry.Scene {
	o := histogram.DefaultOptions()
	o.BinCountHint = cfg.BinCountHint
	o.Margin = cfg.Margin
	if len(cfg.ColorPalette) > 0 {
		o.Fill = cfg.ColorPalette[0]
	}
	o.ShowAxisX = cfg.ShowAxisX
	o.ShowAxisY = cfg.ShowAxisY
	o.ShowLegend = cfg.ShowLegend
	return histogram.Compute(dataset.Values(ds.Flat(), opts.Fields.Value), size, o).Scene()
}
