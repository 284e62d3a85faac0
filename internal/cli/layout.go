package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/pipeline"
	"github.com/matzehuels/geomkit/pkg/render/sink"
)

// chartFlags are the layout flags shared by layout, render and preview.
type chartFlags struct {
	chart     string
	width     float64
	height    float64
	value     string
	path      []string
	stages    []string
	hexRadius float64
	bins      int
	noCache   bool
	refresh   bool
}

func (f *chartFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.chart, "chart", "c", pipeline.DefaultChart, "chart: "+strings.Join(pipeline.Charts, ", "))
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "frame width")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "frame height")
	fs.StringVar(&f.value, "value", "", "value field (default from config)")
	fs.StringSliceVar(&f.path, "path", nil, "grouping fields that nest flat records (treemap, icicle)")
	fs.StringSliceVar(&f.stages, "stages", nil, "stage fields in order (flow, inferred when empty)")
	fs.Float64Var(&f.hexRadius, "hex-radius", 0, "hexagon radius (hexbin, default from config)")
	fs.IntVar(&f.bins, "bins", 0, "bin count hint (histogram, default from config)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// chartOptions builds pipeline options from the configured chart defaults with
// the flags applied on top.
func (c *CLI) chartOptions(f *chartFlags) pipeline.Options {
	cfg := c.chartConfig()
	if f.value != "" {
		cfg.ValueField = f.value
	}
	if f.hexRadius != 0 {
		cfg.HexRadius = f.hexRadius
	}
	if f.bins != 0 {
		cfg.BinCountHint = f.bins
	}
	return pipeline.Options{
		Chart:   f.chart,
		Width:   f.width,
		Height:  f.height,
		Config:  cfg,
		Path:    f.path,
		Stages:  f.stages,
		Refresh: f.refresh,
		Logger:  c.Logger,
	}
}

// layoutCommand creates the layout command for computing chart scenes.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  chartFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [data]",
		Short: "Compute a chart scene from a dataset",
		Long: `Compute a chart scene from a dataset.

The layout command reads a JSON, CSV or YAML dataset and computes the scene for
the selected chart. The output is a scene JSON file (same format as
'render -f json') holding every primitive with its key and layer.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], &flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <data>.<chart>.json)")

	return cmd
}

// runLayout loads the dataset, computes the scene, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, flags *chartFlags, output string) error {
	ds, err := pipeline.ReadDataset(ctx, input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.chartOptions(flags)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Chart))
	spinner.Start()
	prog := newProgress(c.Logger)

	scene, cacheHit, err := runner.LayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Computed %s layout", opts.Chart))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := sink.RenderJSON(scene)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase("", input) + "." + opts.Chart + ".json"
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(datasetSize(ds), scene.Len(), cacheHit)
	printNewline()
	printNextStep("Render", fmt.Sprintf("%s render %s -c %s", appName, input, opts.Chart))

	return nil
}

// datasetSize counts records, or nodes for a hierarchy.
func datasetSize(ds *dataset.Dataset) int {
	if ds.IsHierarchy() {
		return ds.Tree.Count()
	}
	return len(ds.Records)
}
