package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geomkit/pkg/pipeline"
)

// renderFlags hold the render-only flags.
type renderFlags struct {
	output  string
	formats string
	style   string
	scale   float64
	title   string
}

// renderCommand creates the render command for generating chart artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  chartFlags
		rflags = renderFlags{style: pipeline.DefaultStyle, scale: pipeline.DefaultScale}
	)

	cmd := &cobra.Command{
		Use:   "render [data]",
		Short: "Render a chart to SVG, PNG, PDF or JSON",
		Long: `Render a chart to SVG, PNG, PDF or JSON.

The render command computes the chart scene like 'layout' and paints it in
every requested format. Hierarchy charts (treemap, icicle) can also emit the
hierarchy as Graphviz source (dot) or as a Graphviz drawing (graph.svg,
graph.png).

Files are named <data>.<chart>.<format> unless --output sets another base.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.chartOptions(&flags)
			opts.Formats = parseFormats(rflags.formats)
			opts.Style = rflags.style
			opts.Scale = rflags.scale
			opts.Title = rflags.title
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(opts.Style); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, rflags.output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&rflags.output, "output", "o", "", "output base path (default: <data>.<chart>)")
	cmd.Flags().StringVarP(&rflags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, graph.svg, graph.png (comma-separated)")
	cmd.Flags().StringVar(&rflags.style, "style", rflags.style, "visual style: simple (default), print")
	cmd.Flags().Float64Var(&rflags.scale, "scale", rflags.scale, "PNG raster scale")
	cmd.Flags().StringVar(&rflags.title, "title", "", "document title (SVG, PDF)")

	return cmd
}

// runRender loads the dataset, runs the full pipeline and writes one file per
// format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s as %s", input, opts.Chart)

	ds, err := pipeline.ReadDataset(ctx, input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}
	logger.Debugf("Loaded dataset: %d entries", datasetSize(ds))

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Chart))
	opts.Progress = func(stage string) {
		if stage == pipeline.StageRender {
			spinner.SetMessage(fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
		}
	}
	spinner.Start()

	result, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := outputBase(output, input) + "." + opts.Chart
	paths, err := writeArtifacts(base, opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Debugf("Generated %s", p)
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Records, result.Stats.Primitives, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	logger.Debugf("Layout %s, render %s", result.Stats.LayoutTime, result.Stats.RenderTime)
	return nil
}

// writeArtifacts writes each artifact to base.<format> in the requested
// order and returns the paths written.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	var paths []string
	seen := make(map[string]bool, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok || seen[format] {
			continue
		}
		seen[format] = true
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
