package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geomkit/pkg/pipeline"
	"github.com/matzehuels/geomkit/pkg/scale"
)

// scalesCommand prints the band, linear and color scales of a flat dataset.
func (c *CLI) scalesCommand() *cobra.Command {
	var (
		output string
		opts   = pipeline.ScaleOptions{
			Width:  pipeline.DefaultWidth,
			Height: pipeline.DefaultHeight,
			Ticks:  scale.DefaultTickCount,
		}
	)

	cmd := &cobra.Command{
		Use:   "scales [data]",
		Short: "Print scale descriptors for a flat dataset",
		Long: `Print scale descriptors for a flat dataset.

The category field becomes a band scale along the x axis, every measure field a
linear scale along the y axis with nice ticks, and each category gets a palette
color. The descriptors are printed as JSON for renderers that draw simple bar
or line charts themselves.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.Palette) == 0 {
				opts.Palette = c.Config.Chart.ColorPalette
			}
			return c.runScales(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "name", "category field")
	cmd.Flags().StringSliceVar(&opts.Measures, "measure", []string{"value"}, "measure field(s)")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "frame height")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0.1, "band padding in [0, 1)")
	cmd.Flags().BoolVar(&opts.Invert, "invert", false, "grow measures downward")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", opts.Ticks, "approximate tick count")
	cmd.Flags().StringSliceVar(&opts.Palette, "palette", nil, "category colors (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runScales(ctx context.Context, input string, opts pipeline.ScaleOptions, output string) error {
	ds, err := pipeline.ReadDataset(ctx, input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}
	d, err := pipeline.Scales(ds, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Scales written")
	printFile(output)
	printKeyValue("Categories", fmt.Sprint(len(d.Category.Positions)))
	printKeyValue("Measures", fmt.Sprint(len(d.Measures)))
	return nil
}
