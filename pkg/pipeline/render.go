package pipeline

import (
	"fmt"

	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/errors"
	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/render/nodelink"
	"github.com/matzehuels/geomkit/pkg/render/sink"
	"github.com/matzehuels/geomkit/pkg/render/styles"
)

// RenderFromScene generates output artifacts in the requested formats.
// The graph formats derive from the dataset's hierarchy rather than the
// scene, so ds is only consulted for those.
func RenderFromScene(scene *geometry.Scene, ds *dataset.Dataset, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if scene == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no scene to render")
	}
	style, _ := styles.ByName(opts.Style)
	sinkOpts := []sink.Option{sink.WithStyle(style), sink.WithScale(opts.Scale)}
	if opts.Title != "" {
		sinkOpts = append(sinkOpts, sink.WithTitle(opts.Title))
	}

	var dot string
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(scene, sinkOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(scene, sinkOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(scene, sinkOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(scene)
		case FormatDOT, FormatGraphSVG, FormatGraphPNG:
			if dot == "" {
				dot = nodelink.ToDOT(Hierarchy(ds, opts), nodelink.Options{
					Detailed: true,
					Palette:  opts.Config.ColorPalette,
				})
			}
			data, err = renderGraph(dot, format)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderGraph(dot, format string) ([]byte, error) {
	switch format {
	case FormatGraphSVG:
		return nodelink.RenderSVG(dot)
	case FormatGraphPNG:
		return nodelink.RenderPNG(dot)
	}
	return []byte(dot), nil
}
