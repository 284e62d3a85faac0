package pipeline

import (
	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/errors"
	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/scale"
)

// ScaleOptions configures the scale descriptors served for simple charts.
type ScaleOptions struct {
	Category string   `json:"category"`
	Measures []string `json:"measures,omitempty"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Padding  float64  `json:"padding,omitempty"`
	Invert   bool     `json:"invert,omitempty"`
	Ticks    int      `json:"ticks,omitempty"`
	Palette  []string `json:"palette,omitempty"`
}

// Scales builds the category, measure and color scales for a flat dataset
// and describes them for an external renderer.
func Scales(ds *dataset.Dataset, o ScaleOptions) (scale.Descriptor, error) {
	if o.Category == "" {
		o.Category = dataset.DefaultFields().Name
	}
	if len(o.Measures) == 0 {
		o.Measures = []string{dataset.DefaultFields().Value}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Ticks == 0 {
		o.Ticks = scale.DefaultTickCount
	}
	for _, f := range append([]string{o.Category}, o.Measures...) {
		if err := errors.ValidateFieldName(f); err != nil {
			return scale.Descriptor{}, err
		}
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return scale.Descriptor{}, err
	}
	if len(o.Palette) > 0 {
		if err := errors.ValidatePalette(o.Palette); err != nil {
			return scale.Descriptor{}, err
		}
	}
	if o.Padding < 0 || o.Padding >= 1 {
		return scale.Descriptor{}, errors.New(errors.ErrCodeInvalidInput, "padding must be in [0, 1), got %v", o.Padding)
	}
	if o.Ticks < 0 {
		return scale.Descriptor{}, errors.New(errors.ErrCodeInvalidInput, "ticks cannot be negative")
	}

	b := scale.Builder{Palette: o.Palette, Padding: o.Padding, Invert: o.Invert, TickCount: o.Ticks}
	set := b.Build(ds.Flat(), scale.Roles{Category: o.Category, Measures: o.Measures}, geometry.Size{Width: o.Width, Height: o.Height})
	return set.Describe(o.Ticks), nil
}
