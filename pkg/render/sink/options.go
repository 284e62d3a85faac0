package sink

import "github.com/matzehuels/geomkit/pkg/render/styles"

// Option configures a sink.
type Option func(*renderer)

type renderer struct {
	style styles.Style
	scale float64
	title string
}

// WithStyle selects the paint preset (default [styles.Simple]).
func WithStyle(s styles.Style) Option { return func(r *renderer) { r.style = s } }

// WithScale sets the raster scale factor for PNG output (default 2).
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithTitle sets the document title.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

func newRenderer(opts ...Option) renderer {
	r := renderer{style: styles.Simple(), scale: 2}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
