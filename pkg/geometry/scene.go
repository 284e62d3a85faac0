package geometry

import (
	"encoding/json"
	"fmt"
)

// Scene is the complete output of one layout pass.
type Scene struct {
	Chart      string      `json:"chart,omitempty"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Primitives []Primitive `json:"primitives"`
}

// NewScene returns an empty scene covering size.
func NewScene(chart string, size Size) *Scene {
	return &Scene{Chart: chart, Width: size.Width, Height: size.Height, Primitives: []Primitive{}}
}

// Size returns the scene extent.
func (s *Scene) Size() Size { return Size{Width: s.Width, Height: s.Height} }

// Add appends primitives in draw order.
func (s *Scene) Add(p ...Primitive) { s.Primitives = append(s.Primitives, p...) }

// Len returns the number of primitives.
func (s *Scene) Len() int { return len(s.Primitives) }

// Empty reports whether the scene has nothing to draw.
func (s *Scene) Empty() bool { return len(s.Primitives) == 0 }

// Layer returns the primitives assigned to layer, in draw order.
func (s *Scene) Layer(layer string) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if p.Layer == layer {
			out = append(out, p)
		}
	}
	return out
}

// OfKind returns the primitives of kind k, in draw order.
func (s *Scene) OfKind(k Kind) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the first primitive with the given key.
func (s *Scene) Find(key string) (Primitive, bool) {
	for _, p := range s.Primitives {
		if p.Key == key {
			return p, true
		}
	}
	return Primitive{}, false
}

// At returns the topmost non-text primitive containing pt.
func (s *Scene) At(pt Point) (Primitive, bool) {
	for i := len(s.Primitives) - 1; i >= 0; i-- {
		p := s.Primitives[i]
		if p.Kind != KindText && p.Contains(pt) {
			return p, true
		}
	}
	return Primitive{}, false
}

// UnmarshalScene decodes a scene written by the JSON sink and checks that
// every primitive carries the shape its Kind names.
func UnmarshalScene(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	for i, p := range s.Primitives {
		ok := false
		switch p.Kind {
		case KindRect:
			ok = p.Rect != nil
		case KindArc:
			ok = p.Arc != nil
		case KindPath:
			ok = p.Path != nil
		case KindHexagon:
			ok = p.Hexagon != nil
		case KindText:
			ok = p.Text != nil
		}
		if !ok {
			return nil, fmt.Errorf("primitive %d: kind %q without matching shape", i, p.Kind)
		}
	}
	return &s, nil
}
