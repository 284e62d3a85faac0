package sink

import (
	"encoding/json"

	"github.com/matzehuels/geomkit/pkg/geometry"
)

// RenderJSON encodes the scene with two-space indentation.
func RenderJSON(scene *geometry.Scene) ([]byte, error) {
	data, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
