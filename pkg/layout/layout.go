package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Serialization Format
// =============================================================================

// Layout is the serialization format for a computed layout: final node
// positions plus the frame they were computed for. It is the artifact
// written by `depscope layout` and consumed by the serve and view surfaces.
type Layout struct {
	Width  float64          `json:"width" bson:"width"`
	Height float64          `json:"height" bson:"height"`
	Nodes  []PositionedNode `json:"nodes" bson:"nodes"`
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, fmt.Errorf("layout must declare a positive frame size")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
