// Package render turns computed bridge charts into drawable layouts and
// converts rendered SVG to raster formats.
//
// The layout step is the boundary between the offset core (pkg/bridge) and
// the output sinks (pkg/render/sink): BuildLayout maps each layer's
// (values, bottoms) into pixel-space rectangles, and the sinks draw those
// rectangles without recomputing any chart semantics.
package render

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Pixel-Space Chart Geometry
// =============================================================================

// Layout is the serializable pixel-space geometry of a bridge chart.
// Coordinates follow SVG conventions: the origin is the top-left corner and
// y grows downward, so a bar's Top is numerically smaller than its Bottom.
type Layout struct {
	Title       string  `json:"title,omitempty" bson:"title,omitempty"`
	FrameWidth  float64 `json:"width" bson:"width"`
	FrameHeight float64 `json:"height" bson:"height"`

	// Baseline is the y pixel of chart value zero.
	Baseline float64 `json:"baseline" bson:"baseline"`

	Bars  []Bar  `json:"bars" bson:"bars"`
	Ticks []Tick `json:"ticks,omitempty" bson:"ticks,omitempty"`
}

// Bar is one positioned rectangle: a single segment of a single layer.
// Gap values produce no Bar at all.
type Bar struct {
	Segment int `json:"segment" bson:"segment"` // segment index (x position)
	Layer   int `json:"layer" bson:"layer"`     // layer index in stacking order

	Left   float64 `json:"left" bson:"left"`
	Right  float64 `json:"right" bson:"right"`
	Top    float64 `json:"top" bson:"top"`
	Bottom float64 `json:"bottom" bson:"bottom"`

	// Value is the raw chart value the bar represents; negative values draw
	// below their offset.
	Value float64 `json:"value" bson:"value"`

	// Style is the layer's opaque style map, forwarded verbatim from the
	// core. Only the styles package interprets it.
	Style map[string]any `json:"style,omitempty" bson:"style,omitempty"`
}

// Width returns the horizontal span of the bar.
func (b Bar) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the bar.
func (b Bar) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the bar.
func (b Bar) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the bar.
func (b Bar) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Tick is an x-axis label anchored below a segment's column.
type Tick struct {
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Label string  `json:"label" bson:"label"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

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
	if l.FrameWidth <= 0 || l.FrameHeight <= 0 {
		return Layout{}, fmt.Errorf("layout must have positive frame dimensions")
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
