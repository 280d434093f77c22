// Package styles defines the visual themes for bridge chart rendering.
//
// This is the only place where a layer's opaque style map is interpreted.
// Recognized keys:
//   - "color":   fill color for the layer's bars (hex string)
//   - "opacity": fill opacity (float in 0..1)
//   - "label":   legend text for the layer
//
// Unrecognized keys are ignored; the core and layout stages forward the map
// untouched.
package styles

import "bytes"

// Style defines the visual appearance for bridge chart rendering.
// Implementations control how bars, axis ticks, and chrome are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content and the frame background.
	RenderDefs(buf *bytes.Buffer, frameWidth, frameHeight float64)
	// RenderBar writes the SVG for a single bar rectangle.
	RenderBar(buf *bytes.Buffer, b Bar)
	// RenderValue writes the SVG for a bar's value label.
	RenderValue(buf *bytes.Buffer, b Bar)
	// RenderTick writes the SVG for one x-axis segment label.
	RenderTick(buf *bytes.Buffer, t Tick)
	// RenderBaseline writes the SVG for the zero line.
	RenderBaseline(buf *bytes.Buffer, y, left, right float64)
	// RenderTitle writes the SVG for the chart title.
	RenderTitle(buf *bytes.Buffer, title string, frameWidth float64)
}

// Bar contains all data needed to render a single bar.
type Bar struct {
	ID         string  // stable element id ("bar-<layer>-<segment>")
	X, Y, W, H float64 // position and dimensions
	CX, CY     float64 // center coordinates (for value text)
	Value      float64 // raw chart value
	Color      string  // resolved fill color
	Opacity    float64 // resolved fill opacity (0..1]
	Negative   bool    // value < 0, drawn hanging below its offset
}

// Tick contains positioning data for an x-axis label.
type Tick struct {
	X, Y  float64
	Label string
}

// palette is the default layer color cycle, applied when a layer's style
// map does not set "color".
var palette = []string{
	"#4e79a7", "#f28e2b", "#59a14f", "#e15759",
	"#76b7b2", "#edc948", "#b07aa1", "#9c755f",
}

// ResolveColor picks a bar fill color from the layer's opaque style map,
// falling back to the default palette by layer index.
func ResolveColor(style map[string]any, layerIndex int) string {
	if style != nil {
		if c, ok := style["color"].(string); ok && c != "" {
			return c
		}
	}
	return palette[layerIndex%len(palette)]
}

// ResolveOpacity picks the fill opacity from the style map, defaulting to 1.
func ResolveOpacity(style map[string]any) float64 {
	if style != nil {
		switch v := style["opacity"].(type) {
		case float64:
			if v > 0 && v <= 1 {
				return v
			}
		case int64: // TOML integers decode as int64
			if v == 1 {
				return 1
			}
		}
	}
	return 1
}

// ResolveLabel picks the legend label from the style map, if any.
func ResolveLabel(style map[string]any) string {
	if style != nil {
		if l, ok := style["label"].(string); ok {
			return l
		}
	}
	return ""
}
