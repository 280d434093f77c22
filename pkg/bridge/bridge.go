// Package bridge computes the vertical layout of bridge (waterfall) charts.
//
// A bridge chart is a stacked bar chart where each segment along the x-axis
// is either an increment (it continues the running sum of everything to its
// left) or a total (it restarts from the height already stacked at its own
// position). Charts are built from one or more layers; each layer holds one
// value per segment, and a layer's vertical placement depends on every layer
// stacked beneath it.
//
// The package owns no drawing logic. It exposes the computed bottom offset
// of every segment in every layer; a rendering collaborator (see pkg/render)
// consumes those offsets to place bars.
//
// # Usage
//
//	chart, err := bridge.New(
//	    []string{"Start", "Product", "Churn", "End"},
//	    bridge.WithTotals([]bool{true, false, false, true}),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := chart.AddLayer([]float64{120, 30, -18, 132}); err != nil {
//	    return err
//	}
//	for layer := range chart.Layers() {
//	    // layer.Values, layer.Bottom, layer.Style
//	}
//
// A Chart is not safe for concurrent mutation; callers sharing one across
// goroutines must serialize access.
package bridge

import (
	"iter"
	"slices"

	"github.com/cdyellick/ponte/pkg/errors"
)

// Layer is one stacked band of segment values together with its computed
// bottom offsets. Values may contain NaN entries marking gaps: a gap
// contributes zero height but is preserved as-is so renderers can decide
// how to draw it.
type Layer struct {
	Values []float64      // raw per-segment values; NaN marks a gap
	Bottom []float64      // computed bottom offset per segment
	Style  map[string]any // opaque rendering parameters, forwarded verbatim
}

// Chart holds the ordered segment labels, the totals mask, and the layers
// added so far. Labels and mask are fixed at construction; layers accumulate
// over the chart's lifetime.
type Chart struct {
	labels []string
	totals []bool
	layers []Layer
}

// Option configures a Chart at construction time.
type Option func(*Chart)

// WithTotals marks which segments are totals. Total segments restart
// stacking from the cumulative height at their own position instead of
// continuing the running sum. The mask must have one entry per segment.
func WithTotals(mask []bool) Option {
	return func(c *Chart) { c.totals = slices.Clone(mask) }
}

// New creates a chart with the given segment labels. Without WithTotals,
// every segment is a plain increment. An empty label set is valid and
// yields a chart that accepts only empty layers.
func New(segmentLabels []string, opts ...Option) (*Chart, error) {
	c := &Chart{labels: slices.Clone(segmentLabels)}
	for _, opt := range opts {
		opt(c)
	}
	if c.totals == nil {
		c.totals = make([]bool, len(c.labels))
	} else if len(c.totals) != len(c.labels) {
		return nil, errors.New(errors.ErrCodeInvalidMask,
			"totals mask has %d entries, want %d", len(c.totals), len(c.labels))
	}
	return c, nil
}

// LayerOption configures a single AddLayer call.
type LayerOption func(*layerConfig)

type layerConfig struct {
	atTop bool
	style map[string]any
}

// AtTop appends the layer above all existing layers. The default places new
// layers at the bottom of the stack, shifting everything above them.
func AtTop() LayerOption {
	return func(lc *layerConfig) { lc.atTop = true }
}

// WithStyle attaches opaque rendering parameters to the layer. The map is
// stored and forwarded untouched; this package never inspects it.
func WithStyle(style map[string]any) LayerOption {
	return func(lc *layerConfig) { lc.style = style }
}

// AddLayer inserts a layer of per-segment values and recomputes bottom
// offsets for the entire stack. Values must have one entry per segment;
// on a length mismatch the chart is left unchanged.
//
// Recomputation is always total: a bottom-inserted layer shifts the
// cumulative tops of every layer above it, and total segments make offsets
// history-dependent, so no incremental update can be patched in safely.
func (c *Chart) AddLayer(values []float64, opts ...LayerOption) error {
	if len(values) != len(c.labels) {
		return errors.New(errors.ErrCodeInvalidLayer,
			"layer has %d values, want %d", len(values), len(c.labels))
	}

	var lc layerConfig
	for _, opt := range opts {
		opt(&lc)
	}

	layer := Layer{Values: slices.Clone(values), Style: lc.style}

	next := make([]Layer, 0, len(c.layers)+1)
	if lc.atTop {
		next = append(next, c.layers...)
		next = append(next, layer)
	} else {
		next = append(next, layer)
		next = append(next, c.layers...)
	}

	c.layers = recompute(next, c.totals)
	return nil
}

// Layers returns a restartable sequence of annotated layers in bottom-to-top
// stacking order. Yielded slices are copies; mutating them does not affect
// the chart.
func (c *Chart) Layers() iter.Seq[Layer] {
	return func(yield func(Layer) bool) {
		for _, l := range c.layers {
			out := Layer{
				Values: slices.Clone(l.Values),
				Bottom: slices.Clone(l.Bottom),
				Style:  l.Style,
			}
			if !yield(out) {
				return
			}
		}
	}
}

// SegmentCount returns the number of segments fixed at construction.
func (c *Chart) SegmentCount() int { return len(c.labels) }

// SegmentLabels returns a copy of the segment labels in x-axis order.
func (c *Chart) SegmentLabels() []string { return slices.Clone(c.labels) }

// Totals returns a copy of the totals mask.
func (c *Chart) Totals() []bool { return slices.Clone(c.totals) }

// LayerCount returns the number of layers added so far.
func (c *Chart) LayerCount() int { return len(c.layers) }
