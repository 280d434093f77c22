package render

import (
	"math"

	"github.com/cdyellick/ponte/pkg/bridge"
)

const eps = 1e-9

// Default frame dimensions in pixels.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

const (
	defaultMarginX = 40.0
	defaultMarginY = 48.0
	barWidthRatio  = 0.7 // bar width as a fraction of its segment slot
)

// Options controls the pixel-space framing of a layout.
type Options struct {
	Title   string
	Width   float64 // frame width; DefaultWidth if zero
	Height  float64 // frame height; DefaultHeight if zero
	MarginX float64
	MarginY float64
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.MarginX <= 0 {
		o.MarginX = defaultMarginX
	}
	if o.MarginY <= 0 {
		o.MarginY = defaultMarginY
	}
}

// BuildLayout maps a chart's computed offsets into pixel space. Every
// non-gap value becomes one Bar; the value range across all layers
// (always including zero) is fitted to the frame's plot area.
func BuildLayout(chart *bridge.Chart, opts Options) Layout {
	opts.setDefaults()

	n := chart.SegmentCount()
	lo, hi := valueRange(chart)

	plotW := opts.Width - 2*opts.MarginX
	plotH := opts.Height - 2*opts.MarginY

	// py maps a chart value to a pixel y (larger values sit higher).
	span := hi - lo
	if span < eps {
		span = 1
	}
	py := func(v float64) float64 {
		return opts.MarginY + (hi-v)*plotH/span
	}

	l := Layout{
		Title:       opts.Title,
		FrameWidth:  opts.Width,
		FrameHeight: opts.Height,
		Baseline:    py(0),
	}

	var slot float64
	if n > 0 {
		slot = plotW / float64(n)
	}
	inset := slot * (1 - barWidthRatio) / 2

	li := 0
	for layer := range chart.Layers() {
		for i, v := range layer.Values {
			if math.IsNaN(v) {
				continue
			}
			b := layer.Bottom[i]
			t := b + v
			l.Bars = append(l.Bars, Bar{
				Segment: i,
				Layer:   li,
				Left:    opts.MarginX + slot*float64(i) + inset,
				Right:   opts.MarginX + slot*float64(i+1) - inset,
				Top:     py(math.Max(b, t)),
				Bottom:  py(math.Min(b, t)),
				Value:   v,
				Style:   layer.Style,
			})
		}
		li++
	}

	for i, label := range chart.SegmentLabels() {
		l.Ticks = append(l.Ticks, Tick{
			X:     opts.MarginX + slot*(float64(i)+0.5),
			Y:     opts.Height - opts.MarginY/2,
			Label: label,
		})
	}

	return l
}

// valueRange finds the extent of all stacked extents, anchored at zero.
func valueRange(chart *bridge.Chart) (lo, hi float64) {
	for layer := range chart.Layers() {
		for i, v := range layer.Values {
			if math.IsNaN(v) {
				continue
			}
			b := layer.Bottom[i]
			lo = math.Min(lo, math.Min(b, b+v))
			hi = math.Max(hi, math.Max(b, b+v))
		}
	}
	return lo, hi
}
