// Package sink generates final output artifacts (SVG, PNG, PDF, JSON) from
// a computed chart layout.
package sink

import (
	"bytes"
	"fmt"

	"github.com/cdyellick/ponte/pkg/render"
	"github.com/cdyellick/ponte/pkg/render/styles"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style        styles.Style
	showValues   bool
	hideBaseline bool
}

// WithStyle sets the visual style (default styles.Simple).
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithValues draws each bar's value inside the bar when it fits.
func WithValues() SVGOption { return func(r *svgRenderer) { r.showValues = true } }

// WithoutBaseline suppresses the dashed zero line.
func WithoutBaseline() SVGOption { return func(r *svgRenderer) { r.hideBaseline = true } }

// RenderSVG draws a layout as an SVG document. Bars are drawn in stacking
// order (the layout already lists them bottom-to-top), then the baseline,
// axis ticks, and title.
func RenderSVG(l render.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.FrameWidth, l.FrameHeight, l.FrameWidth, l.FrameHeight)

	r.style.RenderDefs(&buf, l.FrameWidth, l.FrameHeight)

	if !r.hideBaseline && len(l.Bars) > 0 {
		r.style.RenderBaseline(&buf, l.Baseline, 0, l.FrameWidth)
	}

	bars := buildBars(l)
	for _, b := range bars {
		r.style.RenderBar(&buf, b)
	}
	if r.showValues {
		for _, b := range bars {
			r.style.RenderValue(&buf, b)
		}
	}

	for _, t := range l.Ticks {
		r.style.RenderTick(&buf, styles.Tick{X: t.X, Y: t.Y, Label: t.Label})
	}
	r.style.RenderTitle(&buf, l.Title, l.FrameWidth)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// buildBars resolves each layout bar's opaque style map into concrete
// render data. This is the only point where style maps are interpreted.
func buildBars(l render.Layout) []styles.Bar {
	bars := make([]styles.Bar, 0, len(l.Bars))
	for _, b := range l.Bars {
		bars = append(bars, styles.Bar{
			ID: fmt.Sprintf("bar-%d-%d", b.Layer, b.Segment),
			X:  b.Left, Y: b.Top,
			W: b.Width(), H: b.Height(),
			CX: b.CenterX(), CY: b.CenterY(),
			Value:    b.Value,
			Color:    styles.ResolveColor(b.Style, b.Layer),
			Opacity:  styles.ResolveOpacity(b.Style),
			Negative: b.Value < 0,
		})
	}
	return bars
}
