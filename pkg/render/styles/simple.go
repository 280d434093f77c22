package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	tickFontSize  = 13.0
	valueFontSize = 11.0
	titleFontSize = 18.0
)

// Simple is the default flat style: light background, solid fills, thin
// strokes, sans-serif labels.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer, frameWidth, frameHeight float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#ffffff"/>`+"\n",
		frameWidth, frameHeight)
}

func (Simple) RenderBar(buf *bytes.Buffer, b Bar) {
	fmt.Fprintf(buf,
		`  <rect id="%s" class="bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.2f" stroke="#33333355" stroke-width="1"/>`+"\n",
		EscapeXML(b.ID), b.X, b.Y, b.W, b.H, EscapeXML(b.Color), b.Opacity)
}

func (Simple) RenderValue(buf *bytes.Buffer, b Bar) {
	if b.H < valueFontSize*1.2 {
		return // not enough room inside the bar
	}
	fmt.Fprintf(buf,
		`  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f" fill="#1a1a1a" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		b.CX, b.CY, valueFontSize, FormatValue(b.Value))
}

func (Simple) RenderTick(buf *bytes.Buffer, t Tick) {
	fmt.Fprintf(buf,
		`  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f" fill="#444444" text-anchor="middle">%s</text>`+"\n",
		t.X, t.Y, tickFontSize, EscapeXML(t.Label))
}

func (Simple) RenderBaseline(buf *bytes.Buffer, y, left, right float64) {
	fmt.Fprintf(buf,
		`  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#888888" stroke-width="1" stroke-dasharray="4 3"/>`+"\n",
		left, y, right, y)
}

func (Simple) RenderTitle(buf *bytes.Buffer, title string, frameWidth float64) {
	if title == "" {
		return
	}
	fmt.Fprintf(buf,
		`  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f" font-weight="bold" fill="#1a1a1a" text-anchor="middle">%s</text>`+"\n",
		frameWidth/2, titleFontSize*1.6, titleFontSize, EscapeXML(title))
}

var _ Style = Simple{}

// Dark is Simple on a dark background with lightened strokes and text.
type Dark struct{}

func (Dark) RenderDefs(buf *bytes.Buffer, frameWidth, frameHeight float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#1e1e24"/>`+"\n",
		frameWidth, frameHeight)
}

func (Dark) RenderBar(buf *bytes.Buffer, b Bar) {
	fmt.Fprintf(buf,
		`  <rect id="%s" class="bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.2f" stroke="#ffffff33" stroke-width="1"/>`+"\n",
		EscapeXML(b.ID), b.X, b.Y, b.W, b.H, EscapeXML(b.Color), b.Opacity)
}

func (Dark) RenderValue(buf *bytes.Buffer, b Bar) {
	if b.H < valueFontSize*1.2 {
		return
	}
	fmt.Fprintf(buf,
		`  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f" fill="#f0f0f0" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		b.CX, b.CY, valueFontSize, FormatValue(b.Value))
}

func (Dark) RenderTick(buf *bytes.Buffer, t Tick) {
	fmt.Fprintf(buf,
		`  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f" fill="#c8c8c8" text-anchor="middle">%s</text>`+"\n",
		t.X, t.Y, tickFontSize, EscapeXML(t.Label))
}

func (Dark) RenderBaseline(buf *bytes.Buffer, y, left, right float64) {
	fmt.Fprintf(buf,
		`  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#aaaaaa" stroke-width="1" stroke-dasharray="4 3"/>`+"\n",
		left, y, right, y)
}

func (Dark) RenderTitle(buf *bytes.Buffer, title string, frameWidth float64) {
	if title == "" {
		return
	}
	fmt.Fprintf(buf,
		`  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f" font-weight="bold" fill="#f0f0f0" text-anchor="middle">%s</text>`+"\n",
		frameWidth/2, titleFontSize*1.6, titleFontSize, EscapeXML(title))
}

var _ Style = Dark{}

// EscapeXML escapes text for safe embedding in SVG attributes and content.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// FormatValue renders a chart value compactly: integers without decimals,
// everything else with at most two.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
