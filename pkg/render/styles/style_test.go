package styles

import (
	"bytes"
	"strings"
	"testing"
)

func TestResolveColor(t *testing.T) {
	tests := []struct {
		name  string
		style map[string]any
		layer int
		want  string
	}{
		{"explicit color", map[string]any{"color": "#123456"}, 0, "#123456"},
		{"nil style uses palette", nil, 0, "#4e79a7"},
		{"empty color uses palette", map[string]any{"color": ""}, 1, "#f28e2b"},
		{"palette wraps", nil, 8, "#4e79a7"},
		{"non-string ignored", map[string]any{"color": 42}, 0, "#4e79a7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveColor(tt.style, tt.layer); got != tt.want {
				t.Errorf("ResolveColor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveOpacity(t *testing.T) {
	if got := ResolveOpacity(map[string]any{"opacity": 0.5}); got != 0.5 {
		t.Errorf("opacity = %v, want 0.5", got)
	}
	if got := ResolveOpacity(nil); got != 1 {
		t.Errorf("default opacity = %v, want 1", got)
	}
	if got := ResolveOpacity(map[string]any{"opacity": 3.0}); got != 1 {
		t.Errorf("out-of-range opacity = %v, want 1", got)
	}
}

func TestResolveLabel(t *testing.T) {
	if got := ResolveLabel(map[string]any{"label": "core"}); got != "core" {
		t.Errorf("label = %q, want core", got)
	}
	if got := ResolveLabel(nil); got != "" {
		t.Errorf("default label = %q, want empty", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{-4, "-4"},
		{2.5, "2.50"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`R&D <net>`); got != "R&amp;D &lt;net&gt;" {
		t.Errorf("EscapeXML = %q", got)
	}
}

func TestSimpleRenderBar(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderBar(&buf, Bar{
		ID: "bar-0-1", X: 10, Y: 20, W: 30, H: 40,
		Color: "#4e79a7", Opacity: 1,
	})

	out := buf.String()
	for _, want := range []string{`id="bar-0-1"`, `x="10.00"`, `height="40.00"`, `fill="#4e79a7"`} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderBar output missing %q: %s", want, out)
		}
	}
}

func TestSimpleRenderValueSkipsTinyBars(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderValue(&buf, Bar{H: 2, Value: 5})
	if buf.Len() != 0 {
		t.Errorf("value rendered inside a bar too small to hold it: %s", buf.String())
	}
}

func TestDarkBackground(t *testing.T) {
	var buf bytes.Buffer
	Dark{}.RenderDefs(&buf, 800, 600)
	if !strings.Contains(buf.String(), "#1e1e24") {
		t.Errorf("Dark defs missing background: %s", buf.String())
	}
}

func TestRenderTitleEmpty(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderTitle(&buf, "", 800)
	if buf.Len() != 0 {
		t.Error("empty title should render nothing")
	}
}
