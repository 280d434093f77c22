package sink

import (
	"strings"
	"testing"

	"github.com/cdyellick/ponte/pkg/bridge"
	"github.com/cdyellick/ponte/pkg/render"
	"github.com/cdyellick/ponte/pkg/render/styles"
)

func demoLayout(t *testing.T) render.Layout {
	t.Helper()
	chart, err := bridge.New([]string{"Start", "Delta", "End"},
		bridge.WithTotals([]bool{true, false, true}))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := chart.AddLayer([]float64{100, 20, 120},
		bridge.WithStyle(map[string]any{"color": "#59a14f"})); err != nil {
		t.Fatalf("AddLayer error: %v", err)
	}
	return render.BuildLayout(chart, render.Options{Title: "Cash <bridge>"})
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(demoLayout(t)))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("missing SVG header: %.80s", svg)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("missing closing tag")
	}
	// One rect per bar plus the background.
	if got := strings.Count(svg, "<rect"); got != 4 {
		t.Errorf("rect count = %d, want 4", got)
	}
	// The layer style color must reach the output.
	if !strings.Contains(svg, `fill="#59a14f"`) {
		t.Error("layer color not applied")
	}
	// Title and tick labels are escaped.
	if !strings.Contains(svg, "Cash &lt;bridge&gt;") {
		t.Error("title missing or unescaped")
	}
	for _, label := range []string{"Start", "Delta", "End"} {
		if !strings.Contains(svg, ">"+label+"</text>") {
			t.Errorf("tick label %q missing", label)
		}
	}
	// Baseline drawn by default.
	if !strings.Contains(svg, "<line") {
		t.Error("baseline missing")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l := demoLayout(t)

	plain := string(RenderSVG(l, WithoutBaseline()))
	if strings.Contains(plain, "<line") {
		t.Error("WithoutBaseline should drop the zero line")
	}

	withValues := string(RenderSVG(l, WithValues()))
	if !strings.Contains(withValues, ">100</text>") {
		t.Error("WithValues should draw bar values")
	}

	dark := string(RenderSVG(l, WithStyle(styles.Dark{})))
	if !strings.Contains(dark, "#1e1e24") {
		t.Error("WithStyle should switch the theme")
	}
}

func TestRenderSVGEmptyLayout(t *testing.T) {
	l := render.Layout{FrameWidth: 400, FrameHeight: 300}
	svg := string(RenderSVG(l))

	if !strings.Contains(svg, `viewBox="0 0 400.0 300.0"`) {
		t.Errorf("viewBox missing: %.120s", svg)
	}
	// No bars: only the background rect, and no baseline.
	if got := strings.Count(svg, "<rect"); got != 1 {
		t.Errorf("rect count = %d, want 1", got)
	}
	if strings.Contains(svg, "<line") {
		t.Error("empty layout should not draw a baseline")
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	l := demoLayout(t)
	data, err := RenderJSON(l)
	if err != nil {
		t.Fatalf("RenderJSON error: %v", err)
	}
	back, err := render.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout error: %v", err)
	}
	if len(back.Bars) != len(l.Bars) {
		t.Errorf("bars = %d, want %d", len(back.Bars), len(l.Bars))
	}
}
