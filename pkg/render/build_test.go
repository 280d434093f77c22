package render

import (
	"math"
	"testing"

	"github.com/cdyellick/ponte/pkg/bridge"
)

const tolerance = 1e-6

func almost(a, b float64) bool { return math.Abs(a-b) < tolerance }

func mustChart(t *testing.T, labels []string, opts ...bridge.Option) *bridge.Chart {
	t.Helper()
	chart, err := bridge.New(labels, opts...)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return chart
}

func TestBuildLayoutGeometry(t *testing.T) {
	chart := mustChart(t, []string{"A", "B", "C"})
	if err := chart.AddLayer([]float64{10, 20, 30}); err != nil {
		t.Fatalf("AddLayer error: %v", err)
	}

	l := BuildLayout(chart, Options{Title: "demo"})

	if l.FrameWidth != DefaultWidth || l.FrameHeight != DefaultHeight {
		t.Errorf("frame = %vx%v, want defaults", l.FrameWidth, l.FrameHeight)
	}
	if len(l.Bars) != 3 {
		t.Fatalf("bars = %d, want 3", len(l.Bars))
	}

	// Bottoms are [0,10,30]; extents reach 60, so with the default frame
	// (800x600, margins 40/48) one chart unit is 8.4 pixels.
	unit := (DefaultHeight - 2*48.0) / 60.0
	b0 := l.Bars[0]
	if !almost(b0.Left, 76) || !almost(b0.Right, 244) {
		t.Errorf("bar0 x-span = [%v,%v], want [76,244]", b0.Left, b0.Right)
	}
	if !almost(b0.Height(), 10*unit) {
		t.Errorf("bar0 height = %v, want %v", b0.Height(), 10*unit)
	}
	if !almost(l.Baseline, b0.Bottom) {
		t.Errorf("baseline = %v, want bar0 bottom %v", l.Baseline, b0.Bottom)
	}

	// Higher stacked extents sit at smaller pixel y.
	b2 := l.Bars[2]
	if b2.Top >= b0.Top {
		t.Errorf("bar2 top %v should be above bar0 top %v", b2.Top, b0.Top)
	}

	if len(l.Ticks) != 3 {
		t.Fatalf("ticks = %d, want 3", len(l.Ticks))
	}
	if l.Ticks[1].Label != "B" {
		t.Errorf("tick label = %q, want B", l.Ticks[1].Label)
	}
	if !almost(l.Ticks[0].X, b0.CenterX()) {
		t.Errorf("tick x = %v, want bar center %v", l.Ticks[0].X, b0.CenterX())
	}
}

func TestBuildLayoutSkipsGaps(t *testing.T) {
	chart := mustChart(t, []string{"A", "B", "C"})
	if err := chart.AddLayer([]float64{10, math.NaN(), 30}); err != nil {
		t.Fatalf("AddLayer error: %v", err)
	}

	l := BuildLayout(chart, Options{})
	if len(l.Bars) != 2 {
		t.Fatalf("bars = %d, want 2 (gap skipped)", len(l.Bars))
	}
	for _, b := range l.Bars {
		if b.Segment == 1 {
			t.Error("gap segment should produce no bar")
		}
	}
}

func TestBuildLayoutNegativeValues(t *testing.T) {
	chart := mustChart(t, []string{"A", "B"})
	if err := chart.AddLayer([]float64{10, -4}); err != nil {
		t.Fatalf("AddLayer error: %v", err)
	}

	l := BuildLayout(chart, Options{})
	for _, b := range l.Bars {
		if b.Height() < 0 {
			t.Errorf("bar height negative: %v", b.Height())
		}
	}
	// Segment B spans offset 10 down to 6: both edges above the baseline.
	b1 := l.Bars[1]
	if b1.Bottom > l.Baseline {
		t.Errorf("negative bar bottom %v should stay above baseline %v", b1.Bottom, l.Baseline)
	}
}

func TestBuildLayoutEmptyChart(t *testing.T) {
	chart := mustChart(t, []string{"A", "B"})

	l := BuildLayout(chart, Options{Width: 400, Height: 300})
	if len(l.Bars) != 0 {
		t.Errorf("bars = %d, want 0", len(l.Bars))
	}
	if len(l.Ticks) != 2 {
		t.Errorf("ticks = %d, want 2", len(l.Ticks))
	}
	if l.FrameWidth != 400 || l.FrameHeight != 300 {
		t.Errorf("frame = %vx%v, want 400x300", l.FrameWidth, l.FrameHeight)
	}
}

func TestBuildLayoutZeroSegments(t *testing.T) {
	chart := mustChart(t, nil)
	l := BuildLayout(chart, Options{})
	if len(l.Bars) != 0 || len(l.Ticks) != 0 {
		t.Errorf("degenerate chart produced bars=%d ticks=%d", len(l.Bars), len(l.Ticks))
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	chart := mustChart(t, []string{"A", "B"}, bridge.WithTotals([]bool{false, true}))
	if err := chart.AddLayer([]float64{3, 7}); err != nil {
		t.Fatalf("AddLayer error: %v", err)
	}
	l := BuildLayout(chart, Options{Title: "round trip"})

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout error: %v", err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout error: %v", err)
	}

	if back.Title != l.Title || len(back.Bars) != len(l.Bars) || len(back.Ticks) != len(l.Ticks) {
		t.Errorf("round trip mismatch: %+v vs %+v", back, l)
	}
	if !almost(back.Bars[0].Bottom, l.Bars[0].Bottom) {
		t.Errorf("bar bottom drifted: %v vs %v", back.Bars[0].Bottom, l.Bars[0].Bottom)
	}
}

func TestUnmarshalLayoutRejectsBadFrames(t *testing.T) {
	if _, err := UnmarshalLayout([]byte(`{"width":0,"height":600}`)); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := UnmarshalLayout([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
