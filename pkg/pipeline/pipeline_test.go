package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/cdyellick/ponte/pkg/cache"
	"github.com/cdyellick/ponte/pkg/chartfile"
	"github.com/cdyellick/ponte/pkg/errors"
	"github.com/cdyellick/ponte/pkg/render"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func sampleDefinition() chartfile.Definition {
	return chartfile.Definition{
		Title:    "Cash bridge",
		Segments: []string{"Start", "Delta", "End"},
		Totals:   []bool{true, false, true},
		Layers: []chartfile.LayerDef{
			{Values: []float64{100, 20, 120}},
		},
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("frame defaults = %gx%g, want %gx%g", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != StyleSimple {
		t.Errorf("Style = %q, want simple", opts.Style)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %g, want %g", opts.Scale, DefaultScale)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad format", Options{Formats: []string{"bmp"}}, errors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "neon"}, errors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if errors.GetCode(err) != tt.code {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	result, err := r.Execute(context.Background(), sampleDefinition(), Options{
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.DefinitionHash == "" {
		t.Error("DefinitionHash should be set")
	}
	if result.Stats.SegmentCount != 3 || result.Stats.LayerCount != 1 {
		t.Errorf("stats = %d segments %d layers, want 3 and 1",
			result.Stats.SegmentCount, result.Stats.LayerCount)
	}
	if result.Stats.BarCount != 3 {
		t.Errorf("BarCount = %d, want 3", result.Stats.BarCount)
	}

	svg, ok := result.Artifacts[FormatSVG]
	if !ok || !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg artifact missing or malformed")
	}

	jsonData, ok := result.Artifacts[FormatJSON]
	if !ok {
		t.Fatal("json artifact missing")
	}
	layout, err := render.UnmarshalLayout(jsonData)
	if err != nil {
		t.Fatalf("json artifact should round-trip: %v", err)
	}
	if layout.Title != "Cash bridge" {
		t.Errorf("layout title = %q, want definition title", layout.Title)
	}
}

func TestExecuteTitleOverride(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())

	result, err := r.Execute(context.Background(), sampleDefinition(), Options{
		Title:   "Override",
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	layout, err := render.UnmarshalLayout(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if layout.Title != "Override" {
		t.Errorf("layout title = %q, want Override", layout.Title)
	}
}

func TestExecuteInvalidDefinition(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())

	def := sampleDefinition()
	def.Layers[0].Values = []float64{1, 2} // wrong length

	_, err := r.Execute(context.Background(), def, Options{})
	if errors.GetCode(err) != errors.ErrCodeInvalidLayer {
		t.Errorf("code = %v, want ErrCodeInvalidLayer", errors.GetCode(err))
	}
}

func TestExecuteCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := NewRunner(c, nil, quietLogger())
	defer r.Close()

	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG}}

	first, err := r.Execute(ctx, sampleDefinition(), opts)
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}

	second, err := r.Execute(ctx, sampleDefinition(), opts)
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit the cache, got %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached artifact should match the original")
	}

	// Refresh bypasses the cache entirely.
	refreshed, err := r.Execute(ctx, sampleDefinition(), Options{Formats: []string{FormatSVG}, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute error: %v", err)
	}
	if refreshed.CacheInfo.LayoutHit || refreshed.CacheInfo.RenderHit {
		t.Error("refresh run should not hit the cache")
	}
}

func TestExecuteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.toml")
	content := `
title    = "From file"
segments = ["A", "B"]

[[layer]]
values = [1.0, 2.0]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	r := NewRunner(nil, nil, quietLogger())
	result, err := r.ExecuteFile(context.Background(), path, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("ExecuteFile error: %v", err)
	}
	if result.Stats.SegmentCount != 2 {
		t.Errorf("SegmentCount = %d, want 2", result.Stats.SegmentCount)
	}
}

func TestExecuteFileMissing(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.ExecuteFile(context.Background(), "/does/not/exist.toml", Options{})
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("code = %v, want ErrCodeFileNotFound", errors.GetCode(err))
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", f, err)
		}
	}
	if err := ValidateFormat("gif"); err == nil {
		t.Error("ValidateFormat(gif) should error")
	}
}
