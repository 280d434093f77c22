// Package pipeline runs the build → layout → render pipeline for bridge
// charts, with per-stage caching.
//
// Centralizing the pipeline keeps the CLI and the HTTP service behaving
// identically. Create a Runner and execute it against a parsed definition:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, def, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Individual stages can also be run on their own via BuildChart,
// ComputeLayout, and Render.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cdyellick/ponte/pkg/cache"
	"github.com/cdyellick/ponte/pkg/errors"
	"github.com/cdyellick/ponte/pkg/render"
	"github.com/cdyellick/ponte/pkg/render/styles"
)

// Default frame dimensions, shared by CLI and service.
const (
	DefaultWidth  = render.DefaultWidth
	DefaultHeight = render.DefaultHeight

	// DefaultScale is the PNG supersampling factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Style constants for visual styles.
const (
	StyleSimple = "simple"
	StyleDark   = "dark"
)

// DefaultStyle is the default visual style.
const DefaultStyle = StyleSimple

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleSimple: true,
	StyleDark:   true,
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Title   string  `json:"title,omitempty"` // overrides the definition's title
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	MarginX float64 `json:"margin_x,omitempty"`
	MarginY float64 `json:"margin_y,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Style        string   `json:"style,omitempty"`
	ShowValues   bool     `json:"show_values,omitempty"`
	HideBaseline bool     `json:"hide_baseline,omitempty"`
	Scale        float64  `json:"scale,omitempty"` // PNG only

	// Refresh bypasses the cache and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DefinitionHash is the content hash of the canonical definition.
	DefinitionHash string

	// Layout is the computed pixel-space layout.
	Layout render.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SegmentCount int
	LayerCount   int
	BarCount     int
	BuildTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style %q (must be one of: simple, dark)", style)
	}
	return nil
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.setDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	o.validated = true
	return nil
}

func (o *Options) setDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions returns the render options for layout computation.
func (o *Options) LayoutOptions(defTitle string) render.Options {
	title := o.Title
	if title == "" {
		title = defTitle
	}
	return render.Options{
		Title:   title,
		Width:   o.Width,
		Height:  o.Height,
		MarginX: o.MarginX,
		MarginY: o.MarginY,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Title:   o.Title,
		Width:   o.Width,
		Height:  o.Height,
		MarginX: o.MarginX,
		MarginY: o.MarginY,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Style:      o.Style,
		ShowValues: o.ShowValues,
		Scale:      o.Scale,
	}
}

// resolveStyle maps a style name to its implementation.
func resolveStyle(name string) (styles.Style, error) {
	switch name {
	case StyleSimple, "":
		return styles.Simple{}, nil
	case StyleDark:
		return styles.Dark{}, nil
	default:
		return nil, ValidateStyle(name)
	}
}
