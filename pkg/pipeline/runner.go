package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cdyellick/ponte/pkg/bridge"
	"github.com/cdyellick/ponte/pkg/cache"
	"github.com/cdyellick/ponte/pkg/chartfile"
	"github.com/cdyellick/ponte/pkg/errors"
	"github.com/cdyellick/ponte/pkg/observability"
	"github.com/cdyellick/ponte/pkg/render"
	"github.com/cdyellick/ponte/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ExecuteFile loads a definition file and runs the full pipeline on it.
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", path)
	}
	def, err := chartfile.Parse(path, data)
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, def, opts)
}

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, def chartfile.Definition, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build (validate and compute offsets)
	buildStart := time.Now()
	chart, err := r.buildStage(def)
	if err != nil {
		return nil, err
	}
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.SegmentCount = chart.SegmentCount()
	result.Stats.LayerCount = chart.LayerCount()

	canonical, err := def.Canonical()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding definition")
	}
	result.DefinitionHash = cache.Hash(canonical)

	r.Logger.Info("built chart",
		"segments", chart.SegmentCount(),
		"layers", chart.LayerCount(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, chart, def.Title, result.DefinitionHash, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.BarCount = len(layout.Bars)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"bars", len(layout.Bars),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// buildStage constructs the chart, reporting to observability hooks.
func (r *Runner) buildStage(def chartfile.Definition) (*bridge.Chart, error) {
	hooks := observability.Pipeline()
	hooks.StageStarted("build")
	start := time.Now()
	chart, err := def.Build()
	hooks.StageCompleted("build", time.Since(start), err)
	return chart, err
}

// BuildChart constructs the core chart from a definition. Exposed for
// callers that only need validation and offsets, not pixels.
func (r *Runner) BuildChart(def chartfile.Definition) (*bridge.Chart, error) {
	return r.buildStage(def)
}

// ComputeLayoutWithCacheInfo computes a layout with caching and reports
// whether the cache was hit.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, chart *bridge.Chart, defTitle, defHash string, opts Options) (render.Layout, bool, error) {
	opts.setDefaults()
	hooks := observability.Pipeline()
	hooks.StageStarted("layout")
	start := time.Now()

	cacheKey := r.Keyer.LayoutKey(defHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, cacheKey); hit {
			cached, err := render.UnmarshalLayout(data)
			if err == nil {
				hooks.StageCompleted("layout", time.Since(start), nil)
				return cached, true, nil
			}
			// Corrupt entry, recompute below
		}
	}

	layout := render.BuildLayout(chart, opts.LayoutOptions(defTitle))

	if data, err := render.MarshalLayout(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	hooks.StageCompleted("layout", time.Since(start), nil)
	return layout, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, chart *bridge.Chart, defTitle, defHash string, opts Options) (render.Layout, error) {
	layout, _, err := r.ComputeLayoutWithCacheInfo(ctx, chart, defTitle, defHash, opts)
	return layout, err
}

// RenderWithCacheInfo renders all requested formats with caching and
// reports whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout render.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.StageStarted("render")
	start := time.Now()

	layoutData, err := render.MarshalLayout(layout)
	if err != nil {
		hooks.StageCompleted("render", time.Since(start), err)
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encoding layout")
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit := r.cacheGet(ctx, cacheKey)
			if !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		hooks.StageCompleted("render", time.Since(start), nil)
		return artifacts, true, nil
	}

	for _, format := range opts.Formats {
		data, err := renderFormat(layout, format, opts)
		if err != nil {
			hooks.StageCompleted("render", time.Since(start), err)
			return nil, false, err
		}
		artifacts[format] = data
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	hooks.StageCompleted("render", time.Since(start), nil)
	return artifacts, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout render.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// renderFormat dispatches to the sink for one output format.
func renderFormat(layout render.Layout, format string, opts Options) ([]byte, error) {
	style, err := resolveStyle(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.ShowValues {
		svgOpts = append(svgOpts, sink.WithValues())
	}
	if opts.HideBaseline {
		svgOpts = append(svgOpts, sink.WithoutBaseline())
	}

	switch format {
	case FormatSVG:
		return sink.RenderSVG(layout, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(layout, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(layout, svgOpts...)
	case FormatJSON:
		return sink.RenderJSON(layout)
	default:
		return nil, ValidateFormat(format)
	}
}

// cacheGet wraps Cache.Get and feeds the cache observability hooks.
func (r *Runner) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().CacheMiss(key)
		return nil, false
	}
	observability.Cache().CacheHit(key)
	return data, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
