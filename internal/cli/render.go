package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cdyellick/ponte/pkg/cache"
	"github.com/cdyellick/ponte/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "svg", "png", "pdf", "json"
	style      string   // visual style: "simple" or "dark"
	title      string   // title override
	width      float64  // frame width in pixels
	height     float64  // frame height in pixels
	showValues bool     // draw values inside the bars
	noBaseline bool     // suppress the zero line
	scale      float64  // PNG supersampling factor
	refresh    bool     // recompute even when cached
	noCache    bool     // disable the cache entirely
}

// newRenderCmd creates the render command for generating chart output.
// It reads a TOML or JSON definition file and writes one file per format.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		style:  pipeline.DefaultStyle,
		width:  pipeline.DefaultWidth,
		height: pipeline.DefaultHeight,
		scale:  pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a chart definition to SVG, PNG, PDF, or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&opts.style, "style", opts.style, "visual style: simple (default), dark")
	cmd.Flags().StringVar(&opts.title, "title", "", "override the definition's title")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "frame height")
	cmd.Flags().BoolVar(&opts.showValues, "values", false, "draw values inside the bars")
	cmd.Flags().BoolVar(&opts.noBaseline, "no-baseline", false, "hide the zero baseline")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output carries a
// format extension (.svg, .png, ...), that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender executes the pipeline on the input file and writes one output
// file per requested format.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)
	p := newProgress(logger)

	c, err := openCache(opts.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, nil, logger)
	defer runner.Close()

	result, err := runner.ExecuteFile(ctx, input, pipeline.Options{
		Title:        opts.title,
		Width:        opts.width,
		Height:       opts.height,
		Formats:      opts.formats,
		Style:        opts.style,
		ShowValues:   opts.showValues,
		HideBaseline: opts.noBaseline,
		Scale:        opts.scale,
		Refresh:      opts.refresh,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = fmt.Sprintf("%s.%s", base, format)
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		printFile(path)
	}

	p.done(fmt.Sprintf("Rendered %d format(s)", len(opts.formats)))
	printStats(result.Stats.SegmentCount, result.Stats.LayerCount, result.Stats.BarCount,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// openCache constructs the file cache, or a null cache when disabled.
func openCache(disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}
