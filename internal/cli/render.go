package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/knotedit/pkg/cache"
	"github.com/matzehuels/knotedit/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path, "-" for stdout
	format   string  // dot, svg, pdf or png
	detailed bool    // show positions and style overrides on nodes
	scale    float64 // diagram units per inch
	noCache  bool    // render even when the picture is cached
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(render.FormatSVG), scale: 72}

	cmd := &cobra.Command{
		Use:   "render DOCUMENT|FILE",
		Short: "Draw a knot diagram",
		Long: `Draw a stored document or a document file.

DOT and SVG need nothing else; PDF and PNG are converted from SVG with
rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: NAME.FORMAT)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with positions and style overrides")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "diagram units per inch")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, ref string, opts renderOpts) error {
	ctx := cmd.Context()
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	doc, name, err := c.loadDocument(ctx, ref)
	if err != nil {
		return err
	}
	g, err := doc.Graph()
	if err != nil {
		return err
	}

	rc := newCache(opts.noCache)
	defer rc.Close()

	prog := newProgress(loggerFromContext(ctx))
	sp := startSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %s...", name))
	data, err := renderCached(ctx, rc, render.ToDOT(g, render.Options{Detailed: opts.detailed, Scale: opts.scale}), format)
	if err != nil {
		if sp.interrupted() {
			sp.stop()
			return ctx.Err()
		}
		sp.fail("Render failed")
		return err
	}
	sp.stop()

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	path := opts.output
	if path == "" {
		path = name + "." + string(format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	prog.done("Rendered " + path)
	printFile(cmd.OutOrStdout(), path)
	return nil
}

// renderTTL bounds how long unused pictures stay in the cache.
const renderTTL = 7 * 24 * time.Hour

// renderCached renders dot, reusing a cached picture of the same source.
// Cache failures only cost the cache.
func renderCached(ctx context.Context, rc cache.Cache, dot string, format render.Format) ([]byte, error) {
	logger := loggerFromContext(ctx)
	key := cache.RenderKey(dot, string(format))
	if data, ok, err := rc.Get(ctx, key); err != nil {
		logger.Warn("read render cache", "err", err)
	} else if ok {
		logger.Debug("render cache hit", "format", format)
		return data, nil
	}

	data, err := render.Render(ctx, dot, format)
	if err != nil {
		return nil, err
	}
	if err := rc.Set(ctx, key, data, renderTTL); err != nil {
		logger.Warn("write render cache", "err", err)
	}
	return data, nil
}
