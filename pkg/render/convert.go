package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// rsvg is the librsvg command line converter.
const rsvg = "rsvg-convert"

// pngZoom is the resolution factor of PNG output relative to the SVG.
const pngZoom = "2"

// Convert turns an SVG picture into PDF or PNG with rsvg-convert.
func Convert(ctx context.Context, svg []byte, format Format) ([]byte, error) {
	args := []string{"--format", string(format)}
	switch format {
	case FormatPDF:
	case FormatPNG:
		args = append(args, "--zoom", pngZoom)
	default:
		return nil, fmt.Errorf("%w: cannot convert svg to %q", ErrUnknownFormat, format)
	}

	bin, err := exec.LookPath(rsvg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s output needs %s from librsvg", ErrMissingTool, format, rsvg)
	}

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &out, &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", rsvg, err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}

// Render produces the graph picture in the given format.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPDF, FormatPNG:
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		return Convert(ctx, svg, format)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
