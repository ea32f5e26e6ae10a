package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

var (
	// ErrUnknownFormat is returned for output formats other than [Format]'s.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrMissingTool is returned when an external converter is not installed.
	ErrMissingTool = errors.New("missing conversion tool")
)

// Format is an output format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat returns the format with the given name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDOT, FormatSVG, FormatPDF, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options configures the picture.
type Options struct {
	// Detailed adds positions and style overrides to node labels.
	// When false, only the node ID is shown.
	Detailed bool

	// Scale is the number of diagram units per inch. Defaults to 72.
	Scale float64
}

// ToDOT converts a graph to Graphviz DOT for the neato engine. Node
// positions are pinned, so the picture matches the diagram coordinates
// (with the y axis pointing down). Selected entities are highlighted.
func ToDOT(g *graph.Graph, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = 72
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=true];\n")
	fmt.Fprintf(&buf, "  edge [penwidth=%s];\n", num(max(g.Display.Width/2, 1)))
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := nodeAttrs(n, scale, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(n), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, e := range g.Edges() {
		attrs := edgeAttrs(e, e.Style.Resolve(g.EdgeStyle), g.Display.StrandColor(i))
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", nodeID(e.Vertex1()), nodeID(e.Vertex2()), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(n *graph.Node) string { return strconv.FormatUint(uint64(n.ID()), 10) }

func nodeAttrs(n *graph.Node, scale float64, detailed bool) []string {
	p := n.Pos()
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, detailed)),
		fmt.Sprintf("pos=\"%s,%s!\"", num(p.X/scale), num(-p.Y/scale)),
	}
	if n.Style.Enabled != style.NodeNothing {
		attrs = append(attrs, "shape=doublecircle")
	}
	if n.Selected {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

func nodeLabel(n *graph.Node, detailed bool) string {
	id := nodeID(n)
	if !detailed {
		return id
	}
	parts := []string{id, n.Pos().String()}
	if f := n.Style.Enabled; f != style.NodeNothing {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(e *graph.Edge, s style.EdgeStyle, c style.Color) []string {
	color := c.String()
	var attrs []string
	switch s.Type {
	case style.EdgeInverted:
		attrs = append(attrs, "style=bold")
	case style.EdgeWall:
		attrs = append(attrs, "style=dashed")
	case style.EdgeHole:
		attrs = append(attrs, "style=dotted")
		color = "grey"
	}
	if e.Selected {
		attrs = append(attrs, "penwidth=4")
	}
	return append([]string{fmt.Sprintf("color=%q", color)}, attrs...)
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG renders DOT with the neato engine and returns the SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching width and height, so the SVG scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
