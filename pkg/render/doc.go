// Package render draws knot graphs with Graphviz.
//
// The knot itself is not rendered here. The output is a node-link picture
// of the edit graph: nodes pinned at their diagram positions, edges styled
// by their resolved edge type and colored with the display colors. It is
// what the CLI and the HTTP API show as a preview.
//
//	dot := render.ToDOT(g, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// PDF and PNG output convert the SVG with the external rsvg-convert tool
// from librsvg; [Render] picks the steps for a [Format]:
//
//	png, err := render.Render(ctx, dot, render.FormatPNG)
//
// # Edge types
//
// Edges are drawn by type: regular edges solid, inverted edges bold,
// walls dashed, and holes dotted in grey.
package render
