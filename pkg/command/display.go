package command

import (
	"slices"

	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

// displayField changes one field of the graph display options.
type displayField[T any] struct {
	base
	g             *graph.Graph
	kind          Kind
	before, after T
	set           func(*style.Display, T)
}

func (c *displayField[T]) Redo()          { c.set(&c.g.Display, c.after) }
func (c *displayField[T]) Undo()          { c.set(&c.g.Display, c.before) }
func (c *displayField[T]) ID() Kind       { return c.kind }
func (c *displayField[T]) Effect() Effect { return EffectStyle }

func (c *displayField[T]) MergeWith(next Command) bool {
	if c.kind == KindNone {
		return false
	}
	o, ok := next.(*displayField[T])
	if !ok || o.g != c.g || o.kind != c.kind {
		return false
	}
	c.after = o.after
	return true
}

// ChangeColors returns a command replacing the strand colors.
func ChangeColors(g *graph.Graph, before, after []style.Color) Command {
	return &displayField[[]style.Color]{
		base: base{"Change Colors"}, g: g, kind: KindColors,
		before: slices.Clone(before), after: slices.Clone(after),
		set: func(d *style.Display, v []style.Color) { d.Colors = slices.Clone(v) },
	}
}

// ChangeBorders returns a command replacing the border outlines.
func ChangeBorders(g *graph.Graph, before, after []style.Border) Command {
	return &displayField[[]style.Border]{
		base: base{"Change Borders"}, g: g, kind: KindBorders,
		before: slices.Clone(before), after: slices.Clone(after),
		set: func(d *style.Display, v []style.Border) { d.Borders = slices.Clone(v) },
	}
}

// KnotWidth returns a command changing the stroke width.
func KnotWidth(g *graph.Graph, before, after float64) Command {
	return &displayField[float64]{
		base: base{"Change Knot Width"}, g: g, kind: KindWidth,
		before: before, after: after,
		set: func(d *style.Display, v float64) { d.Width = v },
	}
}

// JoinStyle returns a command changing the pen join style.
func JoinStyle(g *graph.Graph, before, after style.JoinStyle) Command {
	return &displayField[style.JoinStyle]{
		base: base{"Change Joint Style"}, g: g, kind: KindJoinStyle,
		before: before, after: after,
		set: func(d *style.Display, v style.JoinStyle) { d.Join = v },
	}
}

// BrushStyle returns a command changing the stroke fill pattern.
func BrushStyle(g *graph.Graph, before, after style.BrushStyle) Command {
	return &displayField[style.BrushStyle]{
		base: base{"Change Brush Style"}, g: g, kind: KindBrushStyle,
		before: before, after: after,
		set: func(d *style.Display, v style.BrushStyle) { d.Brush = v },
	}
}

// CustomColors returns a command toggling per-strand colors. It never merges.
func CustomColors(g *graph.Graph, before, after bool) Command {
	return &displayField[bool]{
		base: base{"Toggle Custom Colors"}, g: g, kind: KindNone,
		before: before, after: after,
		set: func(d *style.Display, v bool) { d.CustomColors = v },
	}
}

// ShowBorder returns a command toggling the border outline. It never merges.
func ShowBorder(g *graph.Graph, before, after bool) Command {
	return &displayField[bool]{
		base: base{"Toggle Border"}, g: g, kind: KindNone,
		before: before, after: after,
		set: func(d *style.Display, v bool) { d.ShowBorder = v },
	}
}
