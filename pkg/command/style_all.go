package command

import (
	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

type nodeStyleAll struct {
	base
	never
	n             *graph.Node
	before, after style.NodeStyle
}

// NodeStyleAll returns a command replacing the whole style of n.
func NodeStyleAll(n *graph.Node, before, after style.NodeStyle) Command {
	return &nodeStyleAll{base: base{"Change Node Style"}, n: n, before: before, after: after}
}

func (c *nodeStyleAll) Redo()          { c.n.Style = c.after }
func (c *nodeStyleAll) Undo()          { c.n.Style = c.before }
func (c *nodeStyleAll) Effect() Effect { return EffectStyle }

type edgeStyleAll struct {
	base
	never
	e             *graph.Edge
	before, after style.EdgeStyle
}

// EdgeStyleAll returns a command replacing the whole style of e, edge type
// included.
func EdgeStyleAll(e *graph.Edge, before, after style.EdgeStyle) Command {
	return &edgeStyleAll{base: base{"Change Edge Style"}, e: e, before: before, after: after}
}

func (c *edgeStyleAll) Redo()          { c.e.Style = c.after }
func (c *edgeStyleAll) Undo()          { c.e.Style = c.before }
func (c *edgeStyleAll) Effect() Effect { return EffectStyle }

type knotStyleAll struct {
	base
	never
	g                     *graph.Graph
	nodeBefore, nodeAfter style.NodeStyle
	edgeBefore, edgeAfter style.EdgeStyle
}

// KnotStyleAll returns a command replacing both diagram default styles.
func KnotStyleAll(g *graph.Graph, nodeBefore, nodeAfter style.NodeStyle, edgeBefore, edgeAfter style.EdgeStyle) Command {
	return &knotStyleAll{
		base:       base{"Change Knot Style"},
		g:          g,
		nodeBefore: nodeBefore,
		nodeAfter:  nodeAfter,
		edgeBefore: edgeBefore,
		edgeAfter:  edgeAfter,
	}
}

func (c *knotStyleAll) Redo() {
	c.g.NodeStyle = c.nodeAfter
	c.g.EdgeStyle = c.edgeAfter
}

func (c *knotStyleAll) Undo() {
	c.g.NodeStyle = c.nodeBefore
	c.g.EdgeStyle = c.edgeBefore
}

func (c *knotStyleAll) Effect() Effect { return EffectStyle }
