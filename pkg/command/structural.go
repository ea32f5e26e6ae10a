package command

import (
	"github.com/matzehuels/knotedit/pkg/graph"
)

type createNode struct {
	base
	never
	g *graph.Graph
	n *graph.Node
}

// CreateNode returns a command adding n, allocated with [graph.Graph.NewNode],
// to g.
func CreateNode(g *graph.Graph, n *graph.Node) (Command, error) {
	if n == nil || n.Graph() != g {
		return nil, graph.ErrForeignEntity
	}
	if g.ContainsNode(n) {
		return nil, graph.ErrDuplicateNode
	}
	return &createNode{base: base{"Create Node"}, g: g, n: n}, nil
}

func (c *createNode) Redo()          { must(c.g.AddNode(c.n)) }
func (c *createNode) Undo()          { must(c.g.RemoveNode(c.n)) }
func (c *createNode) Effect() Effect { return EffectStructure }

type removeNode struct {
	base
	never
	g        *graph.Graph
	n        *graph.Node
	selected bool
}

// RemoveNode returns a command removing n from g. The node must not have
// attached edges; remove them first in the same transaction. Undo restores
// the node's selection state.
func RemoveNode(g *graph.Graph, n *graph.Node) (Command, error) {
	if !g.ContainsNode(n) {
		return nil, graph.ErrUnknownNode
	}
	if n.Degree() > 0 {
		return nil, graph.ErrNodeHasEdges
	}
	return &removeNode{base: base{"Remove Node"}, g: g, n: n, selected: n.Selected}, nil
}

func (c *removeNode) Redo() { must(c.g.RemoveNode(c.n)) }
func (c *removeNode) Undo() {
	must(c.g.AddNode(c.n))
	c.n.Selected = c.selected
}
func (c *removeNode) Effect() Effect { return EffectStructure | EffectSelection }

type createEdge struct {
	base
	never
	g *graph.Graph
	e *graph.Edge
}

// CreateEdge returns a command adding e, allocated with [graph.Graph.NewEdge],
// to g. Both endpoints must be part of g when the command runs.
func CreateEdge(g *graph.Graph, e *graph.Edge) (Command, error) {
	if e == nil || e.Graph() != g {
		return nil, graph.ErrForeignEntity
	}
	if g.ContainsEdge(e) {
		return nil, graph.ErrDuplicateEdge
	}
	if !g.ContainsNode(e.Vertex1()) || !g.ContainsNode(e.Vertex2()) {
		return nil, graph.ErrUnknownNode
	}
	return &createEdge{base: base{"Create Edge"}, g: g, e: e}, nil
}

func (c *createEdge) Redo()          { must(c.g.AddEdge(c.e)) }
func (c *createEdge) Undo()          { must(c.g.RemoveEdge(c.e)) }
func (c *createEdge) Effect() Effect { return EffectStructure }

type removeEdge struct {
	base
	never
	g        *graph.Graph
	e        *graph.Edge
	selected bool
}

// RemoveEdge returns a command detaching e and removing it from g. Undo
// re-attaches it to both endpoints and restores its selection state.
func RemoveEdge(g *graph.Graph, e *graph.Edge) (Command, error) {
	if !g.ContainsEdge(e) {
		return nil, graph.ErrUnknownEdge
	}
	return &removeEdge{base: base{"Remove Edge"}, g: g, e: e, selected: e.Selected}, nil
}

func (c *removeEdge) Redo() { must(c.g.RemoveEdge(c.e)) }
func (c *removeEdge) Undo() {
	must(c.g.AddEdge(c.e))
	c.e.Selected = c.selected
}
func (c *removeEdge) Effect() Effect { return EffectStructure | EffectSelection }
