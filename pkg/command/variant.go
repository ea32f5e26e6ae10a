package command

import (
	"slices"

	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

type knotCuspShape struct {
	base
	never
	g             *graph.Graph
	before, after style.CuspShape
}

// KnotCuspShape returns a command changing the default cusp shape.
func KnotCuspShape(g *graph.Graph, before, after style.CuspShape) Command {
	return &knotCuspShape{base: base{"Change Cusp Shape"}, g: g, before: before, after: after}
}

func (c *knotCuspShape) Redo()          { c.g.NodeStyle.CuspShape = c.after }
func (c *knotCuspShape) Undo()          { c.g.NodeStyle.CuspShape = c.before }
func (c *knotCuspShape) Effect() Effect { return EffectStyle }

type nodeCuspShape struct {
	base
	never
	nodes         []*graph.Node
	before, after []style.CuspShape
	enabled       []style.NodeFeatures
}

// NodeCuspShape returns a command setting the cusp shape of every node,
// index-aligned with before and after. Redo also enables the shape override.
func NodeCuspShape(nodes []*graph.Node, before, after []style.CuspShape) (Command, error) {
	if err := checkLengths(len(nodes), len(before), len(after)); err != nil {
		return nil, err
	}
	enabled := make([]style.NodeFeatures, len(nodes))
	for i, n := range nodes {
		enabled[i] = n.Style.Enabled
	}
	return &nodeCuspShape{
		base:    base{"Change Node Cusp Shape"},
		nodes:   slices.Clone(nodes),
		before:  slices.Clone(before),
		after:   slices.Clone(after),
		enabled: enabled,
	}, nil
}

func (c *nodeCuspShape) Redo() {
	for i, n := range c.nodes {
		n.Style.CuspShape = c.after[i]
		n.Style.Enabled |= style.NodeShape
	}
}

func (c *nodeCuspShape) Undo() {
	for i, n := range c.nodes {
		n.Style.CuspShape = c.before[i]
		n.Style.Enabled = c.enabled[i]
	}
}

func (c *nodeCuspShape) Effect() Effect { return EffectStyle }

type edgeType struct {
	base
	e             *graph.Edge
	before, after style.EdgeType
	enabled       style.EdgeFeatures
}

// ChangeEdgeType returns a command changing the type of e. Redo also
// enables the type override. Consecutive changes of the same edge merge.
func ChangeEdgeType(e *graph.Edge, before, after style.EdgeType) Command {
	return &edgeType{base: base{"Change Edge Type"}, e: e, before: before, after: after, enabled: e.Style.Enabled}
}

func (c *edgeType) Redo() {
	c.e.Style.Type = c.after
	c.e.Style.Enabled |= style.EdgeKind
}

func (c *edgeType) Undo() {
	c.e.Style.Type = c.before
	c.e.Style.Enabled = c.enabled
}

func (c *edgeType) ID() Kind       { return KindEdgeType }
func (c *edgeType) Effect() Effect { return EffectStyle }

func (c *edgeType) MergeWith(next Command) bool {
	o, ok := next.(*edgeType)
	if !ok || o.e != c.e {
		return false
	}
	c.after = o.after
	return true
}
