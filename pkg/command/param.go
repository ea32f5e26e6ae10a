package command

import (
	"fmt"
	"slices"

	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

// Defaults holds the node and edge diagram defaults of one parameter. The
// side whose style does not carry the parameter is always zero.
type Defaults struct {
	Node, Edge float64
}

// KnotDefaults returns the current diagram defaults of p.
func KnotDefaults(g *graph.Graph, p style.Param) Defaults {
	return Defaults{Node: g.NodeStyle.Get(p), Edge: g.EdgeStyle.Get(p)}
}

// Uniform returns the defaults setting v on every style that carries p.
func Uniform(p style.Param, v float64) Defaults {
	var d Defaults
	if p.ForNodes() {
		d.Node = v
	}
	if p.ForEdges() {
		d.Edge = v
	}
	return d
}

type knotParam struct {
	base
	g             *graph.Graph
	p             style.Param
	before, after Defaults
}

// KnotParam returns a command changing the diagram defaults of p. Node and
// edge defaults are restored separately, so they may differ before the edit.
func KnotParam(g *graph.Graph, p style.Param, before, after Defaults) Command {
	return &knotParam{base: base{"Change " + paramLabel(p)}, g: g, p: p, before: before, after: after}
}

func (c *knotParam) apply(d Defaults) {
	if c.p.ForNodes() {
		c.g.NodeStyle.Set(c.p, d.Node)
	}
	if c.p.ForEdges() {
		c.g.EdgeStyle.Set(c.p, d.Edge)
	}
}

func (c *knotParam) Redo()          { c.apply(c.after) }
func (c *knotParam) Undo()          { c.apply(c.before) }
func (c *knotParam) ID() Kind       { return KnotParamKind(c.p) }
func (c *knotParam) Effect() Effect { return EffectStyle }

func (c *knotParam) MergeWith(next Command) bool {
	o, ok := next.(*knotParam)
	if !ok || o.g != c.g || o.p != c.p {
		return false
	}
	c.after = o.after
	return true
}

type nodeParam struct {
	base
	nodes         []*graph.Node
	p             style.Param
	before, after []float64
	enabled       []style.NodeFeatures
}

// NodeParam returns a command setting p on every node, index-aligned with
// before and after. Redo also enables p on the nodes; Undo restores their
// previous enabled set. Consecutive edits of p on the same ordered node list
// merge.
func NodeParam(nodes []*graph.Node, p style.Param, before, after []float64) (Command, error) {
	if !p.ForNodes() {
		return nil, fmt.Errorf("%w: %s on nodes", ErrNotApplicable, p)
	}
	if err := checkLengths(len(nodes), len(before), len(after)); err != nil {
		return nil, err
	}
	enabled := make([]style.NodeFeatures, len(nodes))
	for i, n := range nodes {
		enabled[i] = n.Style.Enabled
	}
	return &nodeParam{
		base:    base{"Change Node " + paramLabel(p)},
		nodes:   slices.Clone(nodes),
		p:       p,
		before:  slices.Clone(before),
		after:   slices.Clone(after),
		enabled: enabled,
	}, nil
}

func (c *nodeParam) Redo() {
	bit := c.p.NodeFeature()
	for i, n := range c.nodes {
		n.Style.Set(c.p, c.after[i])
		n.Style.Enabled |= bit
	}
}

func (c *nodeParam) Undo() {
	for i, n := range c.nodes {
		n.Style.Set(c.p, c.before[i])
		n.Style.Enabled = c.enabled[i]
	}
}

func (c *nodeParam) ID() Kind       { return NodeParamKind(c.p) }
func (c *nodeParam) Effect() Effect { return EffectStyle }

func (c *nodeParam) MergeWith(next Command) bool {
	o, ok := next.(*nodeParam)
	if !ok || o.p != c.p || !slices.Equal(o.nodes, c.nodes) {
		return false
	}
	c.after = o.after
	return true
}

type edgeParam struct {
	base
	edges         []*graph.Edge
	p             style.Param
	before, after []float64
	enabled       []style.EdgeFeatures
}

// EdgeParam is the edge counterpart of [NodeParam].
func EdgeParam(edges []*graph.Edge, p style.Param, before, after []float64) (Command, error) {
	if !p.ForEdges() {
		return nil, fmt.Errorf("%w: %s on edges", ErrNotApplicable, p)
	}
	if err := checkLengths(len(edges), len(before), len(after)); err != nil {
		return nil, err
	}
	enabled := make([]style.EdgeFeatures, len(edges))
	for i, e := range edges {
		enabled[i] = e.Style.Enabled
	}
	return &edgeParam{
		base:    base{"Change Edge " + paramLabel(p)},
		edges:   slices.Clone(edges),
		p:       p,
		before:  slices.Clone(before),
		after:   slices.Clone(after),
		enabled: enabled,
	}, nil
}

func (c *edgeParam) Redo() {
	bit := c.p.EdgeFeature()
	for i, e := range c.edges {
		e.Style.Set(c.p, c.after[i])
		e.Style.Enabled |= bit
	}
}

func (c *edgeParam) Undo() {
	for i, e := range c.edges {
		e.Style.Set(c.p, c.before[i])
		e.Style.Enabled = c.enabled[i]
	}
}

func (c *edgeParam) ID() Kind       { return EdgeParamKind(c.p) }
func (c *edgeParam) Effect() Effect { return EffectStyle }

func (c *edgeParam) MergeWith(next Command) bool {
	o, ok := next.(*edgeParam)
	if !ok || o.p != c.p || !slices.Equal(o.edges, c.edges) {
		return false
	}
	c.after = o.after
	return true
}

var paramLabels = map[style.Param]string{
	style.ParamHandleLength:     "Curve Handle Length",
	style.ParamCrossingDistance: "Crossing Gap",
	style.ParamCuspAngle:        "Cusp Angle",
	style.ParamCuspDistance:     "Cusp Distance",
	style.ParamEdgeSlide:        "Edge Slide",
}

func paramLabel(p style.Param) string {
	if l, ok := paramLabels[p]; ok {
		return l
	}
	return p.String()
}
