package editor

import (
	"slices"

	"github.com/matzehuels/knotedit/pkg/command"
	kerrors "github.com/matzehuels/knotedit/pkg/errors"
	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

// AddNode creates a node at pos that inherits every style parameter.
func (ed *Editor) AddNode(pos style.Point) *graph.Node {
	return ed.createNode(style.NodeStyle{}, pos)
}

// AddEdge joins a and b with a new edge. Parallel edges are allowed.
func (ed *Editor) AddEdge(a, b *graph.Node) (*graph.Edge, error) {
	if err := ed.checkNodes(a, b); err != nil {
		return nil, err
	}
	e, err := ed.createEdge(a, b, style.EdgeStyle{})
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeContractViolation, err, "add edge %d-%d", a.ID(), b.ID())
	}
	return e, nil
}

// Connect returns the edge joining a and b, adding one if there is none.
func (ed *Editor) Connect(a, b *graph.Node) (*graph.Edge, error) {
	if err := ed.checkNodes(a, b); err != nil {
		return nil, err
	}
	if e := a.EdgeTo(b); e != nil {
		return e, nil
	}
	return ed.AddEdge(a, b)
}

// MoveNode moves n to pos. Consecutive moves of the same node outside a
// transaction merge into one history entry. Wrap a drag in
// [Editor.BeginDrag] and [Editor.EndDrag] to notify listeners once.
func (ed *Editor) MoveNode(n *graph.Node, pos style.Point) error {
	if err := ed.checkNodes(n); err != nil {
		return err
	}
	if n.Pos() == pos {
		return nil
	}
	ed.Push(command.MoveNode(n, n.Pos(), pos))
	return nil
}

// MoveNodes translates every node by delta in one transaction.
func (ed *Editor) MoveNodes(nodes []*graph.Node, delta style.Point) error {
	if err := ed.checkNodes(nodes...); err != nil {
		return err
	}
	return ed.Transaction("Move Nodes", func() error {
		for _, n := range nodes {
			ed.Push(command.MoveNode(n, n.Pos(), n.Pos().Add(delta)))
		}
		return nil
	})
}

// RemoveEdge detaches e and removes it.
func (ed *Editor) RemoveEdge(e *graph.Edge) error {
	c, err := command.RemoveEdge(ed.g, e)
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeEdgeNotFound, err, "remove edge")
	}
	ed.Push(c)
	return nil
}

// RemoveNode removes n together with its edges in one transaction.
func (ed *Editor) RemoveNode(n *graph.Node) error {
	if err := ed.checkNodes(n); err != nil {
		return err
	}
	return ed.Transaction("Remove Node", func() error { return ed.removeNode(n) })
}

func (ed *Editor) removeNode(n *graph.Node) error {
	for _, e := range n.Edges() {
		if err := ed.RemoveEdge(e); err != nil {
			return err
		}
	}
	c, err := command.RemoveNode(ed.g, n)
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeContractViolation, err, "remove node %d", n.ID())
	}
	ed.Push(c)
	return nil
}

// RemoveSelection removes the selected edges, then the selected nodes with
// their remaining edges, in one transaction.
func (ed *Editor) RemoveSelection() error {
	edges, nodes := ed.g.SelectedEdges(), ed.g.SelectedNodes()
	if len(edges) == 0 && len(nodes) == 0 {
		return nil
	}
	return ed.Transaction("Remove Selection", func() error {
		for _, e := range edges {
			if err := ed.RemoveEdge(e); err != nil {
				return err
			}
		}
		for _, n := range nodes {
			if err := ed.removeNode(n); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetNodeParam sets p to v on every node and enables it there.
func (ed *Editor) SetNodeParam(nodes []*graph.Node, p style.Param, v float64) error {
	if err := ed.checkNodes(nodes...); err != nil {
		return err
	}
	before := make([]float64, len(nodes))
	for i, n := range nodes {
		before[i] = n.Style.Get(p)
	}
	c, err := command.NodeParam(nodes, p, before, fill(len(nodes), v))
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidStyle, err, "set node %s", p)
	}
	ed.Push(c)
	return nil
}

// SetEdgeParam sets p to v on every edge and enables it there.
func (ed *Editor) SetEdgeParam(edges []*graph.Edge, p style.Param, v float64) error {
	if err := ed.checkEdges(edges...); err != nil {
		return err
	}
	before := make([]float64, len(edges))
	for i, e := range edges {
		before[i] = e.Style.Get(p)
	}
	c, err := command.EdgeParam(edges, p, before, fill(len(edges), v))
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidStyle, err, "set edge %s", p)
	}
	ed.Push(c)
	return nil
}

// SetKnotParam sets the diagram default of p on every style carrying it.
func (ed *Editor) SetKnotParam(p style.Param, v float64) {
	before, after := command.KnotDefaults(ed.g, p), command.Uniform(p, v)
	if before == after {
		return
	}
	ed.Push(command.KnotParam(ed.g, p, before, after))
}

// SetNodeEnabled turns the overrides in f on or off for every node.
func (ed *Editor) SetNodeEnabled(nodes []*graph.Node, f style.NodeFeatures, on bool) error {
	if err := ed.checkNodes(nodes...); err != nil {
		return err
	}
	before := make([]style.NodeFeatures, len(nodes))
	after := make([]style.NodeFeatures, len(nodes))
	for i, n := range nodes {
		before[i] = n.Style.Enabled
		after[i] = n.Style.Enabled &^ f
		if on {
			after[i] = n.Style.Enabled | f
		}
	}
	if slices.Equal(before, after) {
		return nil
	}
	c, err := command.NodeEnable(nodes, before, after)
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "toggle node style")
	}
	ed.Push(c)
	return nil
}

// SetEdgeEnabled turns the overrides in f on or off for every edge.
func (ed *Editor) SetEdgeEnabled(edges []*graph.Edge, f style.EdgeFeatures, on bool) error {
	if err := ed.checkEdges(edges...); err != nil {
		return err
	}
	before := make([]style.EdgeFeatures, len(edges))
	after := make([]style.EdgeFeatures, len(edges))
	for i, e := range edges {
		before[i] = e.Style.Enabled
		after[i] = e.Style.Enabled &^ f
		if on {
			after[i] = e.Style.Enabled | f
		}
	}
	if slices.Equal(before, after) {
		return nil
	}
	c, err := command.EdgeEnable(edges, before, after)
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "toggle edge style")
	}
	ed.Push(c)
	return nil
}

// SetEdgeType changes the type of every edge.
func (ed *Editor) SetEdgeType(edges []*graph.Edge, t style.EdgeType) error {
	if err := ed.checkEdges(edges...); err != nil {
		return err
	}
	if len(edges) == 1 {
		ed.Push(command.ChangeEdgeType(edges[0], edges[0].Type(), t))
		return nil
	}
	return ed.Transaction("Change Edge Type", func() error {
		for _, e := range edges {
			ed.Push(command.ChangeEdgeType(e, e.Type(), t))
		}
		return nil
	})
}

// SetNodeCuspShape changes the cusp shape of every node.
func (ed *Editor) SetNodeCuspShape(nodes []*graph.Node, shape style.CuspShape) error {
	if err := ed.checkNodes(nodes...); err != nil {
		return err
	}
	before := make([]style.CuspShape, len(nodes))
	for i, n := range nodes {
		before[i] = n.Style.CuspShape
	}
	c, err := command.NodeCuspShape(nodes, before, fill(len(nodes), shape))
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "set cusp shape")
	}
	ed.Push(c)
	return nil
}

// SetKnotCuspShape changes the default cusp shape.
func (ed *Editor) SetKnotCuspShape(shape style.CuspShape) {
	if ed.g.NodeStyle.CuspShape == shape {
		return
	}
	ed.Push(command.KnotCuspShape(ed.g, ed.g.NodeStyle.CuspShape, shape))
}

// SetNodeStyle replaces the style of n.
func (ed *Editor) SetNodeStyle(n *graph.Node, s style.NodeStyle) error {
	if err := ed.checkNodes(n); err != nil {
		return err
	}
	ed.Push(command.NodeStyleAll(n, n.Style, s))
	return nil
}

// SetEdgeStyle replaces the style of e.
func (ed *Editor) SetEdgeStyle(e *graph.Edge, s style.EdgeStyle) error {
	if err := ed.checkEdges(e); err != nil {
		return err
	}
	ed.Push(command.EdgeStyleAll(e, e.Style, s))
	return nil
}

// SetKnotStyle replaces both diagram defaults.
func (ed *Editor) SetKnotStyle(ns style.NodeStyle, es style.EdgeStyle) {
	ed.Push(command.KnotStyleAll(ed.g, ed.g.NodeStyle, ns, ed.g.EdgeStyle, es))
}

func (ed *Editor) checkNodes(nodes ...*graph.Node) error {
	for _, n := range nodes {
		if !ed.g.ContainsNode(n) {
			return kerrors.Wrap(kerrors.ErrCodeNodeNotFound, graph.ErrUnknownNode, "node not in graph")
		}
	}
	return nil
}

func (ed *Editor) checkEdges(edges ...*graph.Edge) error {
	for _, e := range edges {
		if !ed.g.ContainsEdge(e) {
			return kerrors.Wrap(kerrors.ErrCodeEdgeNotFound, graph.ErrUnknownEdge, "edge not in graph")
		}
	}
	return nil
}

func fill[T any](n int, v T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}
