package graph

import (
	"cmp"
	"errors"
	"slices"

	"github.com/matzehuels/knotedit/pkg/style"
)

var (
	// ErrUnknownNode is returned when a node is not part of the graph, or an
	// edge endpoint is not.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned by [Graph.RemoveEdge] for edges that are not
	// part of the graph.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrDuplicateNode is returned by [Graph.AddNode] when the node is
	// already part of the graph.
	ErrDuplicateNode = errors.New("node already in graph")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the edge is
	// already part of the graph.
	ErrDuplicateEdge = errors.New("edge already in graph")

	// ErrForeignEntity is returned when a node or edge created by another
	// graph is added. Identities are only unique within one graph.
	ErrForeignEntity = errors.New("entity belongs to another graph")

	// ErrNodeHasEdges is returned by [Graph.RemoveNode] when the node still
	// has attached edges. Edges are never removed implicitly.
	ErrNodeHasEdges = errors.New("node has attached edges")

	// ErrSelfLoop is returned by [Graph.NewEdge] when both endpoints are the
	// same node.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrNotEndpoint is returned by [Edge.Other] for nodes that are not one
	// of the edge's endpoints.
	ErrNotEndpoint = errors.New("node is not an endpoint of the edge")

	// ErrPartialAttachment is returned by [Graph.Validate] when an edge is
	// registered with only one of its endpoints.
	ErrPartialAttachment = errors.New("edge partially attached")

	// ErrDetachedEdge is returned by [Graph.Validate] when an edge of the
	// graph is not attached to its endpoints.
	ErrDetachedEdge = errors.New("graph edge is detached")
)

// Graph owns the nodes and edges of a knot diagram along with the
// diagram-wide default styles and display options.
//
// Nodes and edges iterate in ascending ID order, which is creation order.
// An entity removed and later re-added (by undo) returns to its original
// place, so iteration order is a pure function of graph membership.
//
// The zero value is not usable - use New. Graph is not safe for concurrent use.
type Graph struct {
	nodes []*Node
	edges []*Edge

	nextNode NodeID
	nextEdge EdgeID

	// NodeStyle holds the defaults inherited by nodes.
	NodeStyle style.NodeStyle
	// EdgeStyle holds the defaults inherited by edges.
	EdgeStyle style.EdgeStyle
	// Display holds the painting options, including the crossing colors.
	Display style.Display
}

// New creates an empty graph with the default styles.
func New() *Graph {
	return &Graph{
		nextNode:  1,
		nextEdge:  1,
		NodeStyle: style.DefaultNodeStyle(),
		EdgeStyle: style.DefaultEdgeStyle(),
		Display:   style.DefaultDisplay(),
	}
}

// NewNode allocates a node owned by g without adding it.
// Use [Graph.AddNode] (usually through a create command) to insert it.
func (g *Graph) NewNode(s style.NodeStyle, pos style.Point) *Node {
	n := &Node{id: g.nextNode, owner: g, pos: pos, Style: s}
	g.nextNode++
	return n
}

// InsertNode creates a node and adds it to the graph.
func (g *Graph) InsertNode(s style.NodeStyle, pos style.Point) *Node {
	n := g.NewNode(s, pos)
	g.nodes = insertSorted(g.nodes, n, (*Node).ID)
	return n
}

// AddNode adds a node previously created by g (and possibly removed).
func (g *Graph) AddNode(n *Node) error {
	if n == nil || n.owner != g {
		return ErrForeignEntity
	}
	if g.ContainsNode(n) {
		return ErrDuplicateNode
	}
	g.nodes = insertSorted(g.nodes, n, (*Node).ID)
	return nil
}

// RemoveNode removes a node from the graph. The node must not have any
// attached edge: remove or detach them first so they can be restored in
// their original order.
func (g *Graph) RemoveNode(n *Node) error {
	if !g.ContainsNode(n) {
		return ErrUnknownNode
	}
	if len(n.edges) > 0 {
		return ErrNodeHasEdges
	}
	g.nodes = removeSorted(g.nodes, n, (*Node).ID)
	n.Selected = false
	return nil
}

// NewEdge allocates a detached edge between two nodes of g without adding it.
func (g *Graph) NewEdge(a, b *Node) (*Edge, error) {
	if a == nil || b == nil || a.owner != g || b.owner != g {
		return nil, ErrUnknownNode
	}
	if a == b {
		return nil, ErrSelfLoop
	}
	e := &Edge{id: g.nextEdge, owner: g, v1: a, v2: b, Style: style.EdgeStyle{}}
	g.nextEdge++
	return e, nil
}

// InsertEdge creates an edge between a and b, adds it and attaches it.
// A second edge between the same pair of nodes is allowed.
func (g *Graph) InsertEdge(a, b *Node) (*Edge, error) {
	e, err := g.NewEdge(a, b)
	if err != nil {
		return nil, err
	}
	if err := g.AddEdge(e); err != nil {
		return nil, err
	}
	return e, nil
}

// AddEdge adds an edge previously created by g and attaches it to both
// endpoints. Both endpoints must be part of the graph.
func (g *Graph) AddEdge(e *Edge) error {
	if e == nil || e.owner != g {
		return ErrForeignEntity
	}
	if g.ContainsEdge(e) {
		return ErrDuplicateEdge
	}
	if !g.ContainsNode(e.v1) || !g.ContainsNode(e.v2) {
		return ErrUnknownNode
	}
	g.edges = insertSorted(g.edges, e, (*Edge).ID)
	e.Attach()
	return nil
}

// RemoveEdge detaches an edge from its endpoints and removes it from the graph.
func (g *Graph) RemoveEdge(e *Edge) error {
	if !g.ContainsEdge(e) {
		return ErrUnknownEdge
	}
	e.Detach()
	g.edges = removeSorted(g.edges, e, (*Edge).ID)
	e.Selected = false
	return nil
}

// ContainsNode reports whether n is currently part of the graph.
func (g *Graph) ContainsNode(n *Node) bool {
	if n == nil || n.owner != g {
		return false
	}
	_, ok := slices.BinarySearchFunc(g.nodes, n.id, func(x *Node, id NodeID) int { return cmp.Compare(x.id, id) })
	return ok
}

// ContainsEdge reports whether e is currently part of the graph.
func (g *Graph) ContainsEdge(e *Edge) bool {
	if e == nil || e.owner != g {
		return false
	}
	_, ok := slices.BinarySearchFunc(g.edges, e.id, func(x *Edge, id EdgeID) int { return cmp.Compare(x.id, id) })
	return ok
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id NodeID) *Node {
	i, ok := slices.BinarySearchFunc(g.nodes, id, func(x *Node, id NodeID) int { return cmp.Compare(x.id, id) })
	if !ok {
		return nil
	}
	return g.nodes[i]
}

// Edge returns the edge with the given ID, or nil.
func (g *Graph) Edge(id EdgeID) *Edge {
	i, ok := slices.BinarySearchFunc(g.edges, id, func(x *Edge, id EdgeID) int { return cmp.Compare(x.id, id) })
	if !ok {
		return nil
	}
	return g.edges[i]
}

// Nodes returns the nodes of the graph in ID order.
// The slice is a copy; the nodes are not.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns the edges of the graph in ID order.
// The slice is a copy; the edges are not.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasEdgeTo reports whether a and b are joined by an edge.
func (g *Graph) HasEdgeTo(a, b *Node) bool { return a != nil && a.HasEdgeTo(b) }

// EdgeTo returns an edge joining a and b, or nil.
func (g *Graph) EdgeTo(a, b *Node) *Edge {
	if a == nil {
		return nil
	}
	return a.EdgeTo(b)
}

// SelectedNodes returns the selected nodes in ID order.
func (g *Graph) SelectedNodes() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Selected {
			out = append(out, n)
		}
	}
	return out
}

// SelectedEdges returns the selected edges in ID order.
func (g *Graph) SelectedEdges() []*Edge {
	var out []*Edge
	for _, e := range g.edges {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}

// ClearSelection deselects every node and edge.
func (g *Graph) ClearSelection() {
	for _, n := range g.nodes {
		n.Selected = false
	}
	for _, e := range g.edges {
		e.Selected = false
	}
}

// Bounds returns the smallest rectangle containing every node position.
// An empty graph yields two zero points.
func (g *Graph) Bounds() (lo, hi style.Point) {
	for i, n := range g.nodes {
		if i == 0 {
			lo, hi = n.pos, n.pos
			continue
		}
		lo.X, lo.Y = min(lo.X, n.pos.X), min(lo.Y, n.pos.Y)
		hi.X, hi.Y = max(hi.X, n.pos.X), max(hi.Y, n.pos.Y)
	}
	return lo, hi
}

// Validate checks the structural invariants of the graph:
//
//  1. Every edge of the graph joins two nodes of the graph
//  2. Every edge of the graph is attached to both endpoints
//  3. Every edge a node lists as incident has the node as an endpoint and
//     belongs to the graph
//
// It returns nil when all hold. Use it in tests and after bulk loads.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if !g.ContainsNode(e.v1) || !g.ContainsNode(e.v2) {
			return ErrUnknownNode
		}
		in1, in2 := e.v1.hasIncident(e), e.v2.hasIncident(e)
		if in1 != in2 {
			return ErrPartialAttachment
		}
		if !in1 {
			return ErrDetachedEdge
		}
	}
	for _, n := range g.nodes {
		for _, e := range n.edges {
			if !e.IsVertex(n) {
				return ErrNotEndpoint
			}
			if !g.ContainsEdge(e) {
				return ErrUnknownEdge
			}
		}
	}
	return nil
}

func insertSorted[T any, K cmp.Ordered](s []T, v T, key func(T) K) []T {
	i, found := slices.BinarySearchFunc(s, key(v), func(x T, k K) int { return cmp.Compare(key(x), k) })
	if found {
		return s
	}
	return slices.Insert(s, i, v)
}

func removeSorted[T any, K cmp.Ordered](s []T, v T, key func(T) K) []T {
	i, found := slices.BinarySearchFunc(s, key(v), func(x T, k K) int { return cmp.Compare(key(x), k) })
	if !found {
		return s
	}
	return slices.Delete(s, i, i+1)
}
