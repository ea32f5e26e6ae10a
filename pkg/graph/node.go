package graph

import (
	"slices"

	"github.com/matzehuels/knotedit/pkg/style"
)

// NodeID identifies a node within its graph.
type NodeID uint64

// Node is a vertex of the knot diagram.
//
// A node keeps non-owning references to its incident edges, sorted by edge
// ID. Edges register themselves through [Edge.Attach].
type Node struct {
	id    NodeID
	owner *Graph
	pos   style.Point
	edges []*Edge

	// Style holds the node overrides. Parameters whose feature bit is unset
	// fall back to the graph default.
	Style style.NodeStyle
	// Selected marks the node as part of the current selection.
	Selected bool
}

// ID returns the identifier of the node.
func (n *Node) ID() NodeID { return n.id }

// Graph returns the graph that allocated the node.
func (n *Node) Graph() *Graph { return n.owner }

// Pos returns the position of the node.
func (n *Node) Pos() style.Point { return n.pos }

// SetPos moves the node.
func (n *Node) SetPos(p style.Point) { n.pos = p }

// Edges returns the attached edges in ID order.
func (n *Node) Edges() []*Edge { return slices.Clone(n.edges) }

// Degree returns the number of attached edges.
func (n *Node) Degree() int { return len(n.edges) }

// HasEdgeTo reports whether an attached edge joins n and o.
func (n *Node) HasEdgeTo(o *Node) bool { return n.EdgeTo(o) != nil }

// EdgeTo returns the first attached edge joining n and o, or nil.
func (n *Node) EdgeTo(o *Node) *Edge {
	if o == nil || o == n {
		return nil
	}
	for _, e := range n.edges {
		if e.IsVertex(o) {
			return e
		}
	}
	return nil
}

// Neighbors returns the nodes at the other end of each attached edge.
// A neighbor joined by parallel edges appears once per edge.
func (n *Node) Neighbors() []*Node {
	out := make([]*Node, 0, len(n.edges))
	for _, e := range n.edges {
		if o, err := e.Other(n); err == nil {
			out = append(out, o)
		}
	}
	return out
}

func (n *Node) hasIncident(e *Edge) bool {
	_, ok := slices.BinarySearchFunc(n.edges, e.id, compareEdgeID)
	return ok
}

func (n *Node) attach(e *Edge) { n.edges = insertSorted(n.edges, e, (*Edge).ID) }

func (n *Node) detach(e *Edge) { n.edges = removeSorted(n.edges, e, (*Edge).ID) }
