package graph

import (
	"cmp"

	"github.com/matzehuels/knotedit/pkg/style"
)

// EdgeID identifies an edge within its graph.
type EdgeID uint64

// Edge joins two distinct nodes. The order of the endpoints carries no
// meaning.
//
// An edge is either attached to both endpoints or to neither. Removing an
// edge from the graph detaches it; adding it back re-attaches it.
type Edge struct {
	id     EdgeID
	owner  *Graph
	v1, v2 *Node

	// Style holds the edge overrides, including the edge type.
	Style style.EdgeStyle
	// Selected marks the edge as part of the current selection.
	Selected bool
}

// ID returns the identifier of the edge.
func (e *Edge) ID() EdgeID { return e.id }

// Graph returns the graph that allocated the edge.
func (e *Edge) Graph() *Graph { return e.owner }

// Vertex1 returns the first endpoint.
func (e *Edge) Vertex1() *Node { return e.v1 }

// Vertex2 returns the second endpoint.
func (e *Edge) Vertex2() *Node { return e.v2 }

// IsVertex reports whether n is one of the endpoints.
func (e *Edge) IsVertex(n *Node) bool { return n != nil && (e.v1 == n || e.v2 == n) }

// Other returns the endpoint that is not n.
func (e *Edge) Other(n *Node) (*Node, error) {
	switch n {
	case nil:
		return nil, ErrNotEndpoint
	case e.v1:
		return e.v2, nil
	case e.v2:
		return e.v1, nil
	}
	return nil, ErrNotEndpoint
}

// Type returns the edge type stored in the style.
func (e *Edge) Type() style.EdgeType { return e.Style.Type }

// Attach registers the edge with both endpoints. It is a no-op when the edge
// is already attached.
func (e *Edge) Attach() {
	e.v1.attach(e)
	e.v2.attach(e)
}

// Detach unregisters the edge from both endpoints. It is a no-op when the
// edge is already detached.
func (e *Edge) Detach() {
	e.v1.detach(e)
	e.v2.detach(e)
}

// Attached reports whether both endpoints list the edge.
func (e *Edge) Attached() bool { return e.v1.hasIncident(e) && e.v2.hasIncident(e) }

func compareEdgeID(x *Edge, id EdgeID) int { return cmp.Compare(x.id, id) }
