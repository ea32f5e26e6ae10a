// Package graph holds the structure of a knot diagram: nodes, the edges
// joining them and the diagram-wide styles.
//
// # Ownership
//
// A [Graph] owns its nodes and edges. Nodes keep non-owning references to
// their incident edges, so adjacency queries ([Node.EdgeTo],
// [Node.HasEdgeTo]) run in time proportional to the degree.
//
// Entities are allocated by the graph ([Graph.NewNode], [Graph.NewEdge])
// and keep their identity after removal. Adding a removed entity back puts it
// in its original place:
//
//	n := g.InsertNode(style.NodeStyle{}, style.Point{X: 10, Y: 20})
//	_ = g.RemoveNode(n)
//	_ = g.AddNode(n) // same ID, same iteration position
//
// This is what the edit commands in pkg/command rely on to undo and redo
// structural changes exactly.
//
// # Invariants
//
//   - An edge joins two distinct nodes of the graph
//   - An edge is attached to both endpoints or to neither
//   - A node with attached edges cannot be removed ([ErrNodeHasEdges])
//   - Nodes and edges iterate in ascending ID order
//
// [Graph.Validate] checks all of them.
//
// Graphs are not safe for concurrent use.
package graph
