package editor

import "github.com/matzehuels/knotedit/pkg/graph"

// Selection changes are not recorded in the history. Inside a transaction
// the notification is deferred to the transaction's end.

// Select replaces the selection with the given nodes and edges.
func (ed *Editor) Select(nodes []*graph.Node, edges []*graph.Edge) {
	ed.g.ClearSelection()
	for _, n := range nodes {
		if ed.g.ContainsNode(n) {
			n.Selected = true
		}
	}
	for _, e := range edges {
		if ed.g.ContainsEdge(e) {
			e.Selected = true
		}
	}
	ed.selectionChanged()
}

// SetNodeSelected adds n to or removes it from the selection.
func (ed *Editor) SetNodeSelected(n *graph.Node, on bool) {
	if !ed.g.ContainsNode(n) || n.Selected == on {
		return
	}
	n.Selected = on
	ed.selectionChanged()
}

// SetEdgeSelected adds e to or removes it from the selection.
func (ed *Editor) SetEdgeSelected(e *graph.Edge, on bool) {
	if !ed.g.ContainsEdge(e) || e.Selected == on {
		return
	}
	e.Selected = on
	ed.selectionChanged()
}

// SelectAll selects every node and edge.
func (ed *Editor) SelectAll() {
	ed.Select(ed.g.Nodes(), ed.g.Edges())
}

// ClearSelection deselects everything.
func (ed *Editor) ClearSelection() {
	ed.Select(nil, nil)
}

func (ed *Editor) selectionChanged() {
	ed.selectionDirty = true
	if len(ed.open) == 0 {
		ed.notify(0)
	}
}
