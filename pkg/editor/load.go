package editor

import (
	"fmt"

	"github.com/matzehuels/knotedit/pkg/command"
	kerrors "github.com/matzehuels/knotedit/pkg/errors"
	"github.com/matzehuels/knotedit/pkg/graph"
	kio "github.com/matzehuels/knotedit/pkg/io"
	"github.com/matzehuels/knotedit/pkg/style"
)

// Load replaces the graph contents with doc in one "Load File" transaction.
// A document that cannot be built leaves the graph as it was.
func (ed *Editor) Load(doc *kio.Document) error {
	if doc.Version > kio.Version {
		return kerrors.Wrap(kerrors.ErrCodeInvalidFormat, kio.ErrUnsupportedVersion, "load document version %d", doc.Version)
	}
	err := ed.Transaction("Load File", func() error {
		if err := ed.removeAll(); err != nil {
			return err
		}
		if ed.g.NodeStyle != doc.NodeStyle || ed.g.EdgeStyle != doc.EdgeStyle {
			ed.SetKnotStyle(doc.NodeStyle, doc.EdgeStyle)
		}
		ed.setDisplay(doc.Display)
		return ed.build(doc)
	})
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "load document")
	}
	return nil
}

// Document returns the serialized state of the graph.
func (ed *Editor) Document() *kio.Document { return kio.FromGraph(ed.g) }

// Insert copies the nodes and edges of src into the graph, translated by
// offset, and selects the copies. Styles are copied; the diagram defaults
// of src are ignored. With mergeable set, an insert directly following
// another insert joins its history entry.
func (ed *Editor) Insert(src *graph.Graph, offset style.Point, mergeable bool) ([]*graph.Node, error) {
	var added []*graph.Node
	err := ed.InsertTransaction("Insert", mergeable, func() error {
		copies := make(map[graph.NodeID]*graph.Node, src.NodeCount())
		for _, n := range src.Nodes() {
			c := ed.createNode(n.Style, n.Pos().Add(offset))
			copies[n.ID()] = c
			added = append(added, c)
		}
		var edges []*graph.Edge
		for _, e := range src.Edges() {
			ce, err := ed.createEdge(copies[e.Vertex1().ID()], copies[e.Vertex2().ID()], e.Style)
			if err != nil {
				return err
			}
			edges = append(edges, ce)
		}
		ed.Select(added, edges)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// InsertDocument is [Editor.Insert] for a serialized graph.
func (ed *Editor) InsertDocument(doc *kio.Document, offset style.Point, mergeable bool) ([]*graph.Node, error) {
	src, err := doc.Graph()
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "insert document")
	}
	return ed.Insert(src, offset, mergeable)
}

func (ed *Editor) removeAll() error {
	for _, e := range ed.g.Edges() {
		if err := ed.RemoveEdge(e); err != nil {
			return err
		}
	}
	for _, n := range ed.g.Nodes() {
		c, err := command.RemoveNode(ed.g, n)
		if err != nil {
			return err
		}
		ed.Push(c)
	}
	return nil
}

func (ed *Editor) build(doc *kio.Document) error {
	ids := make(map[string]*graph.Node, len(doc.Nodes))
	for i, rec := range doc.Nodes {
		if rec.ID == "" {
			return fmt.Errorf("node %d: %w", i, kio.ErrEmptyNodeID)
		}
		if _, ok := ids[rec.ID]; ok {
			return fmt.Errorf("node %s: %w", rec.ID, kio.ErrDuplicateNode)
		}
		ids[rec.ID] = ed.createNode(rec.NodeStyle(), style.Point{X: rec.X, Y: rec.Y})
	}
	for _, rec := range doc.Edges {
		a, b := ids[rec.From], ids[rec.To]
		if a == nil || b == nil {
			return fmt.Errorf("edge %s->%s: %w", rec.From, rec.To, kio.ErrUnknownEndpoint)
		}
		if _, err := ed.createEdge(a, b, rec.EdgeStyle()); err != nil {
			return fmt.Errorf("edge %s->%s: %w", rec.From, rec.To, err)
		}
	}
	return nil
}

func (ed *Editor) createNode(s style.NodeStyle, pos style.Point) *graph.Node {
	n := ed.g.NewNode(s, pos)
	c, err := command.CreateNode(ed.g, n)
	if err != nil {
		panic(err)
	}
	ed.Push(c)
	return n
}

// createEdge adds an edge with the given style. The style is set before the
// edge joins the graph, so it is part of the created state.
func (ed *Editor) createEdge(a, b *graph.Node, s style.EdgeStyle) (*graph.Edge, error) {
	e, err := ed.g.NewEdge(a, b)
	if err != nil {
		return nil, err
	}
	e.Style = s
	c, err := command.CreateEdge(ed.g, e)
	if err != nil {
		return nil, err
	}
	ed.Push(c)
	return e, nil
}
