package io

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

// Version is the document format version written by this package.
const Version = 1

var (
	// ErrDuplicateNode is returned when two nodes share an ID.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrEmptyNodeID is returned for nodes without an ID.
	ErrEmptyNodeID = errors.New("node ID must not be empty")

	// ErrUnknownEndpoint is returned when an edge references a missing node.
	ErrUnknownEndpoint = errors.New("edge references unknown node")

	// ErrSelfLoop is returned for edges joining a node to itself.
	ErrSelfLoop = errors.New("edge joins a node to itself")

	// ErrUnsupportedVersion is returned for documents newer than [Version].
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// Document is the serialized form of a knot diagram.
type Document struct {
	Version   int             `json:"version" yaml:"version"`
	NodeStyle style.NodeStyle `json:"node_style" yaml:"node_style"`
	EdgeStyle style.EdgeStyle `json:"edge_style" yaml:"edge_style"`
	Display   style.Display   `json:"display" yaml:"display"`
	Nodes     []Node          `json:"nodes" yaml:"nodes"`
	Edges     []Edge          `json:"edges" yaml:"edges"`
}

// Node is a serialized node. Style is omitted when the node inherits
// everything.
type Node struct {
	ID    string           `json:"id" yaml:"id"`
	X     float64          `json:"x" yaml:"x"`
	Y     float64          `json:"y" yaml:"y"`
	Style *style.NodeStyle `json:"style,omitempty" yaml:"style,omitempty"`
}

// Edge is a serialized edge. Style is omitted when the edge inherits
// everything.
type Edge struct {
	From  string           `json:"from" yaml:"from"`
	To    string           `json:"to" yaml:"to"`
	Style *style.EdgeStyle `json:"style,omitempty" yaml:"style,omitempty"`
}

// New returns an empty document with the default styles.
func New() *Document {
	return &Document{
		Version:   Version,
		NodeStyle: style.DefaultNodeStyle(),
		EdgeStyle: style.DefaultEdgeStyle(),
		Display:   style.DefaultDisplay(),
	}
}

// FromGraph captures the current state of g. Node IDs are the decimal
// graph IDs.
func FromGraph(g *graph.Graph) *Document {
	d := &Document{
		Version:   Version,
		NodeStyle: g.NodeStyle,
		EdgeStyle: g.EdgeStyle,
		Display:   g.Display.Clone(),
		Nodes:     make([]Node, 0, g.NodeCount()),
		Edges:     make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		rec := Node{ID: nodeKey(n), X: n.Pos().X, Y: n.Pos().Y}
		if n.Style != (style.NodeStyle{}) {
			s := n.Style
			rec.Style = &s
		}
		d.Nodes = append(d.Nodes, rec)
	}
	for _, e := range g.Edges() {
		rec := Edge{From: nodeKey(e.Vertex1()), To: nodeKey(e.Vertex2())}
		if e.Style != (style.EdgeStyle{}) {
			s := e.Style
			rec.Style = &s
		}
		d.Edges = append(d.Edges, rec)
	}
	return d
}

func nodeKey(n *graph.Node) string { return strconv.FormatUint(uint64(n.ID()), 10) }

// Validate checks the structure of the document.
func (d *Document) Validate() error {
	if d.Version > Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	seen := make(map[string]struct{}, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: %w", i, ErrEmptyNodeID)
		}
		if _, ok := seen[n.ID]; ok {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNode)
		}
		seen[n.ID] = struct{}{}
	}
	for _, e := range d.Edges {
		for _, id := range []string{e.From, e.To} {
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("edge %s->%s: %w %q", e.From, e.To, ErrUnknownEndpoint, id)
			}
		}
		if e.From == e.To {
			return fmt.Errorf("edge %s->%s: %w", e.From, e.To, ErrSelfLoop)
		}
	}
	return nil
}

// Graph builds a new graph from the document. Nodes and edges are created
// in document order. Use it for read-only consumers such as rendering; the
// editor loads documents through undoable commands instead.
func (d *Document) Graph() (*graph.Graph, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	g := graph.New()
	g.NodeStyle = d.NodeStyle
	g.EdgeStyle = d.EdgeStyle
	g.Display = d.Display.Clone()

	ids := make(map[string]*graph.Node, len(d.Nodes))
	for _, n := range d.Nodes {
		ids[n.ID] = g.InsertNode(n.NodeStyle(), style.Point{X: n.X, Y: n.Y})
	}
	for _, e := range d.Edges {
		edge, err := g.InsertEdge(ids[e.From], ids[e.To])
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
		edge.Style = e.EdgeStyle()
	}
	return g, nil
}

// NodeStyle returns the node overrides, or the zero style.
func (n Node) NodeStyle() style.NodeStyle {
	if n.Style == nil {
		return style.NodeStyle{}
	}
	return *n.Style
}

// EdgeStyle returns the edge overrides, or the zero style.
func (e Edge) EdgeStyle() style.EdgeStyle {
	if e.Style == nil {
		return style.EdgeStyle{}
	}
	return *e.Style
}
