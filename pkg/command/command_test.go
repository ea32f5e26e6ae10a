package command

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

// snapshot captures everything a command can change.
type snapshot struct {
	nodes     []graph.NodeID
	edges     []graph.EdgeID
	pos       []style.Point
	nodeStyle []style.NodeStyle
	edgeStyle []style.EdgeStyle
	incident  [][]graph.EdgeID
	defaults  [2]any
	display   style.Display
}

func snap(g *graph.Graph) snapshot {
	s := snapshot{defaults: [2]any{g.NodeStyle, g.EdgeStyle}, display: g.Display.Clone()}
	for _, n := range g.Nodes() {
		s.nodes = append(s.nodes, n.ID())
		s.pos = append(s.pos, n.Pos())
		s.nodeStyle = append(s.nodeStyle, n.Style)
		var inc []graph.EdgeID
		for _, e := range n.Edges() {
			inc = append(inc, e.ID())
		}
		s.incident = append(s.incident, inc)
	}
	for _, e := range g.Edges() {
		s.edges = append(s.edges, e.ID())
		s.edgeStyle = append(s.edgeStyle, e.Style)
	}
	return s
}

func (s snapshot) equal(o snapshot) bool {
	return slices.Equal(s.nodes, o.nodes) &&
		slices.Equal(s.edges, o.edges) &&
		slices.Equal(s.pos, o.pos) &&
		slices.Equal(s.nodeStyle, o.nodeStyle) &&
		slices.Equal(s.edgeStyle, o.edgeStyle) &&
		slices.EqualFunc(s.incident, o.incident, slices.Equal) &&
		s.defaults == o.defaults &&
		s.display.Equal(o.display)
}

// triangle returns a graph with three nodes joined in a cycle.
func triangle(t *testing.T) (*graph.Graph, []*graph.Node, []*graph.Edge) {
	t.Helper()
	g := graph.New()
	var nodes []*graph.Node
	for i := range 3 {
		nodes = append(nodes, g.InsertNode(style.NodeStyle{}, style.Point{X: float64(i * 10)}))
	}
	var edges []*graph.Edge
	for i := range nodes {
		e, err := g.InsertEdge(nodes[i], nodes[(i+1)%len(nodes)])
		if err != nil {
			t.Fatalf("InsertEdge: %v", err)
		}
		edges = append(edges, e)
	}
	return g, nodes, edges
}

func mustCommand(t *testing.T, c Command, err error) Command {
	t.Helper()
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}
	return c
}

func TestInverseLaw(t *testing.T) {
	tests := []struct {
		name string
		make func(t *testing.T, g *graph.Graph, n []*graph.Node, e []*graph.Edge) Command
	}{
		{"create node", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			c, err := CreateNode(g, g.NewNode(style.NodeStyle{}, style.Point{X: 5}))
			return mustCommand(t, c, err)
		}},
		{"create edge", func(t *testing.T, g *graph.Graph, n []*graph.Node, _ []*graph.Edge) Command {
			e, _ := g.NewEdge(n[0], n[1])
			c, err := CreateEdge(g, e)
			return mustCommand(t, c, err)
		}},
		{"remove edge", func(t *testing.T, g *graph.Graph, _ []*graph.Node, e []*graph.Edge) Command {
			c, err := RemoveEdge(g, e[1])
			return mustCommand(t, c, err)
		}},
		{"remove isolated node", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			c, err := RemoveNode(g, g.InsertNode(style.NodeStyle{}, style.Point{}))
			return mustCommand(t, c, err)
		}},
		{"move node", func(t *testing.T, _ *graph.Graph, n []*graph.Node, _ []*graph.Edge) Command {
			return MoveNode(n[2], n[2].Pos(), style.Point{X: -4, Y: 9})
		}},
		{"node param", func(t *testing.T, _ *graph.Graph, n []*graph.Node, _ []*graph.Edge) Command {
			c, err := NodeParam(n[:2], style.ParamCuspAngle, []float64{0, 0}, []float64{90, 120})
			return mustCommand(t, c, err)
		}},
		{"edge param", func(t *testing.T, _ *graph.Graph, _ []*graph.Node, e []*graph.Edge) Command {
			c, err := EdgeParam(e, style.ParamEdgeSlide, []float64{0, 0, 0}, []float64{0.1, 0.2, 0.3})
			return mustCommand(t, c, err)
		}},
		{"knot param", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			return KnotParam(g, style.ParamHandleLength, KnotDefaults(g, style.ParamHandleLength), Uniform(style.ParamHandleLength, 40))
		}},
		{"knot param with diverging defaults", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			g.NodeStyle.CrossingDistance, g.EdgeStyle.CrossingDistance = 10, 20
			return KnotParam(g, style.ParamCrossingDistance, KnotDefaults(g, style.ParamCrossingDistance), Uniform(style.ParamCrossingDistance, 30))
		}},
		{"node enable", func(t *testing.T, _ *graph.Graph, n []*graph.Node, _ []*graph.Edge) Command {
			c, err := NodeEnable(n[:1], []style.NodeFeatures{n[0].Style.Enabled}, []style.NodeFeatures{style.NodeAll})
			return mustCommand(t, c, err)
		}},
		{"edge enable one", func(t *testing.T, _ *graph.Graph, _ []*graph.Node, e []*graph.Edge) Command {
			return EdgeEnableOne("Enable Slide", e[0], e[0].Style.Enabled, style.EdgeSlideOffset)
		}},
		{"node cusp shape", func(t *testing.T, _ *graph.Graph, n []*graph.Node, _ []*graph.Edge) Command {
			c, err := NodeCuspShape(n[1:], []style.CuspShape{0, 0}, []style.CuspShape{style.CuspOgee, style.CuspRounded})
			return mustCommand(t, c, err)
		}},
		{"knot cusp shape", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			return KnotCuspShape(g, g.NodeStyle.CuspShape, style.CuspPolygonal)
		}},
		{"edge type", func(t *testing.T, _ *graph.Graph, _ []*graph.Node, e []*graph.Edge) Command {
			return ChangeEdgeType(e[2], e[2].Type(), style.EdgeWall)
		}},
		{"node style all", func(t *testing.T, _ *graph.Graph, n []*graph.Node, _ []*graph.Edge) Command {
			return NodeStyleAll(n[0], n[0].Style, style.DefaultNodeStyle())
		}},
		{"edge style all", func(t *testing.T, _ *graph.Graph, _ []*graph.Node, e []*graph.Edge) Command {
			return EdgeStyleAll(e[0], e[0].Style, style.EdgeStyle{Type: style.EdgeHole, Enabled: style.EdgeKind})
		}},
		{"knot style all", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			return KnotStyleAll(g, g.NodeStyle, style.NodeStyle{CuspAngle: 1}, g.EdgeStyle, style.EdgeStyle{EdgeSlide: 1})
		}},
		{"colors", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			return ChangeColors(g, g.Display.Colors, []style.Color{{R: 255, A: 255}, {B: 255, A: 255}})
		}},
		{"borders", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			return ChangeBorders(g, g.Display.Borders, []style.Border{{Color: style.Black, Width: 3}})
		}},
		{"width", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			return KnotWidth(g, g.Display.Width, 12)
		}},
		{"join", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			return JoinStyle(g, g.Display.Join, style.JoinRound)
		}},
		{"brush", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			return BrushStyle(g, g.Display.Brush, style.BrushCross)
		}},
		{"custom colors", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			return CustomColors(g, g.Display.CustomColors, true)
		}},
		{"show border", func(t *testing.T, g *graph.Graph, _ []*graph.Node, _ []*graph.Edge) Command {
			return ShowBorder(g, g.Display.ShowBorder, true)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, nodes, edges := triangle(t)
			c := tt.make(t, g, nodes, edges)
			before := snap(g)

			c.Redo()
			after := snap(g)
			if after.equal(before) {
				t.Fatal("Redo() did not change the graph")
			}

			c.Undo()
			if got := snap(g); !got.equal(before) {
				t.Fatalf("Undo(Redo(S)) != S\n got: %+v\nwant: %+v", got, before)
			}

			c.Redo()
			if got := snap(g); !got.equal(after) {
				t.Fatalf("Redo(Undo(Redo(S))) != Redo(S)\n got: %+v\nwant: %+v", got, after)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestConstructorErrors(t *testing.T) {
	g, nodes, edges := triangle(t)
	other := graph.New()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"remove node with edges", second(RemoveNode(g, nodes[0])), graph.ErrNodeHasEdges},
		{"remove unknown node", second(RemoveNode(other, nodes[0])), graph.ErrUnknownNode},
		{"create existing node", second(CreateNode(g, nodes[0])), graph.ErrDuplicateNode},
		{"create foreign node", second(CreateNode(other, nodes[0])), graph.ErrForeignEntity},
		{"create existing edge", second(CreateEdge(g, edges[0])), graph.ErrDuplicateEdge},
		{"remove unknown edge", second(RemoveEdge(other, edges[0])), graph.ErrUnknownEdge},
		{"edge slide on nodes", second(NodeParam(nodes, style.ParamEdgeSlide, []float64{0, 0, 0}, []float64{1, 1, 1})), ErrNotApplicable},
		{"cusp angle on edges", second(EdgeParam(edges, style.ParamCuspAngle, []float64{0, 0, 0}, []float64{1, 1, 1})), ErrNotApplicable},
		{"length mismatch", second(NodeParam(nodes, style.ParamCuspAngle, []float64{0}, []float64{1, 1, 1})), ErrLengthMismatch},
		{"empty target", second(EdgeEnable(nil, nil, nil)), ErrEmptyTarget},
		{"cusp shape mismatch", second(NodeCuspShape(nodes[:1], nil, nil)), ErrLengthMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("error = %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func second(_ Command, err error) error { return err }

func TestCreateEdgeNeedsEndpoints(t *testing.T) {
	g := graph.New()
	a := g.InsertNode(style.NodeStyle{}, style.Point{})
	b := g.NewNode(style.NodeStyle{}, style.Point{})
	e, _ := g.NewEdge(a, b)

	if _, err := CreateEdge(g, e); !errors.Is(err, graph.ErrUnknownNode) {
		t.Fatalf("CreateEdge() = %v, want ErrUnknownNode", err)
	}

	cn, _ := CreateNode(g, b)
	cn.Redo()
	if _, err := CreateEdge(g, e); err != nil {
		t.Errorf("CreateEdge() after creating endpoint = %v", err)
	}
}

func TestMergeIdempotence(t *testing.T) {
	g, nodes, _ := triangle(t)
	n := nodes[0]
	start := snap(g)

	steps := []style.Point{{X: 1}, {X: 2}, {X: 3, Y: 3}}
	var first Command
	prev := n.Pos()
	for _, p := range steps {
		c := MoveNode(n, prev, p)
		c.Redo()
		prev = p
		if first == nil {
			first = c
			continue
		}
		if !first.MergeWith(c) {
			t.Fatal("consecutive moves of the same node must merge")
		}
	}
	end := snap(g)

	first.Undo()
	if !snap(g).equal(start) {
		t.Error("merged Undo did not restore the state before the first move")
	}
	first.Redo()
	if !snap(g).equal(end) {
		t.Error("merged Redo did not reproduce the final state")
	}
}

func TestMergeIsolation(t *testing.T) {
	g, nodes, edges := triangle(t)

	tests := []struct {
		name string
		a, b Command
	}{
		{"moves of different nodes", MoveNode(nodes[0], style.Point{}, style.Point{X: 1}), MoveNode(nodes[1], style.Point{}, style.Point{X: 1})},
		{"different knot params", KnotParam(g, style.ParamCuspAngle, Defaults{}, Defaults{Node: 1}), KnotParam(g, style.ParamCuspDistance, Defaults{}, Defaults{Node: 1})},
		{"edge types of different edges", ChangeEdgeType(edges[0], 0, 1), ChangeEdgeType(edges[1], 0, 1)},
		{"custom colors toggles", CustomColors(g, false, true), CustomColors(g, true, false)},
		{"width then join", KnotWidth(g, 1, 2), JoinStyle(g, 0, 1)},
		{"node style all", NodeStyleAll(nodes[0], style.NodeStyle{}, style.NodeStyle{}), NodeStyleAll(nodes[0], style.NodeStyle{}, style.NodeStyle{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.MergeWith(tt.b) {
				t.Error("MergeWith() = true, want false")
			}
		})
	}
}

func TestListMergeRequiresSameList(t *testing.T) {
	_, nodes, _ := triangle(t)

	a, _ := NodeParam(nodes[:2], style.ParamCuspAngle, []float64{0, 0}, []float64{10, 10})
	same, _ := NodeParam(nodes[:2], style.ParamCuspAngle, []float64{10, 10}, []float64{20, 20})
	reordered, _ := NodeParam([]*graph.Node{nodes[1], nodes[0]}, style.ParamCuspAngle, []float64{0, 0}, []float64{1, 1})
	other, _ := NodeParam(nodes[1:], style.ParamCuspAngle, []float64{0, 0}, []float64{1, 1})
	otherParam, _ := NodeParam(nodes[:2], style.ParamCuspDistance, []float64{0, 0}, []float64{1, 1})

	if a.ID() == otherParam.ID() {
		t.Error("different parameters must use different merge groups")
	}
	if a.MergeWith(reordered) {
		t.Error("merged with a reordered list")
	}
	if a.MergeWith(other) {
		t.Error("merged with a different list")
	}
	if !a.MergeWith(same) {
		t.Fatal("did not merge with the same list")
	}

	a.Redo()
	for _, n := range nodes[:2] {
		if n.Style.CuspAngle != 20 || !n.Style.Enabled.Has(style.NodeCuspAngle) {
			t.Errorf("node %d style = %+v after merged redo", n.ID(), n.Style)
		}
	}
	a.Undo()
	for _, n := range nodes[:2] {
		if n.Style.CuspAngle != 0 || n.Style.Enabled != style.NodeNothing {
			t.Errorf("node %d style = %+v after merged undo", n.ID(), n.Style)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNone, "none"},
		{KindMoveNode, "move-node"},
		{KnotParamKind(style.ParamCuspAngle), "knot-cusp-angle"},
		{NodeParamKind(style.ParamHandleLength), "node-handle-length"},
		{EdgeParamKind(style.ParamEdgeSlide), "edge-edge-slide"},
		{Kind(999), "kind(999)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}

	if got := (EffectStyle | EffectSelection).String(); got != "style|selection" {
		t.Errorf("Effect.String() = %q", got)
	}
}

func TestKnotParamKeepsSeparateDefaults(t *testing.T) {
	g := graph.New()
	g.NodeStyle.HandleLength, g.EdgeStyle.HandleLength = 10, 20
	p := style.ParamHandleLength

	c := KnotParam(g, p, KnotDefaults(g, p), Uniform(p, 30))
	c.Redo()
	if !c.MergeWith(KnotParam(g, p, Uniform(p, 30), Uniform(p, 35))) {
		t.Fatal("consecutive edits of the same default must merge")
	}
	c.Redo()
	if g.NodeStyle.HandleLength != 35 || g.EdgeStyle.HandleLength != 35 {
		t.Errorf("after redo: node=%v edge=%v, want 35, 35", g.NodeStyle.HandleLength, g.EdgeStyle.HandleLength)
	}

	c.Undo()
	if g.NodeStyle.HandleLength != 10 || g.EdgeStyle.HandleLength != 20 {
		t.Errorf("after undo: node=%v edge=%v, want 10, 20", g.NodeStyle.HandleLength, g.EdgeStyle.HandleLength)
	}
}

func TestUniform(t *testing.T) {
	tests := []struct {
		p    style.Param
		want Defaults
	}{
		{style.ParamHandleLength, Defaults{Node: 5, Edge: 5}},
		{style.ParamCuspAngle, Defaults{Node: 5}},
		{style.ParamEdgeSlide, Defaults{Edge: 5}},
	}
	for _, tt := range tests {
		if got := Uniform(tt.p, 5); got != tt.want {
			t.Errorf("Uniform(%s, 5) = %+v, want %+v", tt.p, got, tt.want)
		}
	}
}

func TestRemoveRestoresSelection(t *testing.T) {
	tests := []struct {
		name     string
		selected bool
	}{
		{"selected", true},
		{"unselected", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, edges := triangle(t)
			e := edges[0]
			e.Selected = tt.selected
			c, err := RemoveEdge(g, e)
			rmEdge := mustCommand(t, c, err)
			rmEdge.Redo()
			if e.Selected {
				t.Error("removed edge is still selected")
			}

			g2 := graph.New()
			n := g2.InsertNode(style.NodeStyle{}, style.Point{})
			n.Selected = tt.selected
			c, err = RemoveNode(g2, n)
			rmNode := mustCommand(t, c, err)
			rmNode.Redo()

			rmEdge.Undo()
			rmNode.Undo()
			if e.Selected != tt.selected || n.Selected != tt.selected {
				t.Errorf("after undo: edge selected %v, node selected %v, want %v", e.Selected, n.Selected, tt.selected)
			}
		})
	}
}
