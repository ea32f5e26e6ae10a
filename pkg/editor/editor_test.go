package editor

import (
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/knotedit/pkg/command"
	kerrors "github.com/matzehuels/knotedit/pkg/errors"
	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

// counter records notifications.
type counter struct {
	graph     int
	selection int
	effects   []command.Effect
}

func (c *counter) GraphChanged(e command.Effect) {
	c.graph++
	c.effects = append(c.effects, e)
}

func (c *counter) SelectionChanged() { c.selection++ }

func (c *counter) reset() { *c = counter{} }

func newEditor(t *testing.T) (*Editor, *counter) {
	t.Helper()
	ed := New(graph.New(), WithLogger(log.New(io.Discard)))
	c := &counter{}
	ed.AddListener(c)
	return ed, c
}

type state struct {
	nodes []graph.NodeID
	pos   []style.Point
	edges [][2]graph.NodeID
}

func capture(g *graph.Graph) state {
	var s state
	for _, n := range g.Nodes() {
		s.nodes = append(s.nodes, n.ID())
		s.pos = append(s.pos, n.Pos())
	}
	for _, e := range g.Edges() {
		s.edges = append(s.edges, [2]graph.NodeID{e.Vertex1().ID(), e.Vertex2().ID()})
	}
	return s
}

func (s state) equal(o state) bool {
	return slices.Equal(s.nodes, o.nodes) && slices.Equal(s.pos, o.pos) && slices.Equal(s.edges, o.edges)
}

func TestDrawScenario(t *testing.T) {
	ed, _ := newEditor(t)
	g := ed.Graph()

	var n1, n2 *graph.Node
	var e1 *graph.Edge
	err := ed.Transaction("Draw", func() error {
		n1 = ed.AddNode(style.Point{X: 0, Y: 0})
		n2 = ed.AddNode(style.Point{X: 10, Y: 0})
		var err error
		e1, err = ed.AddEdge(n1, n2)
		return err
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if ed.History().Count() != 1 || ed.History().UndoText() != "Draw" {
		t.Fatalf("history = %v, want one Draw entry", ed.History().Texts())
	}

	if err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Fatalf("after undo: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}

	if err := ed.Redo(); err != nil {
		t.Fatal(err)
	}
	if !g.ContainsNode(n1) || !g.ContainsNode(n2) || !g.ContainsEdge(e1) {
		t.Fatal("redo did not restore the same entities")
	}
	if n1.Pos() != (style.Point{}) || n2.Pos() != (style.Point{X: 10}) {
		t.Errorf("positions = %v, %v", n1.Pos(), n2.Pos())
	}
	if n1.Style != (style.NodeStyle{}) || e1.Style != (style.EdgeStyle{}) {
		t.Error("styles changed across undo and redo")
	}
	if err := g.Validate(); err != nil {
		t.Error(err)
	}
}

func TestTransactionAtomicity(t *testing.T) {
	ed, c := newEditor(t)
	a := ed.AddNode(style.Point{})
	b := ed.AddNode(style.Point{X: 20})
	ab, _ := ed.AddEdge(a, b)
	initial := capture(ed.Graph())
	entries := ed.History().Count()
	c.reset()

	ed.BeginMacro("Edit")
	n := ed.AddNode(style.Point{X: 10, Y: 10})
	if _, err := ed.AddEdge(n, a); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.AddEdge(n, b); err != nil {
		t.Fatal(err)
	}
	if err := ed.RemoveEdge(ab); err != nil {
		t.Fatal(err)
	}
	if c.graph != 0 || c.selection != 0 {
		t.Fatalf("notified inside an open transaction: %+v", c)
	}
	if err := ed.EndMacro(); err != nil {
		t.Fatal(err)
	}

	if c.graph != 1 {
		t.Errorf("GraphChanged called %d times, want 1", c.graph)
	}
	if c.selection > 1 {
		t.Errorf("SelectionChanged called %d times, want at most 1", c.selection)
	}
	if got := ed.History().Count() - entries; got != 1 {
		t.Errorf("transaction added %d history entries, want 1", got)
	}

	if err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := capture(ed.Graph()); !got.equal(initial) {
		t.Errorf("single undo did not revert the transaction\n got: %+v\nwant: %+v", got, initial)
	}
	if c.graph != 2 {
		t.Errorf("undo should notify once, total GraphChanged = %d", c.graph)
	}
}

func TestNestedTransactions(t *testing.T) {
	ed, c := newEditor(t)

	ed.BeginMacro("Outer")
	ed.AddNode(style.Point{})
	ed.BeginMacro("Inner")
	ed.AddNode(style.Point{X: 1})
	if ed.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", ed.Depth())
	}
	if err := ed.EndMacro(); err != nil {
		t.Fatal(err)
	}
	if c.graph != 0 || ed.History().Count() != 0 {
		t.Fatal("closing an inner transaction must not commit or notify")
	}
	ed.AddNode(style.Point{X: 2})
	if err := ed.EndMacro(); err != nil {
		t.Fatal(err)
	}

	if c.graph != 1 || ed.History().Count() != 1 {
		t.Fatalf("GraphChanged = %d, entries = %d, want 1, 1", c.graph, ed.History().Count())
	}
	if err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	if ed.Graph().NodeCount() != 0 {
		t.Error("undo of the outer transaction left nodes behind")
	}
}

func TestEndMacroWithoutBegin(t *testing.T) {
	ed, _ := newEditor(t)
	err := ed.EndMacro()
	if !errors.Is(err, ErrNoOpenMacro) {
		t.Errorf("EndMacro() = %v, want ErrNoOpenMacro", err)
	}
	if !kerrors.Is(err, kerrors.ErrCodeContractViolation) {
		t.Errorf("EndMacro() code = %q", kerrors.GetCode(err))
	}
}

func TestEmptyTransactionLeavesNoEntry(t *testing.T) {
	ed, c := newEditor(t)
	if err := ed.Transaction("Nothing", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	if ed.History().Count() != 0 {
		t.Error("empty transaction was recorded")
	}
	if c.graph != 0 {
		t.Error("empty transaction notified a graph change")
	}
}

func TestTransactionRollback(t *testing.T) {
	ed, c := newEditor(t)
	a := ed.AddNode(style.Point{})
	initial := capture(ed.Graph())
	entries := ed.History().Count()
	c.reset()

	boom := errors.New("boom")
	err := ed.Transaction("Failing", func() error {
		b := ed.AddNode(style.Point{X: 5})
		if _, err := ed.AddEdge(a, b); err != nil {
			return err
		}
		ed.BeginMacro("Left open")
		_ = ed.MoveNode(a, style.Point{X: 99})
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("Transaction() = %v, want boom", err)
	}
	if ed.Depth() != 0 {
		t.Errorf("Depth() = %d after rollback", ed.Depth())
	}
	if got := capture(ed.Graph()); !got.equal(initial) {
		t.Errorf("rollback left changes\n got: %+v\nwant: %+v", got, initial)
	}
	if ed.History().Count() != entries {
		t.Error("failed transaction was recorded")
	}
	if c.graph != 0 {
		t.Errorf("rollback notified %d graph changes", c.graph)
	}
}

func TestNestedRollbackKeepsOuter(t *testing.T) {
	ed, _ := newEditor(t)

	err := ed.Transaction("Outer", func() error {
		ed.AddNode(style.Point{})
		inner := ed.Transaction("Inner", func() error {
			ed.AddNode(style.Point{X: 1})
			return errors.New("inner failed")
		})
		if inner == nil {
			t.Error("inner transaction should fail")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := ed.Graph().NodeCount(); got != 1 {
		t.Errorf("NodeCount() = %d, want only the outer node", got)
	}
	if ed.History().Count() != 1 {
		t.Errorf("history = %v", ed.History().Texts())
	}
}

func TestTransactionPanicRollsBack(t *testing.T) {
	ed, _ := newEditor(t)

	func() {
		defer func() { _ = recover() }()
		_ = ed.Transaction("Panicking", func() error {
			ed.AddNode(style.Point{})
			panic("unexpected")
		})
	}()

	if ed.Depth() != 0 || ed.Graph().NodeCount() != 0 {
		t.Errorf("Depth() = %d, NodeCount() = %d after panic", ed.Depth(), ed.Graph().NodeCount())
	}
}

func TestHistoryLockedDuringTransaction(t *testing.T) {
	ed, _ := newEditor(t)
	ed.AddNode(style.Point{})

	ed.BeginMacro("Open")
	for name, fn := range map[string]func() error{
		"undo":      ed.Undo,
		"redo":      ed.Redo,
		"set index": func() error { return ed.SetIndex(0) },
	} {
		err := fn()
		if !errors.Is(err, ErrMacroOpen) || !kerrors.Is(err, kerrors.ErrCodeTransactionOpen) {
			t.Errorf("%s during transaction = %v, want ErrMacroOpen", name, err)
		}
	}
	if ed.CanUndo() {
		t.Error("CanUndo() = true during transaction")
	}
	_ = ed.EndMacro()
}

func TestCloseForceCloses(t *testing.T) {
	ed, c := newEditor(t)

	ed.BeginMacro("Outer")
	ed.AddNode(style.Point{})
	ed.BeginMacro("Inner")
	ed.AddNode(style.Point{X: 1})

	ed.Close()

	if ed.Depth() != 0 {
		t.Fatalf("Depth() = %d after Close", ed.Depth())
	}
	if ed.Graph().NodeCount() != 2 {
		t.Error("Close dropped edits")
	}
	if ed.History().Count() != 1 || c.graph != 1 {
		t.Errorf("entries = %d, GraphChanged = %d, want 1, 1", ed.History().Count(), c.graph)
	}
}

func TestUndoRedoErrors(t *testing.T) {
	ed, _ := newEditor(t)

	if err := ed.Undo(); !errors.Is(err, command.ErrNothingToUndo) || !kerrors.Is(err, kerrors.ErrCodeNothingToUndo) {
		t.Errorf("Undo() = %v", err)
	}
	if err := ed.Redo(); !errors.Is(err, command.ErrNothingToRedo) || !kerrors.Is(err, kerrors.ErrCodeNothingToRedo) {
		t.Errorf("Redo() = %v", err)
	}
	if err := ed.SetIndex(3); !kerrors.Is(err, kerrors.ErrCodeInvalidInput) {
		t.Errorf("SetIndex(3) = %v", err)
	}
}

func TestDragMergesIntoOneEntry(t *testing.T) {
	ed, c := newEditor(t)
	n := ed.AddNode(style.Point{})
	m := ed.AddNode(style.Point{X: 50})
	c.reset()

	for i := 1; i <= 10; i++ {
		if err := ed.MoveNode(n, style.Point{X: float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if got := ed.History().Count(); got != 3 {
		t.Fatalf("history = %v, want the moves merged into one entry", ed.History().Texts())
	}

	_ = ed.MoveNode(m, style.Point{X: 60})
	if got := ed.History().Count(); got != 4 {
		t.Errorf("moving another node merged: %v", ed.History().Texts())
	}

	_ = ed.Undo()
	_ = ed.Undo()
	if n.Pos() != (style.Point{}) || m.Pos() != (style.Point{X: 50}) {
		t.Errorf("positions after two undos = %v, %v", n.Pos(), m.Pos())
	}
	for _, e := range c.effects {
		if e != command.EffectStructure {
			t.Errorf("move effect = %v", e)
		}
	}
}

func TestDragNotifiesOnce(t *testing.T) {
	ed, c := newEditor(t)
	n := ed.AddNode(style.Point{})
	c.reset()

	ed.BeginDrag()
	for i := 1; i <= 100; i++ {
		if err := ed.MoveNode(n, style.Point{X: float64(i), Y: float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if c.graph != 0 {
		t.Fatalf("GraphChanged fired %d times during the drag", c.graph)
	}
	ed.EndDrag()

	if c.graph != 1 || c.effects[0] != command.EffectStructure {
		t.Errorf("notifications = %+v, want one structure change", c)
	}
	if got := ed.History().Texts(); !slices.Equal(got, []string{"Create Node", "Move Node"}) {
		t.Errorf("history = %v", got)
	}

	c.reset()
	ed.EndDrag()
	_ = ed.MoveNode(n, style.Point{})
	if c.graph != 1 {
		t.Errorf("GraphChanged after the drag = %d, want 1", c.graph)
	}
}

func TestCloseEndsDrag(t *testing.T) {
	ed, c := newEditor(t)
	ed.BeginDrag()
	ed.AddNode(style.Point{})
	ed.Close()

	if ed.Dragging() || c.graph != 1 {
		t.Errorf("after Close: dragging=%v notifications=%+v", ed.Dragging(), c)
	}
}

func TestSetIndexNotifiesOnce(t *testing.T) {
	ed, c := newEditor(t)
	n := ed.AddNode(style.Point{})
	ed.SetWidth(8)
	_ = ed.SetNodeParam([]*graph.Node{n}, style.ParamCuspAngle, 90)
	c.reset()

	if err := ed.SetIndex(0); err != nil {
		t.Fatal(err)
	}
	if c.graph != 1 {
		t.Errorf("GraphChanged = %d, want 1", c.graph)
	}
	if want := command.EffectStyle | command.EffectStructure; c.effects[0] != want {
		t.Errorf("effect = %v, want %v", c.effects[0], want)
	}
	if ed.Graph().NodeCount() != 0 || ed.Graph().Display.Width != style.DefaultDisplay().Width {
		t.Error("SetIndex(0) did not revert everything")
	}
}

func TestStyleOnlyEffect(t *testing.T) {
	ed, c := newEditor(t)
	ed.AddNode(style.Point{})
	c.reset()

	ed.SetKnotParam(style.ParamHandleLength, 30)
	ed.SetJoinStyle(style.JoinRound)

	if c.graph != 2 || c.selection != 0 {
		t.Fatalf("notifications = %+v", c)
	}
	for _, e := range c.effects {
		if e != command.EffectStyle {
			t.Errorf("effect = %v, want style only", e)
		}
	}
}

func TestCleanState(t *testing.T) {
	ed, _ := newEditor(t)
	if ed.Modified() {
		t.Error("new editor reports modifications")
	}
	ed.AddNode(style.Point{})
	if !ed.Modified() {
		t.Error("Modified() = false after an edit")
	}
	ed.MarkSaved()
	ed.SetWidth(2)
	_ = ed.Undo()
	if ed.Modified() {
		t.Error("undo back to the saved state should be clean")
	}
}

func TestUndoLimit(t *testing.T) {
	ed := New(graph.New(), WithUndoLimit(2), WithLogger(log.New(io.Discard)))
	for i := range 5 {
		ed.AddNode(style.Point{X: float64(i)})
	}
	if got := ed.History().Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}
