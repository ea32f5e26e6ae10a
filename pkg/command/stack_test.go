package command

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

// recorder is a command that logs its calls.
type recorder struct {
	text  string
	kind  Kind
	log   *[]string
	merge bool
}

func (r *recorder) Text() string   { return r.text }
func (r *recorder) Redo()          { *r.log = append(*r.log, "redo "+r.text) }
func (r *recorder) Undo()          { *r.log = append(*r.log, "undo "+r.text) }
func (r *recorder) ID() Kind       { return r.kind }
func (r *recorder) Effect() Effect { return EffectStyle }

func (r *recorder) MergeWith(next Command) bool {
	o, ok := next.(*recorder)
	if !r.merge || !ok {
		return false
	}
	r.text += "+" + o.text
	return true
}

func TestMacroOrdering(t *testing.T) {
	var log []string
	m := NewMacro("Draw")
	for _, name := range []string{"a", "b", "c"} {
		m.Append(&recorder{text: name, log: &log})
	}

	m.Undo()
	m.Redo()

	want := []string{"undo c", "undo b", "undo a", "redo a", "redo b", "redo c"}
	if !slices.Equal(log, want) {
		t.Errorf("calls = %v, want %v", log, want)
	}
	if m.ID() != KindNone {
		t.Errorf("plain macro ID() = %v, want none", m.ID())
	}
}

func TestMacroAppendMerges(t *testing.T) {
	g, nodes, _ := triangle(t)
	m := NewMacro("Drag")

	p := nodes[0].Pos()
	for i := range 5 {
		next := style.Point{X: float64(i + 1)}
		c := MoveNode(nodes[0], p, next)
		c.Redo()
		m.Append(c)
		p = next
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after merging moves", m.Len())
	}

	c, _ := RemoveEdge(g, nodes[0].Edges()[0])
	c.Redo()
	if m.Append(c) {
		t.Error("remove edge merged into a move")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if got := m.Effect(); got != EffectStructure|EffectSelection {
		t.Errorf("Effect() = %v", got)
	}
}

func TestInsertMacroMerge(t *testing.T) {
	var log []string
	first := NewInsertMacro("Insert", false)
	first.Append(&recorder{text: "a", log: &log})

	plain := NewMacro("Other")
	if first.MergeWith(plain) {
		t.Error("insert macro merged a plain macro")
	}

	closed := NewInsertMacro("Insert", false)
	closed.Append(&recorder{text: "b", log: &log})
	if first.MergeWith(closed) {
		t.Error("insert macro merged a non-mergeable insert")
	}

	open := NewInsertMacro("Insert", true)
	open.Append(&recorder{text: "c", log: &log})
	if first.ID() != KindInsert || open.ID() != KindInsert {
		t.Fatal("insert macros must share the insert merge group")
	}
	if !first.MergeWith(open) {
		t.Fatal("insert macro refused a mergeable insert")
	}

	first.Undo()
	if want := []string{"undo c", "undo a"}; !slices.Equal(log, want) {
		t.Errorf("calls = %v, want %v", log, want)
	}
}

func TestStackPushUndoRedo(t *testing.T) {
	var log []string
	s := NewStack(0)

	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() on empty stack = %v", err)
	}
	if err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() on empty stack = %v", err)
	}

	s.Push(&recorder{text: "a", log: &log})
	s.Push(&recorder{text: "b", log: &log})

	if s.Count() != 2 || s.Index() != 2 {
		t.Fatalf("Count, Index = %d, %d", s.Count(), s.Index())
	}
	if s.UndoText() != "b" || s.RedoText() != "" {
		t.Errorf("UndoText, RedoText = %q, %q", s.UndoText(), s.RedoText())
	}

	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if !s.CanRedo() || s.RedoText() != "b" {
		t.Error("b should be redoable")
	}

	s.Push(&recorder{text: "c", log: &log})
	if got := s.Texts(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("Texts() after push = %v, redo tail must be discarded", got)
	}

	if err := s.SetIndex(0); err != nil {
		t.Fatal(err)
	}
	if err := s.SetIndex(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetIndex(3) = %v", err)
	}

	want := []string{"redo a", "redo b", "undo b", "redo c", "undo c", "undo a"}
	if !slices.Equal(log, want) {
		t.Errorf("calls = %v, want %v", log, want)
	}
}

func TestStackMerge(t *testing.T) {
	var log []string
	s := NewStack(0)

	s.Push(&recorder{text: "a", kind: KindWidth, log: &log, merge: true})
	if merged := s.Push(&recorder{text: "b", kind: KindWidth, log: &log}); !merged {
		t.Fatal("same kind did not merge")
	}
	if merged := s.Push(&recorder{text: "c", kind: KindColors, log: &log}); merged {
		t.Fatal("different kinds merged")
	}
	if merged := s.Push(&recorder{text: "d", log: &log, merge: true}); merged {
		t.Fatal("KindNone merged")
	}
	if got := s.Texts(); !slices.Equal(got, []string{"a+b", "c", "d"}) {
		t.Errorf("Texts() = %v", got)
	}
}

func TestStackNoMergeIntoCleanState(t *testing.T) {
	var log []string
	s := NewStack(0)

	s.Push(&recorder{text: "a", kind: KindWidth, log: &log, merge: true})
	s.SetClean()
	if !s.IsClean() {
		t.Fatal("IsClean() = false after SetClean")
	}
	if merged := s.Push(&recorder{text: "b", kind: KindWidth, log: &log, merge: true}); merged {
		t.Error("merged into the saved state")
	}
	if s.IsClean() {
		t.Error("IsClean() = true after a new entry")
	}

	_ = s.Undo()
	if !s.IsClean() {
		t.Error("undo back to the saved state is not clean")
	}

	_ = s.Undo()
	s.Push(&recorder{text: "c", log: &log})
	if s.CleanIndex() != -1 {
		t.Errorf("CleanIndex() = %d, want -1 once the saved state is discarded", s.CleanIndex())
	}
}

func TestStackLimit(t *testing.T) {
	var log []string
	s := NewStack(2)

	for _, name := range []string{"a", "b", "c"} {
		s.Push(&recorder{text: name, log: &log})
	}
	if got := s.Texts(); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Texts() = %v, oldest entry must be dropped", got)
	}
	if s.Index() != 2 {
		t.Errorf("Index() = %d", s.Index())
	}
	if s.CleanIndex() != -1 {
		t.Errorf("CleanIndex() = %d, the saved state was dropped", s.CleanIndex())
	}

	s.SetLimit(1)
	if got := s.Texts(); !slices.Equal(got, []string{"c"}) {
		t.Errorf("Texts() after SetLimit(1) = %v", got)
	}

	s.Clear()
	if s.Count() != 0 || s.CanUndo() || !s.IsClean() {
		t.Error("Clear() left history behind")
	}
}

func TestStackUndoRestoresGraph(t *testing.T) {
	g := graph.New()
	s := NewStack(0)

	a := g.NewNode(style.NodeStyle{}, style.Point{})
	b := g.NewNode(style.NodeStyle{}, style.Point{X: 10})
	for _, n := range []*graph.Node{a, b} {
		c, err := CreateNode(g, n)
		if err != nil {
			t.Fatal(err)
		}
		s.Push(c)
	}
	e, _ := g.NewEdge(a, b)
	c, _ := CreateEdge(g, e)
	s.Push(c)

	if err := s.SetIndex(0); err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Fatalf("graph not empty after undoing everything: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if err := s.SetIndex(s.Count()); err != nil {
		t.Fatal(err)
	}
	if !g.HasEdgeTo(a, b) {
		t.Error("edge missing after redoing everything")
	}
	if err := g.Validate(); err != nil {
		t.Error(err)
	}
}
