package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/knotedit/pkg/style"
)

var (
	// ErrLengthMismatch is returned by list constructors when the entity,
	// before and after lists do not have the same length.
	ErrLengthMismatch = errors.New("entity and value lists differ in length")

	// ErrNotApplicable is returned when a style parameter is not carried by
	// the targeted entity class, for example the edge slide on nodes.
	ErrNotApplicable = errors.New("parameter does not apply to entity")

	// ErrEmptyTarget is returned when a list command has no entity to act on.
	ErrEmptyTarget = errors.New("no target entities")
)

// Command is one reversible edit of a graph.
//
// Redo applies the "after" state and Undo the "before" state. Both are
// deterministic: undoing a redo restores the graph exactly, and redoing
// again yields the same graph as the first redo. Commands never notify
// anyone; the editor does that once per transaction.
type Command interface {
	// Text is the label shown in the history.
	Text() string
	// Redo applies the command.
	Redo()
	// Undo reverts the command.
	Undo()
	// ID returns the merge group of the command. [KindNone] never merges.
	ID() Kind
	// MergeWith folds next, which has already been applied, into the
	// receiver. It reports false when the two cannot be combined, in which
	// case neither command changes.
	MergeWith(next Command) bool
	// Effect reports which part of the document the command touches.
	Effect() Effect
}

// Kind is the merge group of a command. Only commands with the same
// non-zero kind are offered to each other's MergeWith.
type Kind int

const (
	// KindNone marks commands that never merge.
	KindNone Kind = iota
	KindMoveNode
	KindEdgeType
	KindInsert
	KindColors
	KindBorders
	KindWidth
	KindJoinStyle
	KindBrushStyle

	kindKnotParam
	kindNodeParam = kindKnotParam + paramCount
	kindEdgeParam = kindNodeParam + paramCount
	kindEnd       = kindEdgeParam + paramCount
)

const paramCount = Kind(style.ParamEdgeSlide + 1)

// KnotParamKind returns the merge group of diagram default edits of p.
func KnotParamKind(p style.Param) Kind { return kindKnotParam + Kind(p) }

// NodeParamKind returns the merge group of node edits of p.
func NodeParamKind(p style.Param) Kind { return kindNodeParam + Kind(p) }

// EdgeParamKind returns the merge group of edge edits of p.
func EdgeParamKind(p style.Param) Kind { return kindEdgeParam + Kind(p) }

var kindNames = [...]string{
	KindNone:       "none",
	KindMoveNode:   "move-node",
	KindEdgeType:   "edge-type",
	KindInsert:     "insert",
	KindColors:     "colors",
	KindBorders:    "borders",
	KindWidth:      "width",
	KindJoinStyle:  "join-style",
	KindBrushStyle: "brush-style",
}

func (k Kind) String() string {
	switch {
	case k >= 0 && int(k) < len(kindNames):
		return kindNames[k]
	case k >= kindKnotParam && k < kindNodeParam:
		return "knot-" + style.Param(k-kindKnotParam).String()
	case k >= kindNodeParam && k < kindEdgeParam:
		return "node-" + style.Param(k-kindNodeParam).String()
	case k >= kindEdgeParam && k < kindEnd:
		return "edge-" + style.Param(k-kindEdgeParam).String()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Effect tells listeners what to refresh after a command ran.
type Effect uint8

const (
	// EffectStyle is set when styles or display options changed.
	EffectStyle Effect = 1 << iota
	// EffectStructure is set when nodes or edges were added, removed or moved.
	EffectStructure
	// EffectSelection is set when the set of selected entities may have changed.
	EffectSelection

	// EffectNone means nothing changed.
	EffectNone Effect = 0
)

// Has reports whether every bit of f is set.
func (e Effect) Has(f Effect) bool { return e&f == f }

func (e Effect) String() string {
	if e == EffectNone {
		return "none"
	}
	var parts []string
	for i, name := range []string{"style", "structure", "selection"} {
		if e&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

type base struct {
	text string
}

func (b base) Text() string { return b.text }

// never implements the merge methods of commands that do not merge.
type never struct{}

func (never) ID() Kind               { return KindNone }
func (never) MergeWith(Command) bool { return false }

// must panics on errors that can only come from commands being replayed
// out of order. Constructors validate everything a caller can get wrong.
func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("command: inconsistent history: %v", err))
	}
}

func checkLengths(n int, lens ...int) error {
	if n == 0 {
		return ErrEmptyTarget
	}
	for _, l := range lens {
		if l != n {
			return fmt.Errorf("%w: %d entities, %d values", ErrLengthMismatch, n, l)
		}
	}
	return nil
}
