package command

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingToUndo is returned by [Stack.Undo] at the start of the history.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by [Stack.Redo] at the end of the history.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrIndexOutOfRange is returned by [Stack.SetIndex] for positions outside
	// the history.
	ErrIndexOutOfRange = errors.New("history index out of range")
)

// Stack is a linear undo history.
//
// The index is the number of applied entries. Entries at or above the index
// can be redone and are discarded by the next commit. The clean index marks
// the state last saved; it is -1 once that state can no longer be reached.
//
// The zero value is an empty, clean, unlimited stack.
type Stack struct {
	entries []Command
	index   int
	clean   int
	limit   int
}

// NewStack returns an empty stack keeping at most limit entries.
// A limit of zero or less keeps everything.
func NewStack(limit int) *Stack {
	return &Stack{limit: max(limit, 0)}
}

// Push applies c and commits it.
func (s *Stack) Push(c Command) (merged bool) {
	c.Redo()
	return s.Commit(c)
}

// Commit records c, which has already been applied. The redo tail is
// discarded first. When c shares a merge group with the entry below the
// index and that entry accepts it, c is folded into it instead of being
// added; the saved state is never merged into.
func (s *Stack) Commit(c Command) (merged bool) {
	if s.index < len(s.entries) {
		clear(s.entries[s.index:])
		s.entries = s.entries[:s.index]
		if s.clean > s.index {
			s.clean = -1
		}
	}

	if s.index > 0 && s.index != s.clean {
		prev := s.entries[s.index-1]
		if id := c.ID(); id != KindNone && id == prev.ID() && prev.MergeWith(c) {
			return true
		}
	}

	s.entries = append(s.entries, c)
	s.index++
	s.trim()
	return false
}

// Undo reverts the entry below the index.
func (s *Stack) Undo() error {
	if s.index == 0 {
		return ErrNothingToUndo
	}
	s.index--
	s.entries[s.index].Undo()
	return nil
}

// Redo re-applies the entry at the index.
func (s *Stack) Redo() error {
	if s.index >= len(s.entries) {
		return ErrNothingToRedo
	}
	s.entries[s.index].Redo()
	s.index++
	return nil
}

// SetIndex undoes or redoes entries until the index is i.
func (s *Stack) SetIndex(i int) error {
	if i < 0 || i > len(s.entries) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrIndexOutOfRange, i, len(s.entries))
	}
	for s.index > i {
		_ = s.Undo()
	}
	for s.index < i {
		_ = s.Redo()
	}
	return nil
}

// Index returns the number of applied entries.
func (s *Stack) Index() int { return s.index }

// Count returns the number of entries.
func (s *Stack) Count() int { return len(s.entries) }

// CanUndo reports whether an entry can be undone.
func (s *Stack) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether an entry can be redone.
func (s *Stack) CanRedo() bool { return s.index < len(s.entries) }

// UndoText returns the label of the entry Undo would revert, or "".
func (s *Stack) UndoText() string {
	if !s.CanUndo() {
		return ""
	}
	return s.entries[s.index-1].Text()
}

// RedoText returns the label of the entry Redo would apply, or "".
func (s *Stack) RedoText() string {
	if !s.CanRedo() {
		return ""
	}
	return s.entries[s.index].Text()
}

// Texts returns the labels of every entry, oldest first.
func (s *Stack) Texts() []string {
	out := make([]string, len(s.entries))
	for i, c := range s.entries {
		out[i] = c.Text()
	}
	return out
}

// Entry returns the entry at position i, or nil.
func (s *Stack) Entry(i int) Command {
	if i < 0 || i >= len(s.entries) {
		return nil
	}
	return s.entries[i]
}

// SetClean marks the current state as saved.
func (s *Stack) SetClean() { s.clean = s.index }

// IsClean reports whether the current state is the saved one.
func (s *Stack) IsClean() bool { return s.index == s.clean }

// CleanIndex returns the index of the saved state, or -1.
func (s *Stack) CleanIndex() int { return s.clean }

// Limit returns the maximum number of entries, zero meaning unlimited.
func (s *Stack) Limit() int { return s.limit }

// SetLimit changes the maximum number of entries. Oldest applied entries are
// dropped when the history is longer.
func (s *Stack) SetLimit(limit int) {
	s.limit = max(limit, 0)
	s.trim()
}

// Clear empties the history. The graph keeps its current state, which
// becomes the saved one.
func (s *Stack) Clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
	s.index = 0
	s.clean = 0
}

func (s *Stack) trim() {
	if s.limit == 0 || len(s.entries) <= s.limit {
		return
	}
	drop := min(len(s.entries)-s.limit, s.index)
	if drop == 0 {
		return
	}
	clear(s.entries[:drop])
	s.entries = s.entries[drop:]
	s.index -= drop
	if s.clean >= 0 {
		s.clean -= drop
		if s.clean < 0 {
			s.clean = -1
		}
	}
}
