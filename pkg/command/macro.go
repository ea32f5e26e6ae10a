package command

import "slices"

// Macro groups commands into one history entry.
//
// Children are appended already applied. Redo replays them in order and
// Undo reverts them in reverse order.
type Macro struct {
	base
	children  []Command
	insert    bool
	mergeable bool
}

// NewMacro returns an empty macro labelled text. A plain macro never merges.
func NewMacro(text string) *Macro {
	return &Macro{base: base{text}}
}

// NewInsertMacro returns an empty insert macro. Insert macros are used for
// pasted or scripted content. An insert macro absorbs the next one when the
// next one is mergeable, so a stream of inserts can undo as a single step.
func NewInsertMacro(text string, mergeable bool) *Macro {
	return &Macro{base: base{text}, insert: true, mergeable: mergeable}
}

// Append adds an applied command. It is folded into the last child when both
// share a merge group and the last child accepts it.
func (m *Macro) Append(c Command) (merged bool) {
	if n := len(m.children); n > 0 {
		last := m.children[n-1]
		if id := c.ID(); id != KindNone && id == last.ID() && last.MergeWith(c) {
			return true
		}
	}
	m.children = append(m.children, c)
	return false
}

// Len returns the number of children.
func (m *Macro) Len() int { return len(m.children) }

// Children returns the children in application order.
func (m *Macro) Children() []Command { return slices.Clone(m.children) }

// Mergeable reports whether the macro may be absorbed by a previous insert
// macro.
func (m *Macro) Mergeable() bool { return m.mergeable }

func (m *Macro) Redo() {
	for _, c := range m.children {
		c.Redo()
	}
}

func (m *Macro) Undo() {
	for _, c := range slices.Backward(m.children) {
		c.Undo()
	}
}

func (m *Macro) ID() Kind {
	if m.insert {
		return KindInsert
	}
	return KindNone
}

func (m *Macro) MergeWith(next Command) bool {
	o, ok := next.(*Macro)
	if !m.insert || !ok || !o.insert || !o.mergeable {
		return false
	}
	m.children = append(m.children, o.children...)
	return true
}

// Effect combines the effects of the children.
func (m *Macro) Effect() Effect {
	var e Effect
	for _, c := range m.children {
		e |= c.Effect()
	}
	return e
}
