package editor

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/knotedit/pkg/command"
	kerrors "github.com/matzehuels/knotedit/pkg/errors"
	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/observability"
)

var (
	// ErrNoOpenMacro is returned by [Editor.EndMacro] without a matching
	// [Editor.BeginMacro].
	ErrNoOpenMacro = errors.New("no open macro")

	// ErrMacroOpen is returned by history navigation while a transaction is
	// in progress.
	ErrMacroOpen = errors.New("transaction in progress")
)

// Editor applies commands to a graph and records them in an undo history.
//
// Edits are grouped in transactions. A transaction is opened with
// [Editor.BeginMacro] and closed with [Editor.EndMacro]; transactions nest,
// and only closing the outermost one commits a history entry and notifies
// listeners. [Editor.Transaction] wraps both calls around a function and
// discards the edits when the function fails.
//
// An Editor is not safe for concurrent use.
type Editor struct {
	g     *graph.Graph
	stack *command.Stack

	open      []*command.Macro
	listeners []Listener
	logger    *log.Logger

	started        time.Time
	selectionDirty bool

	// dragging holds notifications; held collects their effects.
	dragging bool
	held     command.Effect
}

// Option configures an [Editor].
type Option func(*Editor)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(ed *Editor) {
		if l != nil {
			ed.logger = l
		}
	}
}

// WithUndoLimit caps the number of history entries. Zero keeps everything.
func WithUndoLimit(n int) Option {
	return func(ed *Editor) { ed.stack.SetLimit(n) }
}

// New returns an editor for g with an empty, clean history.
func New(g *graph.Graph, opts ...Option) *Editor {
	ed := &Editor{
		g:      g,
		stack:  command.NewStack(0),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(ed)
	}
	return ed
}

// Graph returns the edited graph. Mutate it through the editor only.
func (ed *Editor) Graph() *graph.Graph { return ed.g }

// History returns the undo history for inspection. Navigate it with
// [Editor.Undo], [Editor.Redo] and [Editor.SetIndex] so listeners are
// notified.
func (ed *Editor) History() *command.Stack { return ed.stack }

// AddListener registers l for change notifications.
func (ed *Editor) AddListener(l Listener) {
	ed.listeners = append(ed.listeners, l)
}

// Depth returns the number of open transactions.
func (ed *Editor) Depth() int { return len(ed.open) }

// BeginMacro opens a transaction labelled text. Calls nest: a transaction
// opened inside another becomes one of its children.
func (ed *Editor) BeginMacro(text string) {
	ed.begin(command.NewMacro(text))
}

// BeginInsertMacro opens an insert transaction. When mergeable is true and
// the previous history entry is also an insert, the two become one entry.
func (ed *Editor) BeginInsertMacro(text string, mergeable bool) {
	ed.begin(command.NewInsertMacro(text, mergeable))
}

func (ed *Editor) begin(m *command.Macro) {
	if len(ed.open) == 0 {
		ed.started = time.Now()
	}
	ed.open = append(ed.open, m)
	ed.logger.Debug("begin transaction", "text", m.Text(), "depth", len(ed.open))
}

// EndMacro closes the innermost transaction. Closing the outermost one
// commits it as a single history entry and notifies listeners once.
// Transactions without any command leave no history entry.
func (ed *Editor) EndMacro() error {
	m, ok := ed.pop()
	if !ok {
		return kerrors.Wrap(kerrors.ErrCodeContractViolation, ErrNoOpenMacro, "end transaction")
	}
	ed.logger.Debug("end transaction", "text", m.Text(), "depth", len(ed.open), "commands", m.Len())

	if len(ed.open) > 0 {
		if m.Len() > 0 {
			ed.append(ed.open[len(ed.open)-1], m)
		}
		return nil
	}

	if m.Len() == 0 {
		ed.notify(command.EffectNone)
		return nil
	}
	if ed.stack.Commit(m) {
		observability.Edit().OnMerge(m.ID().String())
	}
	observability.Edit().OnTransaction(m.Text(), m.Len(), m.Effect().String(), time.Since(ed.started))
	ed.notify(m.Effect())
	return nil
}

// Transaction runs fn inside a transaction labelled text. The transaction is
// always closed. When fn returns an error, or panics, every edit it made is
// undone and nothing is recorded.
func (ed *Editor) Transaction(text string, fn func() error) error {
	return ed.run(command.NewMacro(text), fn)
}

// InsertTransaction is [Editor.Transaction] for an insert transaction, see
// [Editor.BeginInsertMacro].
func (ed *Editor) InsertTransaction(text string, mergeable bool, fn func() error) error {
	return ed.run(command.NewInsertMacro(text, mergeable), fn)
}

func (ed *Editor) run(m *command.Macro, fn func() error) error {
	ed.begin(m)
	depth := len(ed.open)

	done := false
	defer func() {
		if !done {
			ed.rollback(depth, fmt.Errorf("transaction %q panicked", m.Text()))
		}
	}()

	if err := fn(); err != nil {
		done = true
		ed.rollback(depth, err)
		return err
	}
	ed.closeTo(depth)
	done = true
	return ed.EndMacro()
}

// rollback undoes and discards every open transaction down to and
// including the one at depth.
func (ed *Editor) rollback(depth int, cause error) {
	var effect command.Effect
	for len(ed.open) >= depth {
		m, _ := ed.pop()
		m.Undo()
		effect |= m.Effect()
		ed.logger.Debug("rolled back transaction", "text", m.Text(), "commands", m.Len(), "err", cause)
		observability.Edit().OnRollback(m.Text(), cause)
	}
	if len(ed.open) == 0 {
		ed.notify(effect & command.EffectSelection)
	}
}

// closeTo force-closes transactions left open above depth.
func (ed *Editor) closeTo(depth int) {
	for len(ed.open) > depth {
		ed.logger.Warn("closing unfinished transaction", "text", ed.open[len(ed.open)-1].Text())
		_ = ed.EndMacro()
	}
}

// Close commits every transaction left open and ends a drag. The edits
// are kept rather than dropped. Call it when the document is closed.
func (ed *Editor) Close() {
	ed.closeTo(0)
	ed.EndDrag()
}

// BeginDrag starts a drag. Edits keep committing one by one, so
// consecutive moves of a node merge into one history entry, but listeners
// hear nothing until [Editor.EndDrag].
func (ed *Editor) BeginDrag() {
	ed.dragging = true
}

// EndDrag ends a drag and notifies listeners once for everything changed
// since [Editor.BeginDrag]. Without a drag it does nothing.
func (ed *Editor) EndDrag() {
	if !ed.dragging {
		return
	}
	ed.dragging = false
	effect := ed.held
	ed.held = command.EffectNone
	ed.notify(effect)
}

// Dragging reports whether a drag is in progress.
func (ed *Editor) Dragging() bool { return ed.dragging }

func (ed *Editor) pop() (*command.Macro, bool) {
	if len(ed.open) == 0 {
		return nil, false
	}
	m := ed.open[len(ed.open)-1]
	ed.open[len(ed.open)-1] = nil
	ed.open = ed.open[:len(ed.open)-1]
	return m, true
}

func (ed *Editor) append(m *command.Macro, c command.Command) {
	if m.Append(c) {
		observability.Edit().OnMerge(c.ID().String())
	}
}

// Push applies c. Inside a transaction it becomes a child of the innermost
// one; otherwise it is committed as its own history entry and listeners are
// notified.
func (ed *Editor) Push(c command.Command) {
	c.Redo()
	if n := len(ed.open); n > 0 {
		ed.append(ed.open[n-1], c)
		return
	}
	if ed.stack.Commit(c) {
		observability.Edit().OnMerge(c.ID().String())
	}
	observability.Edit().OnTransaction(c.Text(), 1, c.Effect().String(), 0)
	ed.notify(c.Effect())
}

// Undo reverts the last history entry.
func (ed *Editor) Undo() error {
	if err := ed.checkClosed("undo"); err != nil {
		return err
	}
	text := ed.stack.UndoText()
	if err := ed.stack.Undo(); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeNothingToUndo, err, "undo")
	}
	observability.Edit().OnUndo(text)
	ed.notify(ed.stack.Entry(ed.stack.Index()).Effect())
	return nil
}

// Redo re-applies the next history entry.
func (ed *Editor) Redo() error {
	if err := ed.checkClosed("redo"); err != nil {
		return err
	}
	text := ed.stack.RedoText()
	if err := ed.stack.Redo(); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeNothingToRedo, err, "redo")
	}
	observability.Edit().OnRedo(text)
	ed.notify(ed.stack.Entry(ed.stack.Index() - 1).Effect())
	return nil
}

// SetIndex undoes or redoes entries until i entries are applied. Listeners
// are notified once.
func (ed *Editor) SetIndex(i int) error {
	if err := ed.checkClosed("set history index"); err != nil {
		return err
	}
	lo, hi := min(i, ed.stack.Index()), max(i, ed.stack.Index())
	if err := ed.stack.SetIndex(i); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "set history index")
	}
	var effect command.Effect
	for j := lo; j < hi; j++ {
		effect |= ed.stack.Entry(j).Effect()
	}
	ed.notify(effect)
	return nil
}

// CanUndo reports whether Undo would succeed.
func (ed *Editor) CanUndo() bool { return len(ed.open) == 0 && ed.stack.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (ed *Editor) CanRedo() bool { return len(ed.open) == 0 && ed.stack.CanRedo() }

// MarkSaved records the current state as saved.
func (ed *Editor) MarkSaved() { ed.stack.SetClean() }

// Modified reports whether the graph differs from the last saved state.
func (ed *Editor) Modified() bool { return !ed.stack.IsClean() }

// ClearHistory drops every history entry, keeping the graph as is.
func (ed *Editor) ClearHistory() error {
	if err := ed.checkClosed("clear history"); err != nil {
		return err
	}
	ed.stack.Clear()
	return nil
}

func (ed *Editor) checkClosed(op string) error {
	if len(ed.open) > 0 {
		return kerrors.Wrap(kerrors.ErrCodeTransactionOpen, ErrMacroOpen, "%s", op)
	}
	return nil
}

// notify fires the change notifications for a finished top-level change.
func (ed *Editor) notify(effect command.Effect) {
	if ed.dragging {
		ed.held |= effect
		return
	}
	selection := effect.Has(command.EffectSelection) || ed.selectionDirty
	ed.selectionDirty = false
	graphChanged := effect&^command.EffectSelection != command.EffectNone

	for _, l := range ed.listeners {
		if graphChanged {
			l.GraphChanged(effect)
		}
		if selection {
			l.SelectionChanged()
		}
	}
}
