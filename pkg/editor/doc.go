// Package editor is the transaction controller of a knot diagram.
//
// An [Editor] owns the undo history of one [graph.Graph]. Every change goes
// through it, either as a single command:
//
//	ed := editor.New(g)
//	n := ed.AddNode(style.Point{X: 10, Y: 10})
//
// or as a transaction grouping many commands into one history entry:
//
//	err := ed.Transaction("Draw", func() error {
//	    a := ed.AddNode(style.Point{})
//	    b := ed.AddNode(style.Point{X: 10})
//	    _, err := ed.AddEdge(a, b)
//	    return err
//	})
//
// # Transactions
//
// Transactions nest. [Editor.BeginMacro] and [Editor.EndMacro] keep a depth
// counter, so code that opens a transaction can call other code that opens
// its own. Only closing the outermost transaction commits a history entry.
// [Editor.Transaction] guarantees the matching close and undoes everything
// when the function fails.
//
// # Notifications
//
// Listeners registered with [Editor.AddListener] are told about changes
// once per committed top-level transaction, undo, redo or history jump.
// The effect passed to GraphChanged tells whether the structure changed or
// only styles did. Between [Editor.BeginDrag] and [Editor.EndDrag]
// notifications are held and fired once when the drag ends:
//
//	ed.BeginDrag()
//	for _, p := range pointerPath {
//	    _ = ed.MoveNode(n, p)
//	}
//	ed.EndDrag()
//
// # Merging
//
// Consecutive commands of the same merge group fold into one history entry
// (a node drag, a slider). Inside a transaction, commands merge with the
// previous child instead.
package editor
