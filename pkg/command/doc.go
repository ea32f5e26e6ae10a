// Package command implements reversible edits of a knot diagram and the
// linear history that replays them.
//
// # Commands
//
// Every edit is a [Command] holding value snapshots of the state before and
// after the change:
//
//	c := command.MoveNode(n, n.Pos(), style.Point{X: 10, Y: 20})
//	c.Redo() // n is at (10, 20)
//	c.Undo() // n is back
//
// Constructors validate their arguments and return an error for requests
// that could never be applied, such as removing a node that still has
// edges. Redo and Undo themselves cannot fail.
//
// # Merging
//
// Commands in the same merge group ([Kind]) may fold into each other. A
// slider dragged over a selection produces one [NodeParam] per tick; the
// stack merges them into a single entry whose Undo restores the value from
// before the drag. Commands of [KindNone] never merge.
//
// # Macros and history
//
// A [Macro] groups already-applied commands so that they undo together. A
// [Stack] stores the history: committing truncates the redo tail and then
// tries to merge the new entry into the previous one.
//
// The editor in pkg/editor drives both. Most callers should use it rather
// than pushing commands directly.
package command
