package editor

import "github.com/matzehuels/knotedit/pkg/command"

// Listener receives change notifications from an [Editor].
//
// Notifications are sent once per committed top-level transaction and once
// per undo, redo or history jump, never per command.
type Listener interface {
	// GraphChanged is called when nodes, edges or styles changed. The effect
	// tells which; a style-only change does not require a new layout.
	GraphChanged(effect command.Effect)
	// SelectionChanged is called when the set of selected entities may have
	// changed. Re-read it from the graph.
	SelectionChanged()
}

// ListenerFuncs adapts plain functions to [Listener]. Nil fields are skipped.
type ListenerFuncs struct {
	Graph     func(effect command.Effect)
	Selection func()
}

func (f ListenerFuncs) GraphChanged(effect command.Effect) {
	if f.Graph != nil {
		f.Graph(effect)
	}
}

func (f ListenerFuncs) SelectionChanged() {
	if f.Selection != nil {
		f.Selection()
	}
}
