package command

import (
	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

type moveNode struct {
	base
	n             *graph.Node
	before, after style.Point
}

// MoveNode returns a command moving n from before to after. Consecutive
// moves of the same node merge, so a drag becomes a single history entry.
func MoveNode(n *graph.Node, before, after style.Point) Command {
	return &moveNode{base: base{"Move Node"}, n: n, before: before, after: after}
}

func (c *moveNode) Redo()          { c.n.SetPos(c.after) }
func (c *moveNode) Undo()          { c.n.SetPos(c.before) }
func (c *moveNode) ID() Kind       { return KindMoveNode }
func (c *moveNode) Effect() Effect { return EffectStructure }

func (c *moveNode) MergeWith(next Command) bool {
	o, ok := next.(*moveNode)
	if !ok || o.n != c.n {
		return false
	}
	c.after = o.after
	return true
}
