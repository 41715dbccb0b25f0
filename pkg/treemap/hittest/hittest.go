// Package hittest resolves pointer events to entries and publishes hover
// state for tooltips.
//
// Pointer events carry the id of the rectangle under the pointer; the tester
// resolves it through a map rebuilt after every layout pass, so each move is
// a single map lookup no matter how large the tree is.
package hittest

import (
	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/treemap/layout"
)

// Hover is the tooltip state.
type Hover struct {
	Visible bool
	Node    *entry.Entry // last hovered entry, may be nil
}

// Tester tracks the hovered entry for one view.
type Tester struct {
	nodes     map[int]layout.Node
	state     Hover
	listeners []func(Hover)
}

// New returns an empty tester. Call [Tester.Rebuild] after each layout.
func New() *Tester {
	return &Tester{nodes: map[int]layout.Node{}}
}

// Rebuild replaces the id lookup with the nodes of l. A hovered entry that is
// no longer part of the layout is forgotten.
func (t *Tester) Rebuild(l layout.Layout) {
	t.nodes = make(map[int]layout.Node, len(l.Nodes))
	for _, n := range l.Nodes {
		t.nodes[n.ID()] = n
	}
	if t.state.Node != nil {
		if _, ok := t.nodes[t.state.Node.ID()]; !ok {
			t.state.Node = nil
		}
	}
}

// OnHover registers fn to receive the hover state after every accepted event.
func (t *Tester) OnHover(fn func(Hover)) {
	t.listeners = append(t.listeners, fn)
}

// Lookup returns the positioned node for id.
func (t *Tester) Lookup(id int) (layout.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Move records the pointer over the rectangle with the given id. Unknown ids
// (stale or foreign) are dropped and leave the state unchanged.
func (t *Tester) Move(id int) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	t.state.Node = n.Entry
	t.publish()
	return true
}

// Enter marks the pointer as inside the drawing surface.
func (t *Tester) Enter() {
	t.state.Visible = true
	t.publish()
}

// Leave marks the pointer as outside the drawing surface.
func (t *Tester) Leave() {
	t.state.Visible = false
	t.publish()
}

// State returns the current hover state.
func (t *Tester) State() Hover { return t.state }

// Len returns the number of addressable rectangles.
func (t *Tester) Len() int { return len(t.nodes) }

func (t *Tester) publish() {
	for _, fn := range t.listeners {
		fn(t.state)
	}
}
