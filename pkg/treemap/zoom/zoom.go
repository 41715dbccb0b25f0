// Package zoom holds the current zoom scope of a treemap and turns it into
// layout weights.
//
// A scope is a single entry (or none). While a scope is set only the scope and
// its descendants carry weight, so the layout engine gives the scoped subtree
// the whole viewport and collapses everything else to zero area.
package zoom

import "github.com/matzehuels/sizemap/pkg/entry"

// Origin tells listeners what caused a scope change.
type Origin int

const (
	// OriginUser is an activation by the user (click, keypress, API call).
	OriginUser Origin = iota
	// OriginAddress is a scope restored from an external address.
	OriginAddress
)

func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginAddress:
		return "address"
	default:
		return "unknown"
	}
}

// Change is delivered to listeners after the scope changed.
type Change struct {
	Scope  *entry.Entry // nil when cleared
	Origin Origin
}

// Listener is called synchronously after every scope change.
type Listener func(Change)

// Controller owns the zoom scope for one tree.
type Controller struct {
	root      *entry.Entry
	scope     *entry.Entry
	listeners []Listener
}

// New returns a controller with no scope.
func New(root *entry.Entry) *Controller {
	return &Controller{root: root}
}

// Root returns the tree the controller zooms.
func (c *Controller) Root() *entry.Entry { return c.root }

// Scope returns the scoped entry, or nil.
func (c *Controller) Scope() *entry.Entry { return c.scope }

// OnChange registers fn for scope changes.
func (c *Controller) OnChange(fn Listener) {
	c.listeners = append(c.listeners, fn)
}

// Weight is the layout weight function for the current scope.
func (c *Controller) Weight(e *entry.Entry) float64 {
	if c.scope != nil && !e.IsDescendantOf(c.scope) {
		return 0
	}
	if !e.IsLeaf() {
		return 0
	}
	return e.Size()
}

// Activate toggles e as the scope: activating the current scope clears it,
// anything else becomes the new scope. It reports whether the scope changed.
func (c *Controller) Activate(e *entry.Entry) bool {
	if e == nil {
		return false
	}
	if e == c.scope {
		return c.apply(nil, OriginUser)
	}
	return c.apply(e, OriginUser)
}

// Set replaces the scope without toggling. Setting the current scope again is
// a no-op and notifies nobody.
func (c *Controller) Set(e *entry.Entry, origin Origin) bool {
	return c.apply(e, origin)
}

// Clear removes the scope.
func (c *Controller) Clear(origin Origin) bool {
	return c.apply(nil, origin)
}

func (c *Controller) apply(e *entry.Entry, origin Origin) bool {
	if e == c.scope {
		return false
	}
	c.scope = e
	ch := Change{Scope: e, Origin: origin}
	for _, fn := range c.listeners {
		fn(ch)
	}
	return true
}
