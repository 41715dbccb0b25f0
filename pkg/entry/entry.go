package entry

import "sync/atomic"

// nextID is the process-wide id counter. The first assigned id is 1.
var nextID atomic.Int64

// Entry is an immutable node of the weighted tree.
type Entry struct {
	id       int
	name     string
	size     float64
	children []*Entry
	parent   *Entry
	depth    int
	height   int
}

// ID returns the unique id assigned at construction.
func (e *Entry) ID() int { return e.id }

// Name returns the display name. Names are not unique among siblings.
func (e *Entry) Name() string { return e.name }

// Size returns the raw size. Only authoritative for leaves.
func (e *Entry) Size() float64 { return e.size }

// Parent returns the parent entry, or nil for the root.
func (e *Entry) Parent() *Entry { return e.parent }

// Children returns the ordered children. Callers must not modify the slice.
func (e *Entry) Children() []*Entry { return e.children }

// IsLeaf reports whether the entry has no children.
func (e *Entry) IsLeaf() bool { return len(e.children) == 0 }

// Depth returns the distance from the root (root is 0).
func (e *Entry) Depth() int { return e.depth }

// Height returns the distance to the deepest leaf below e (leaves are 0).
func (e *Entry) Height() int { return e.height }

// Root walks parent links up to the root.
func (e *Entry) Root() *Entry {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Path returns the entries from the root down to e, inclusive.
func (e *Entry) Path() []*Entry {
	path := make([]*Entry, e.depth+1)
	for n := e; n != nil; n = n.parent {
		path[n.depth] = n
	}
	return path
}

// IsDescendantOf reports whether e is a or lies below a.
func (e *Entry) IsDescendantOf(a *Entry) bool {
	if a == nil || e.depth < a.depth {
		return false
	}
	n := e
	for n.depth > a.depth {
		n = n.parent
	}
	return n == a
}

// Walk visits e and its descendants in pre-order. Returning false from fn
// skips the visited entry's children.
func (e *Entry) Walk(fn func(*Entry) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(fn)
	}
}

// Leaves returns the leaves below e in pre-order. A leaf returns itself.
func (e *Entry) Leaves() []*Entry {
	var out []*Entry
	e.Walk(func(n *Entry) bool {
		if n.IsLeaf() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// LeafSum returns the sum of leaf sizes below e.
func (e *Entry) LeafSum() float64 {
	if e.IsLeaf() {
		return e.size
	}
	var sum float64
	for _, c := range e.children {
		sum += c.LeafSum()
	}
	return sum
}

// Count returns the number of entries in the subtree rooted at e.
func (e *Entry) Count() int {
	n := 0
	e.Walk(func(*Entry) bool { n++; return true })
	return n
}

// Find returns the entry with the given id below e, or nil.
func (e *Entry) Find(id int) *Entry {
	var found *Entry
	e.Walk(func(n *Entry) bool {
		if found != nil {
			return false
		}
		if n.id == id {
			found = n
			return false
		}
		return id > n.id
	})
	return found
}

// Child returns the first child named name, or nil.
func (e *Entry) Child(name string) *Entry {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}
