package layout

import "github.com/matzehuels/sizemap/pkg/entry"

// Node is the rectangle computed for one entry in one layout pass.
// Coordinates are in viewport pixels with the origin at the top left.
type Node struct {
	Entry          *entry.Entry
	X0, Y0, X1, Y1 float64
	Depth          int     // distance from the root
	Layer          int     // height of the entry in the tree; render layer key
	Value          float64 // aggregated leaf weight used for this pass
}

// ID returns the entry id.
func (n Node) ID() int { return n.Entry.ID() }

// Width returns the horizontal span of the node.
func (n Node) Width() float64 { return n.X1 - n.X0 }

// Height returns the vertical span of the node.
func (n Node) Height() float64 { return n.Y1 - n.Y0 }

// CenterX returns the horizontal center point of the node.
func (n Node) CenterX() float64 { return (n.X0 + n.X1) / 2 }

// CenterY returns the vertical center point of the node.
func (n Node) CenterY() float64 { return (n.Y0 + n.Y1) / 2 }

// Area returns the rectangle area.
func (n Node) Area() float64 { return n.Width() * n.Height() }

// Contains reports whether (x, y) lies inside the rectangle.
func (n Node) Contains(x, y float64) bool {
	return x >= n.X0 && x < n.X1 && y >= n.Y0 && y < n.Y1
}

// Layer is a group of nodes drawn together.
type Layer struct {
	Key   int
	Nodes []Node
}

// Layout is the result of one layout pass.
type Layout struct {
	Width, Height float64
	Nodes         []Node // render order
	Layers        []Layer
}

// Len returns the number of positioned nodes.
func (l Layout) Len() int { return len(l.Nodes) }

// Index returns a fresh id -> node mapping for O(1) lookups.
func (l Layout) Index() map[int]*Node {
	idx := make(map[int]*Node, len(l.Nodes))
	for i := range l.Nodes {
		idx[l.Nodes[i].ID()] = &l.Nodes[i]
	}
	return idx
}

// At returns the deepest node containing (x, y), or false. This is a linear
// scan intended for one-off queries; pointer tracking should go through ids.
func (l Layout) At(x, y float64) (Node, bool) {
	var best Node
	found := false
	for _, n := range l.Nodes {
		if n.Area() > 0 && n.Contains(x, y) && (!found || n.Depth > best.Depth) {
			best, found = n, true
		}
	}
	return best, found
}
