package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/sizemap/pkg/entry"
)

// Default padding in pixels.
const (
	DefaultPaddingInner = 2.0
	DefaultPaddingTop   = 20.0
)

// WeightFunc returns the layout weight of a leaf. It is never consulted for
// non-leaf entries.
type WeightFunc func(*entry.Entry) float64

// LeafSize weighs every leaf by its raw size.
func LeafSize(e *entry.Entry) float64 { return e.Size() }

// Viewport is the drawing surface size in pixels.
type Viewport struct {
	Width, Height float64
}

// Empty reports whether the viewport has no drawable area.
func (v Viewport) Empty() bool { return !(v.Width > 0) || !(v.Height > 0) }

// Options controls padding and rounding.
type Options struct {
	PaddingInner float64 // gap between sibling rectangles
	PaddingTop   float64 // header band reserved on every non-leaf rectangle
	Round        bool    // round final coordinates to whole pixels
}

// DefaultOptions returns the standard treemap parameters.
func DefaultOptions() Options {
	return Options{
		PaddingInner: DefaultPaddingInner,
		PaddingTop:   DefaultPaddingTop,
		Round:        true,
	}
}

type cell struct {
	e              *entry.Entry
	value          float64
	x0, y0, x1, y1 float64
	kids           []*cell
}

// Compute lays out the tree rooted at root inside vp. A nil root or an empty
// viewport yields an empty layout; a nil weight uses [LeafSize].
func Compute(root *entry.Entry, vp Viewport, weight WeightFunc, opts Options) Layout {
	out := Layout{Width: vp.Width, Height: vp.Height}
	if root == nil || vp.Empty() {
		return out
	}
	if weight == nil {
		weight = LeafSize
	}

	top := buildCells(root, weight)
	top.x0, top.y0, top.x1, top.y1 = 0, 0, vp.Width, vp.Height
	position(top, 0, opts, box{0, 0, vp.Width, vp.Height})

	layers := make([][]Node, root.Height()+1)
	var collect func(c *cell)
	collect = func(c *cell) {
		n := Node{
			Entry: c.e,
			X0:    c.x0, Y0: c.y0, X1: c.x1, Y1: c.y1,
			Depth: c.e.Depth() - root.Depth(),
			Layer: c.e.Height(),
			Value: c.value,
		}
		if opts.Round {
			n.X0, n.Y0, n.X1, n.Y1 = round(n.X0), round(n.Y0), round(n.X1), round(n.Y1)
		}
		layers[n.Layer] = append(layers[n.Layer], n)
		for _, k := range c.kids {
			collect(k)
		}
	}
	collect(top)

	out.Nodes = make([]Node, 0, root.Count())
	for key := len(layers) - 1; key >= 0; key-- {
		if len(layers[key]) == 0 {
			continue
		}
		out.Layers = append(out.Layers, Layer{Key: key, Nodes: layers[key]})
		out.Nodes = append(out.Nodes, layers[key]...)
	}
	return out
}

// buildCells mirrors the entry tree, summing leaf weights bottom-up and
// sorting children ascending by value.
func buildCells(e *entry.Entry, weight WeightFunc) *cell {
	c := &cell{e: e}
	if e.IsLeaf() {
		if w := weight(e); w > 0 && !math.IsInf(w, 0) {
			c.value = w
		}
		return c
	}
	c.kids = make([]*cell, len(e.Children()))
	for i, child := range e.Children() {
		c.kids[i] = buildCells(child, weight)
		c.value += c.kids[i].value
	}
	slices.SortStableFunc(c.kids, func(a, b *cell) int {
		return cmp.Compare(a.value, b.value)
	})
	return c
}

// box is an axis-aligned rectangle.
type box struct{ x0, y0, x1, y1 float64 }

// clamp moves (x, y) into b.
func (b box) clamp(x, y float64) (float64, float64) {
	return min(max(x, b.x0), b.x1), min(max(y, b.y0), b.y1)
}

// position shrinks c by the padding p inherited from its parent, keeps it
// inside the parent rectangle, then tiles its children inside the content
// box. Empty children squeezed out by padding end up as zero-area boxes on
// the parent's edge.
func position(c *cell, p float64, opts Options, parent box) {
	x0, y0, x1, y1 := collapse(c.x0+p, c.y0+p, c.x1-p, c.y1-p)
	x0, y0 = parent.clamp(x0, y0)
	x1, y1 = parent.clamp(x1, y1)
	c.x0, c.y0, c.x1, c.y1 = x0, y0, x1, y1
	if len(c.kids) == 0 {
		return
	}

	q := opts.PaddingInner / 2
	self := box{x0, y0, x1, y1}
	x0, y0, x1, y1 = collapse(x0-q, y0+opts.PaddingTop-q, x1+q, y1+q)
	squarify(c, x0, y0, x1, y1)
	for _, k := range c.kids {
		position(k, q, opts, self)
	}
}

// collapse folds an inverted box onto its midpoint.
func collapse(x0, y0, x1, y1 float64) (float64, float64, float64, float64) {
	if x1 < x0 {
		x0 = (x0 + x1) / 2
		x1 = x0
	}
	if y1 < y0 {
		y0 = (y0 + y1) / 2
		y1 = y0
	}
	return x0, y0, x1, y1
}

// round rounds half up, matching browser pixel snapping.
func round(v float64) float64 { return math.Floor(v + 0.5) }
