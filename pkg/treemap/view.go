package treemap

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/errors"
	"github.com/matzehuels/sizemap/pkg/treemap/address"
	"github.com/matzehuels/sizemap/pkg/treemap/color"
	"github.com/matzehuels/sizemap/pkg/treemap/hittest"
	"github.com/matzehuels/sizemap/pkg/treemap/layout"
	"github.com/matzehuels/sizemap/pkg/treemap/zoom"
)

// Item is one drawable rectangle of a frame.
type Item struct {
	ID         int     `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Depth      int     `json:"depth"`
	Background string  `json:"background"`
	Foreground string  `json:"foreground"`
	Label      string  `json:"label"`
	Size       float64 `json:"size"`
	Leaf       bool    `json:"leaf"`
}

// Stats counts layout work done by a view.
type Stats struct {
	Passes   int `json:"passes"`
	MemoHits int `json:"memo_hits"`
}

// Option configures a [View].
type Option func(*View)

// WithHost mirrors user zoom changes to host.
func WithHost(host address.Host) Option {
	return func(v *View) { v.host = host }
}

// WithLayoutOptions overrides padding and rounding.
func WithLayoutOptions(opts layout.Options) Option {
	return func(v *View) { v.opts = opts }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

type memoKey struct {
	root          int
	width, height float64
	scope         int
}

// View is an interactive treemap over one entry tree.
type View struct {
	root   *entry.Entry
	opts   layout.Options
	host   address.Host
	logger *log.Logger

	zoom   *zoom.Controller
	colors *color.Assigner
	hits   *hittest.Tester
	sync   *address.Sync
	sizes  map[int]float64

	width, height float64

	key    memoKey
	cached layout.Layout
	valid  bool
	stats  Stats
}

// New creates a view over root. The viewport starts empty; call
// [View.Resize] before drawing.
func New(root *entry.Entry, opts ...Option) *View {
	v := &View{
		root:   root,
		opts:   layout.DefaultOptions(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.zoom = zoom.New(root)
	v.colors = color.New(root)
	v.hits = hittest.New()
	v.sync = address.NewSync(v.zoom, v.host)
	v.sizes = leafSums(root)

	v.zoom.OnChange(func(ch zoom.Change) {
		v.logger.Debug("zoom changed", "scope", address.Serialize(ch.Scope), "origin", ch.Origin)
	})
	return v
}

func leafSums(root *entry.Entry) map[int]float64 {
	sums := make(map[int]float64)
	var sum func(e *entry.Entry) float64
	sum = func(e *entry.Entry) float64 {
		s := e.Size()
		if !e.IsLeaf() {
			s = 0
			for _, c := range e.Children() {
				s += sum(c)
			}
		}
		sums[e.ID()] = s
		return s
	}
	if root != nil {
		sum(root)
	}
	return sums
}

// Root returns the tree shown by the view.
func (v *View) Root() *entry.Entry { return v.root }

// Resize sets the viewport. A zero dimension is valid and yields an empty
// frame.
func (v *View) Resize(width, height float64) error {
	if err := errors.ValidateViewport(width, height); err != nil {
		return err
	}
	v.width, v.height = width, height
	return nil
}

// Viewport returns the current viewport.
func (v *View) Viewport() layout.Viewport {
	return layout.Viewport{Width: v.width, Height: v.height}
}

// Layout returns the layout for the current tree, viewport and scope,
// recomputing it only when one of those changed.
func (v *View) Layout() layout.Layout {
	k := memoKey{width: v.width, height: v.height, scope: -1}
	if v.root != nil {
		k.root = v.root.ID()
	}
	if s := v.zoom.Scope(); s != nil {
		k.scope = s.ID()
	}
	if v.valid && k == v.key {
		v.stats.MemoHits++
		return v.cached
	}

	v.cached = layout.Compute(v.root, v.Viewport(), v.zoom.Weight, v.opts)
	v.key, v.valid = k, true
	v.stats.Passes++
	v.hits.Rebuild(v.cached)
	v.logger.Debug("layout computed", "nodes", v.cached.Len(), "width", v.width, "height", v.height, "scope", k.scope)
	return v.cached
}

// Frame returns the drawable items of the current layout in render order.
func (v *View) Frame() []Item {
	l := v.Layout()
	items := make([]Item, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		c := v.colors.Assign(n.Entry)
		items = append(items, Item{
			ID:         n.ID(),
			X:          n.X0,
			Y:          n.Y0,
			Width:      n.Width(),
			Height:     n.Height(),
			Depth:      n.Depth,
			Background: c.Background,
			Foreground: c.Foreground,
			Label:      n.Entry.Name(),
			Size:       v.sizes[n.ID()],
			Leaf:       n.Entry.IsLeaf(),
		})
	}
	return items
}

// Colors returns the color pair of an entry.
func (v *View) Colors(e *entry.Entry) color.Pair { return v.colors.Assign(e) }

// SizeOf returns the aggregated leaf size of an entry.
func (v *View) SizeOf(e *entry.Entry) float64 {
	if e == nil {
		return 0
	}
	return v.sizes[e.ID()]
}

// resolve maps a rectangle id to its entry through the hit map, falling back
// to a tree search when no layout has been drawn yet.
func (v *View) resolve(id int) *entry.Entry {
	v.Layout()
	if n, ok := v.hits.Lookup(id); ok {
		return n.Entry
	}
	if v.root == nil {
		return nil
	}
	return v.root.Find(id)
}

// Activate toggles zoom on the entry with the given id. Unknown ids are
// ignored.
func (v *View) Activate(id int) bool {
	e := v.resolve(id)
	if e == nil {
		v.logger.Debug("activate ignored", "id", id)
		return false
	}
	return v.zoom.Activate(e)
}

// Unzoom clears the scope as a user action.
func (v *View) Unzoom() bool { return v.zoom.Clear(zoom.OriginUser) }

// ZoomOut moves the scope one level up; at the top it clears the scope.
func (v *View) ZoomOut() bool {
	s := v.zoom.Scope()
	if s == nil {
		return false
	}
	if p := s.Parent(); p != nil && p != v.root {
		return v.zoom.Set(p, zoom.OriginUser)
	}
	return v.zoom.Clear(zoom.OriginUser)
}

// Navigate applies an external address. Malformed and unresolvable
// addresses show the whole tree.
func (v *View) Navigate(addr string) {
	if err := errors.ValidateAddress(addr); err != nil {
		v.logger.Debug("address ignored", "error", err)
		addr = ""
	}
	v.sync.Read(addr)
}

// Address returns the address of the current scope.
func (v *View) Address() string { return address.Serialize(v.zoom.Scope()) }

// Scope returns the zoomed entry, or nil.
func (v *View) Scope() *entry.Entry { return v.zoom.Scope() }

// Move reports the pointer over the rectangle with the given id. Only
// rectangles of the last drawn layout resolve; other ids are dropped.
func (v *View) Move(id int) bool {
	return v.hits.Move(id)
}

// Enter reports the pointer entering the drawing surface.
func (v *View) Enter() { v.hits.Enter() }

// Leave reports the pointer leaving the drawing surface.
func (v *View) Leave() { v.hits.Leave() }

// Hover returns the tooltip state.
func (v *View) Hover() hittest.Hover { return v.hits.State() }

// OnHover registers fn for hover updates.
func (v *View) OnHover(fn func(hittest.Hover)) { v.hits.OnHover(fn) }

// Stats returns layout counters.
func (v *View) Stats() Stats { return v.stats }
