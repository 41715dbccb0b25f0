package entry

import (
	"github.com/matzehuels/sizemap/pkg/errors"
)

// Source is the external representation of a weighted tree, as produced by
// an analyzer or decoded from JSON.
type Source struct {
	Name     string    `json:"name"`
	Size     float64   `json:"size"`
	Children []*Source `json:"children,omitempty"`
}

// Build converts src into an immutable Entry tree. Ids are assigned in a
// single top-down pass.
func Build(src *Source) (*Entry, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "tree has no root")
	}
	b := builder{
		onPath: make(map[*Source]bool),
		seen:   make(map[*Source]bool),
	}
	return b.build(src, nil, 0)
}

// MustBuild is like Build but panics on error. Intended for tests and
// static fixtures.
func MustBuild(src *Source) *Entry {
	e, err := Build(src)
	if err != nil {
		panic(err)
	}
	return e
}

type builder struct {
	onPath map[*Source]bool
	seen   map[*Source]bool
}

func (b *builder) build(src *Source, parent *Entry, depth int) (*Entry, error) {
	if b.onPath[src] {
		return nil, errors.New(errors.ErrCodeInvalidTree, "cycle detected at node %q", src.Name)
	}
	if b.seen[src] {
		return nil, errors.New(errors.ErrCodeInvalidTree, "node %q is referenced more than once", src.Name)
	}
	if err := errors.ValidateSize(src.Name, src.Size); err != nil {
		return nil, err
	}
	b.onPath[src] = true
	b.seen[src] = true
	defer delete(b.onPath, src)

	e := &Entry{
		id:     int(nextID.Add(1)),
		name:   src.Name,
		size:   src.Size,
		parent: parent,
		depth:  depth,
	}
	if len(src.Children) > 0 {
		e.children = make([]*Entry, 0, len(src.Children))
	}
	for i, cs := range src.Children {
		if cs == nil {
			return nil, errors.New(errors.ErrCodeInvalidTree, "node %q has a nil child at index %d", src.Name, i)
		}
		c, err := b.build(cs, e, depth+1)
		if err != nil {
			return nil, err
		}
		e.children = append(e.children, c)
		e.height = max(e.height, c.height+1)
	}
	return e, nil
}

// ToSource converts e back into its external representation.
func (e *Entry) ToSource() *Source {
	s := &Source{Name: e.name, Size: e.size}
	for _, c := range e.children {
		s.Children = append(s.Children, c.ToSource())
	}
	return s
}

// Leaf returns a Source leaf. Convenience for fixtures and analyzers.
func Leaf(name string, size float64) *Source {
	return &Source{Name: name, Size: size}
}

// Node returns a Source with the given children. Its own size is left zero;
// layout weights always come from leaves.
func Node(name string, children ...*Source) *Source {
	return &Source{Name: name, Children: children}
}
