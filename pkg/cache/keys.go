package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// TreeKey identifies a parsed tree by the hash of its source bytes.
	TreeKey(sourceHash string) string
	// LayoutKey identifies a computed frame of a tree.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered output of a frame.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a layout.
type LayoutKeyOpts struct {
	Width, Height float64
	Address       string
	PaddingInner  float64
	PaddingTop    float64
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string
	Interactive bool
	Scale       float64
	OutlineMax  int
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey returns "tree:<hash>".
func (DefaultKeyer) TreeKey(sourceHash string) string {
	return fmt.Sprintf("tree:%s", sourceHash)
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
