// Package layout computes squarified treemap rectangles for an entry tree.
//
// # Overview
//
// [Compute] turns a root [entry.Entry], a [Viewport] and a [WeightFunc] into a
// [Layout]: one positioned [Node] for every entry in the tree, ancestors
// included. Each non-leaf rectangle reserves a header band at its top
// ([Options.PaddingTop]) and siblings are separated by [Options.PaddingInner].
//
// # Weights
//
// Only leaves are weighed. A non-leaf's value is the sum of its leaves'
// weights, so a weight function that returns zero for everything outside a
// subtree makes that subtree fill the viewport while the rest of the tree
// keeps zero-area, still addressable, rectangles. The zoom package builds
// such weight functions.
//
// # Tiling
//
// Children are sorted ascending by value (stable, so equal values keep their
// input order) and packed with the squarify heuristic: rows are grown while
// the worst aspect ratio in the row does not get worse, using the golden
// ratio as the target. Coordinates are computed in floating point and rounded
// to whole pixels at the end when [Options.Round] is set.
//
// # Render Order
//
// [Layout.Layers] groups nodes by their height in the tree (distance to the
// deepest leaf) in descending order, so the root and other large containers
// are drawn first and leaves last. [Layout.Nodes] is the concatenation of
// the layers.
//
// # Determinism
//
// For identical inputs the output is bit-identical. [Compute] has no hidden
// state and is safe to call concurrently.
package layout
