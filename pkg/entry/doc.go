// Package entry provides the immutable weighted tree that sizemap lays out.
//
// # Overview
//
// An [Entry] is one node of an analyzed artifact: a package, a file or a
// symbol. Each entry has a name (not unique), a size, an ordered list of
// children and a back-link to its parent. Entries are built once from a
// [Source] with [Build] and never mutated afterwards, so they can be shared
// by pointer between the layout engine, the color assigner, the hit-tester
// and any number of viewer sessions.
//
// # Identity
//
// [Build] assigns every entry a fresh integer id from a process-wide counter
// in a single pre-order pass, so a parent's id is always smaller than its
// children's ids. Ids are never reused, even across trees, which lets
// renderers and pointer events refer to nodes by id alone.
//
// # Sizes
//
// The size of an entry with children is informational. Anything that needs a
// weight (the layout engine, reports) aggregates leaf sizes with
// [Entry.LeafSum] instead of trusting intermediate values, which may be stale
// or absent in the analysis output.
//
// # Errors
//
// [Build] refuses malformed sources: a nil root or child, a cycle, a node
// referenced twice, or a negative or non-finite size. These are reported as
// [errors.ErrCodeInvalidTree] and are not recoverable by the caller.
//
// [errors.ErrCodeInvalidTree]: github.com/matzehuels/sizemap/pkg/errors.ErrCodeInvalidTree
package entry
