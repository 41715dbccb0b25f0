// Package pkg provides the core libraries for sizemap.
//
// # Overview
//
// Sizemap draws a weighted tree (a directory listing, a binary's symbol
// sizes, a bundle's modules) as a squarified treemap. Every rectangle's area
// is proportional to the summed weight of the leaves below it. Users zoom by
// clicking a rectangle and share zoom state as an address such as
// "#root#src#pkg".
//
// # Architecture
//
//	JSON tree document
//	         ↓
//	    [io] + [entry] (decode and build an immutable tree)
//	         ↓
//	    [treemap] (layout, zoom, colors, hit testing, addresses)
//	         ↓
//	    [render] (SVG, PNG, PDF, JSON, terminal grid, DOT outline)
//
// [pipeline] runs these steps with caching and is shared by the CLI and
// [server]. [session] keeps viewer state for the server.
//
// # Quick Start
//
//	root, _ := sizeio.ImportJSON("tree.json")
//	v := treemap.New(root)
//	v.Resize(1280, 720)
//	v.Navigate("#root#src")
//	svg := sink.RenderSVG(v.Frame(), 1280, 720)
//
// # Main Packages
//
// [entry] - The immutable weighted tree with stable entry ids.
//
// [treemap] - The View: squarified layout with group headers, zoom
// controller, address sync, color assignment and pointer hit testing.
//
// [render/sink] - Frame sinks for SVG, JSON, PNG, PDF and terminal grids.
//
// [render/nodelink] - Node-link outlines of the tree using Graphviz.
//
// [pipeline] - Load → frame → render with a content-addressed cache.
//
// [cache] - File, Redis and null cache backends plus key derivation.
//
// [server] - HTTP viewer API over chi with per-session views.
//
// [session] - Viewer session stores (memory and file).
//
// [errors] - Error codes and input validation.
//
// [observability] - Hooks for pipeline, cache and server metrics.
//
// [entry]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/entry
// [treemap]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/treemap
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/server
// [session]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/session
// [errors]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/observability
//
// [io]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/sizemap/pkg/render
package pkg
