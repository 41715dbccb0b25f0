// Package render provides output rendering for size trees.
//
// # Overview
//
// This package contains the rendering side of sizemap. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Treemap frame sinks (in [sink] subpackage)
//   - Label fitting and size formatting (in [styles] subpackage)
//   - Tree outlines as node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). These are used by both
// the treemap sinks and the node-link renderer.
//
//	svg := sink.RenderSVG(view.Frame(), 1280, 720)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Node-Link Outlines
//
// The [nodelink] subpackage renders the entry tree itself as a Graphviz
// diagram, which is handy for checking the shape of an imported tree.
//
//	dot := nodelink.ToDOT(root, nodelink.Options{MaxDepth: 3})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/sizemap/pkg/render/sink
// [styles]: github.com/matzehuels/sizemap/pkg/render/styles
// [nodelink]: github.com/matzehuels/sizemap/pkg/render/nodelink
package render
