// Package nodelink renders an entry tree as a node-link outline.
//
// # Overview
//
// A treemap hides the shape of a tree behind areas. The outline shows it
// directly: every entry is a box and every parent points at its children,
// laid out left to right by Graphviz.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true, MaxDepth: 2})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: labels carry the aggregated size and child count
//   - MaxDepth: deeper subtrees collapse into a "+N more" node
//   - Colors: fill boxes with the same colors the treemap uses
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
