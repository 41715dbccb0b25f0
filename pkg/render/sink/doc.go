// Package sink writes treemap frames to concrete output formats.
//
// A frame is the ordered list of [treemap.Item] produced by a view. Sinks
// never compute geometry; they draw what the frame says in the order given,
// so containers are painted before the entries inside them.
//
// # Formats
//
//   - [RenderSVG]: standalone SVG. Every rectangle is a group carrying a
//     data-id attribute with the entry id, which is what pointer handlers
//     report back to the hit-tester.
//   - [RenderJSON]: the frame plus address and viewport, for external tools
//     and the HTTP API.
//   - [Rasterize]: a character grid for terminals, with an id per cell for
//     O(1) mouse picking.
//   - [RenderPNG] and [RenderPDF]: SVG converted with rsvg-convert.
//
// [treemap.Item]: github.com/matzehuels/sizemap/pkg/treemap.Item
package sink
