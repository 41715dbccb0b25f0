package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/render"
	"github.com/matzehuels/sizemap/pkg/render/styles"
	"github.com/matzehuels/sizemap/pkg/treemap/color"
)

// Options configures outline rendering.
type Options struct {
	// Detailed adds the aggregated size and child count to node labels.
	// When false, only the entry name is shown.
	Detailed bool

	// MaxDepth limits how many levels below the start entry are drawn.
	// Zero means unlimited. Cut-off subtrees are summarized in one node.
	MaxDepth int

	// Colors fills nodes with their treemap colors. Nil draws white boxes.
	Colors *color.Assigner
}

// ToDOT converts the subtree rooted at root to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(root *entry.Entry, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")
	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	var edges []string
	base := root.Depth()
	root.Walk(func(e *entry.Entry) bool {
		attrs := fmtAttrs(e, fmtLabel(e, opts.Detailed), opts.Colors)
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(e), strings.Join(attrs, ", "))
		if p := e.Parent(); p != nil && e != root {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", nodeID(p), nodeID(e)))
		}

		if opts.MaxDepth > 0 && e.Depth()-base >= opts.MaxDepth && !e.IsLeaf() {
			more := fmt.Sprintf("%s_more", nodeID(e))
			fmt.Fprintf(&buf, "  %s [label=%q, style=\"rounded,dashed\"];\n", more, fmt.Sprintf("+%d more", e.Count()-1))
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", nodeID(e), more))
			return false
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(e *entry.Entry) string { return "n" + strconv.Itoa(e.ID()) }

func fmtLabel(e *entry.Entry, detailed bool) string {
	if !detailed {
		return e.Name()
	}
	parts := []string{styles.Size(e.LeafSum())}
	if !e.IsLeaf() {
		parts = append(parts, fmt.Sprintf("%d children", len(e.Children())))
	}
	return e.Name() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(e *entry.Entry, label string, colors *color.Assigner) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if colors != nil {
		c := colors.Assign(e)
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c.Background), fmt.Sprintf("fontcolor=%q", c.Foreground))
	}
	if e.IsLeaf() {
		attrs = append(attrs, "shape=note")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which sizes itself in
// points, with one sized in pixels.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
