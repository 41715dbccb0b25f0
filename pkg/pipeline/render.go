package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/errors"
	"github.com/matzehuels/sizemap/pkg/observability"
	"github.com/matzehuels/sizemap/pkg/render/nodelink"
	"github.com/matzehuels/sizemap/pkg/render/sink"
	"github.com/matzehuels/sizemap/pkg/treemap"
	"github.com/matzehuels/sizemap/pkg/treemap/address"
	"github.com/matzehuels/sizemap/pkg/treemap/color"
)

// Render generates output artifacts for a frame in the requested formats.
// The DOT outline starts at the entry the frame's address points to.
func Render(ctx context.Context, root *entry.Entry, f Frame, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(root, f, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormats(root *entry.Entry, f Frame, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(root, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(f.Items, f.Width, f.Height, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(f.Items, f.Width, f.Height, opts.Scale, svgOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(f.Items, f.Width, f.Height, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(f.Items, f.Width, f.Height, sink.WithJSONAddress(f.Address))
		case FormatTXT:
			data = []byte(renderText(f) + "\n")
		case FormatDOT:
			data = []byte(renderDOT(root, f, opts))
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(root *entry.Entry, opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if root != nil {
		svgOpts = append(svgOpts, sink.WithTitle(root.Name()))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}

// renderText rasterizes the frame onto a character grid of the same
// proportions.
func renderText(f Frame) string {
	cols := int(f.Width / sink.CellWidth)
	rows := int(f.Height / sink.CellHeight)
	return sink.Rasterize(scaleItems(f, cols, rows), cols, rows).String()
}

// scaleItems maps frame coordinates onto the cell size the rasterizer
// expects.
func scaleItems(f Frame, cols, rows int) []treemap.Item {
	if cols == 0 || rows == 0 || f.Width == 0 || f.Height == 0 {
		return nil
	}
	sx := float64(cols) * sink.CellWidth / f.Width
	sy := float64(rows) * sink.CellHeight / f.Height
	out := make([]treemap.Item, len(f.Items))
	for i, it := range f.Items {
		it.X *= sx
		it.Width *= sx
		it.Y *= sy
		it.Height *= sy
		out[i] = it
	}
	return out
}

func renderDOT(root *entry.Entry, f Frame, opts Options) string {
	start := address.Parse(root, f.Address)
	if start == nil {
		start = root
	}
	var colors *color.Assigner
	if root != nil {
		colors = color.New(root)
	}
	return nodelink.ToDOT(start, nodelink.Options{
		Detailed: true,
		MaxDepth: opts.OutlineMax,
		Colors:   colors,
	})
}
