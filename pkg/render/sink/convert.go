package sink

import (
	"github.com/matzehuels/sizemap/pkg/render"
	"github.com/matzehuels/sizemap/pkg/treemap"
)

// RenderPNG renders the frame as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(items []treemap.Item, width, height, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(RenderSVG(items, width, height, opts...), scale)
}

// RenderPDF renders the frame as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(items []treemap.Item, width, height float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(items, width, height, opts...))
}
