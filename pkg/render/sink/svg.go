package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/sizemap/pkg/render/styles"
	"github.com/matzehuels/sizemap/pkg/treemap"
)

const nodeInteractionCSS = `
    .node rect { stroke: #ffffff; stroke-width: 1; transition: stroke-width 0.1s ease; }
    .node:hover > rect { stroke: #000000; stroke-width: 2; }
    .node text { pointer-events: none; font-family: ui-monospace, monospace; }
    .node { cursor: pointer; }`

// The script reports pointer activity as DOM events so an embedding page can
// forward ids to the hit-tester and zoom controller.
const nodeInteractionJS = `
    (function () {
      const root = document.currentScript ? document.currentScript.closest('svg') : document.querySelector('svg');
      const idOf = el => { const g = el.closest && el.closest('[data-id]'); return g ? Number(g.dataset.id) : null; };
      const fire = (name, id) => root.dispatchEvent(new CustomEvent(name, { bubbles: true, detail: { id } }));
      root.addEventListener('mouseenter', () => fire('sizemap:enter', null));
      root.addEventListener('mouseleave', () => fire('sizemap:leave', null));
      root.addEventListener('mousemove', e => { const id = idOf(e.target); if (id !== null) fire('sizemap:move', id); });
      root.addEventListener('click', e => { const id = idOf(e.target); if (id !== null) fire('sizemap:activate', id); });
    })();`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	interactive bool
	title       string
	hovered     int
}

// WithInteraction embeds hover styling and the pointer event script.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithTitle sets the document title.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithHovered outlines the item with the given id.
func WithHovered(id int) SVGOption { return func(r *svgRenderer) { r.hovered = id } }

// RenderSVG draws items into a width by height SVG document. Zero-area items
// are kept as empty groups so every id in the frame stays addressable.
func RenderSVG(items []treemap.Item, width, height float64, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(r.title))
	}
	for _, it := range items {
		r.renderItem(&buf, it)
	}
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", nodeInteractionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderItem(buf *bytes.Buffer, it treemap.Item) {
	fmt.Fprintf(buf, `  <g class="node" data-id="%d">`, it.ID)
	if it.Width > 0 && it.Height > 0 {
		stroke := ""
		if it.ID == r.hovered {
			stroke = ` stroke="#000000" stroke-width="2"`
		}
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="2" fill="%s"%s/>`,
			it.X, it.Y, it.Width, it.Height, it.Background, stroke)
		fmt.Fprintf(buf, `<title>%s (%s)</title>`, styles.EscapeXML(it.Label), styles.Size(it.Size))
		renderLabel(buf, it)
	}
	buf.WriteString("</g>\n")
}

// renderLabel writes leaf labels centered and container labels in the
// header band.
func renderLabel(buf *bytes.Buffer, it treemap.Item) {
	if !styles.CanLabel(it.Width, it.Height) {
		return
	}
	if it.Leaf {
		size := styles.FontSize(it.Width, it.Height, len(it.Label))
		label := styles.FitLabel(it.Label, styles.MaxChars(it.Width, size))
		if label == "" {
			return
		}
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`,
			it.X+it.Width/2, it.Y+it.Height/2, size, it.Foreground, styles.EscapeXML(label))
		return
	}
	label := styles.FitLabel(it.Label, styles.MaxChars(it.Width-8, styles.HeaderFontSize))
	if label == "" {
		return
	}
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" fill="%s">%s</text>`,
		it.X+4, it.Y+styles.HeaderFontSize+2, styles.HeaderFontSize, it.Foreground, styles.EscapeXML(label))
}
