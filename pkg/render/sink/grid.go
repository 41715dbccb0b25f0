package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sizemap/pkg/treemap"
)

// Terminal cell size in layout pixels. Layouts for terminals are computed at
// Cols*CellWidth by Rows*CellHeight and rasterized back onto the grid.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

type gridCell struct {
	id     int
	r      rune
	bg, fg string
}

// Grid is a rasterized frame: one rune, color pair and entry id per terminal
// cell.
type Grid struct {
	Cols, Rows int
	cells      []gridCell
}

// Rasterize paints items in order onto a cols by rows grid. A cell belongs to
// the last item whose rectangle contains the cell center, which is the
// deepest visible entry because frames are drawn containers first.
func Rasterize(items []treemap.Item, cols, rows int) *Grid {
	g := &Grid{Cols: max(cols, 0), Rows: max(rows, 0)}
	g.cells = make([]gridCell, g.Cols*g.Rows)
	for i := range g.cells {
		g.cells[i].r = ' '
	}

	for _, it := range items {
		c0, c1, r0, r1 := g.span(it)
		if c0 >= c1 || r0 >= r1 {
			continue
		}
		for row := r0; row < r1; row++ {
			for col := c0; col < c1; col++ {
				cell := &g.cells[row*g.Cols+col]
				*cell = gridCell{id: it.ID, r: ' ', bg: it.Background, fg: it.Foreground}
				if col == c0 && c1-c0 > 1 {
					cell.r = '▏'
				}
			}
		}
		g.label(it, c0, c1, r0)
	}
	return g
}

// span converts an item rectangle to half-open cell ranges.
func (g *Grid) span(it treemap.Item) (c0, c1, r0, r1 int) {
	c0 = clamp(int(math.Round(it.X/CellWidth)), 0, g.Cols)
	c1 = clamp(int(math.Round((it.X+it.Width)/CellWidth)), 0, g.Cols)
	r0 = clamp(int(math.Round(it.Y/CellHeight)), 0, g.Rows)
	r1 = clamp(int(math.Round((it.Y+it.Height)/CellHeight)), 0, g.Rows)
	return
}

func (g *Grid) label(it treemap.Item, c0, c1, r0 int) {
	room := c1 - c0 - 1
	if room < 3 {
		return
	}
	text := []rune(it.Label)
	if len(text) > room {
		text = append(text[:room-1], '…')
	}
	for i, r := range text {
		g.cells[r0*g.Cols+c0+1+i].r = r
	}
}

// At returns the entry id under a cell, or 0 for none.
func (g *Grid) At(col, row int) int {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return 0
	}
	return g.cells[row*g.Cols+col].id
}

// String renders the grid as plain text without colors.
func (g *Grid) String() string {
	var b strings.Builder
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			b.WriteRune(g.cells[row*g.Cols+col].r)
		}
		if row < g.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Render draws the grid with colors. Cells of the hovered id are shown in
// reverse video.
func (g *Grid) Render(hovered int) string {
	if g.Cols == 0 {
		return ""
	}
	var b strings.Builder
	for row := 0; row < g.Rows; row++ {
		var run strings.Builder
		start := g.cells[row*g.Cols]
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle()
			if start.bg != "" {
				st = st.Background(lipgloss.Color(start.bg)).Foreground(lipgloss.Color(start.fg))
			}
			if hovered != 0 && start.id == hovered {
				st = st.Reverse(true)
			}
			b.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < g.Cols; col++ {
			c := g.cells[row*g.Cols+col]
			if c.id != start.id || c.bg != start.bg {
				flush()
				start = c
			}
			run.WriteRune(c.r)
		}
		flush()
		if row < g.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
