package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/render/sink"
	"github.com/matzehuels/sizemap/pkg/render/styles"
	"github.com/matzehuels/sizemap/pkg/treemap"
	"github.com/matzehuels/sizemap/pkg/treemap/address"
)

// Minimum terminal size for drawing the map.
const (
	tuiMinCols = 40
	tuiMinRows = 12

	// tuiChromeRows is the number of rows below the map (status and tooltip).
	tuiChromeRows = 2
)

var (
	tuiStatusStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("236"))
	tuiHintStyle   = lipgloss.NewStyle().Foreground(colorGray).Background(lipgloss.Color("236"))
)

// tuiCommand creates the tui command, an interactive terminal treemap.
func (c *CLI) tuiCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Explore a tree interactively in the terminal",
		Long: `Explore a tree as a treemap in the terminal.

Move the mouse to inspect entries, click to zoom into an entry and click it
again to zoom back out. Esc zooms out one level, u resets the zoom, q quits.
The address of the final zoom is printed on exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := loadTree(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m := newTUIModel(root, addr)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			if m.written != "" {
				fmt.Fprintln(os.Stdout, m.written)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "address", "a", "", "start zoomed into this address")
	return cmd
}

// tuiModel is the bubbletea model of the terminal treemap. The map fills the
// terminal above two lines of chrome.
type tuiModel struct {
	view *treemap.View
	grid *sink.Grid

	cols, rows int // terminal size
	passes     int // layout passes the grid was drawn from
	written    string
}

func newTUIModel(root *entry.Entry, addr string) *tuiModel {
	m := &tuiModel{}
	m.view = treemap.New(root, treemap.WithHost(address.HostFunc(func(a string) {
		m.written = a
	})))
	m.view.Navigate(addr)
	m.written = m.view.Address()
	return m
}

func (m *tuiModel) Init() tea.Cmd { return nil }

func (m *tuiModel) tooSmall() bool {
	return m.cols < tuiMinCols || m.rows < tuiMinRows
}

// mapRows is the number of terminal rows the treemap occupies.
func (m *tuiModel) mapRows() int { return m.rows - tuiChromeRows }

// redraw rasterizes the frame when the layout changed since the last draw.
func (m *tuiModel) redraw() {
	if m.tooSmall() {
		return
	}
	items := m.view.Frame()
	if passes := m.view.Stats().Passes; m.grid == nil || passes != m.passes {
		m.grid = sink.Rasterize(items, m.cols, m.mapRows())
		m.passes = passes
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		if !m.tooSmall() {
			if err := m.view.Resize(float64(m.cols)*sink.CellWidth, float64(m.mapRows())*sink.CellHeight); err != nil {
				return m, tea.Quit
			}
		}
		m.redraw()

	case tea.MouseMsg:
		if m.grid == nil || m.tooSmall() {
			return m, nil
		}
		if msg.Y >= m.mapRows() {
			m.view.Leave()
			return m, nil
		}
		id := m.grid.At(msg.X, msg.Y)
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			if id != 0 && m.view.Activate(id) {
				m.redraw()
			}
		case msg.Action == tea.MouseActionMotion:
			m.view.Enter()
			if id != 0 {
				m.view.Move(id)
			}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if m.view.ZoomOut() {
				m.redraw()
			}
		case "u":
			if m.view.Unzoom() {
				m.redraw()
			}
		}
	}
	return m, nil
}

func (m *tuiModel) View() string {
	if m.cols == 0 {
		return ""
	}
	if m.tooSmall() {
		return wordwrap.String(
			fmt.Sprintf("Your terminal window is too small. "+
				"Please make it at least %dx%d and try again. Current size: %d x %d",
				tuiMinCols, tuiMinRows, m.cols, m.rows),
			m.cols)
	}

	if m.grid == nil {
		return ""
	}

	hovered := 0
	h := m.view.Hover()
	if h.Visible && h.Node != nil {
		hovered = h.Node.ID()
	}

	var b strings.Builder
	b.WriteString(m.grid.Render(hovered))
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(truncate.StringWithTail(m.tooltip(), uint(m.cols), "…"))
	return b.String()
}

func (m *tuiModel) statusLine() string {
	addr := m.view.Address()
	if addr == "" {
		addr = address.Separator
	}
	hints := "click zoom · esc out · u reset · q quit"
	pad := m.cols - lipgloss.Width(addr) - lipgloss.Width(hints) - 2
	if pad < 1 {
		return tuiStatusStyle.Width(m.cols).Render(truncate.StringWithTail(" "+addr, uint(m.cols), "…"))
	}
	return tuiStatusStyle.Render(" "+addr+strings.Repeat(" ", pad)) + tuiHintStyle.Render(hints+" ")
}

// tooltip describes the hovered entry.
func (m *tuiModel) tooltip() string {
	h := m.view.Hover()
	if !h.Visible || h.Node == nil {
		return ""
	}
	size := m.view.SizeOf(h.Node)
	total := m.view.SizeOf(m.view.Root())
	return fmt.Sprintf("%s  %s  %s",
		StyleHighlight.Render(address.Serialize(h.Node)),
		StyleValue.Render(styles.Size(size)),
		StyleDim.Render(styles.Percent(size, total)))
}
