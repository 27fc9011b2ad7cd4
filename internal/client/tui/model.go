package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dmitrijs2005/docvault/internal/client/reader"
)

// chrome is the number of lines taken by the header and the footer.
const chrome = 2

// pageGapCols is PageGapPx in terminal columns.
const pageGapCols = int(reader.PageGapPx / reader.CellWidthPx)

// pageMsg carries a finished page render back to the event loop.
type pageMsg struct {
	gen    uint64
	result reader.PageResult
}

// Model is the bubbletea model of an open reader session.
type Model struct {
	session *reader.Session
	dark    bool
	profile termenv.Profile

	viewport viewport.Model
	styles   styles
	ready    bool
	width    int
	height   int
	closed   bool
}

type Option func(*Model)

// WithProfile forces the color profile used for Markdown rendering.
func WithProfile(p termenv.Profile) Option { return func(m *Model) { m.profile = p } }

// New builds the reader model for s. dark is the application theme.
func New(s *reader.Session, dark bool, opts ...Option) Model {
	m := Model{
		session: s,
		dark:    dark,
		profile: lipgloss.ColorProfile(),
	}
	for _, o := range opts {
		o(&m)
	}
	m.styles = newStyles(s.Presentation().Theme, dark)
	return m
}

// Closed reports whether the user asked to close the reader.
func (m Model) Closed() bool { return m.closed }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		bodyH := max(1, msg.Height-chrome)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, bodyH)
			m.ready = true
		} else {
			m.viewport.Width, m.viewport.Height = msg.Width, bodyH
		}
		m.refresh()
		return m, m.schedule()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pageMsg:
		if msg.gen != m.session.Generation() || !m.session.ApplyPage(msg.result) {
			return m, nil
		}
		m.refresh()
		return m, nil
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, tea.Batch(cmd, m.schedule())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pdf := m.session.IsPDF()

	var change func(reader.Presentation) reader.Presentation
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.closed = true
		return m, tea.Quit
	case "+", "=":
		change = reader.Presentation.IncreaseFont
		if pdf {
			change = reader.Presentation.ZoomIn
		}
	case "-", "_":
		change = reader.Presentation.DecreaseFont
		if pdf {
			change = reader.Presentation.ZoomOut
		}
	case "t":
		change = reader.Presentation.NextTheme
	case "d":
		if !pdf {
			return m, nil
		}
		change = reader.Presentation.ToggleLayout
	}

	if change == nil {
		if !m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, tea.Batch(cmd, m.schedule())
	}

	p := m.session.Update(change)
	m.styles = newStyles(p.Theme, m.dark)
	if !m.ready {
		return m, nil
	}
	m.refresh()
	return m, m.schedule()
}

// refresh rebuilds the viewport content from the session.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	offset := m.viewport.YOffset
	m.viewport.SetContent(m.content())
	m.viewport.SetYOffset(offset)
}

func (m Model) content() string {
	if !m.session.IsPDF() {
		return m.session.RenderMarkdown(m.width, m.dark, reader.MarkdownOptions{Profile: m.profile})
	}
	if msg := m.session.PDFError(); msg != "" {
		return m.styles.notice.Render(msg)
	}
	pager := m.session.Pager()
	if pager == nil {
		return m.styles.notice.Render(reader.MsgPDFLoad)
	}
	return m.pages(pager)
}

// pages draws every row of the pager, placing each row at the line of its
// pixel offset.
func (m Model) pages(p *reader.Pager) string {
	var lines []string
	for row := 0; row < p.Rows(); row++ {
		slots := p.RowSlots(row)
		if len(slots) == 0 {
			continue
		}
		start := pxToLine(slots[0].Y)
		for len(lines) < start {
			lines = append(lines, "")
		}

		cells := make([]string, 0, 2*len(slots))
		for i, s := range slots {
			if i > 0 {
				cells = append(cells, strings.Repeat(" ", pageGapCols))
			}
			cells = append(cells, m.page(p, s))
		}
		lines = append(lines, strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, cells...), "\n")...)
	}
	return strings.Join(lines, "\n")
}

func (m Model) page(p *reader.Pager, s reader.Slot) string {
	if body, ok := p.Body(s.Page); ok {
		return body
	}
	cols, lines := reader.Cells(s.Size)
	text := fmt.Sprintf("Loading page %d…", s.Page)
	if err := p.Failed(s.Page); err != nil {
		text = fmt.Sprintf("Page %d failed to render", s.Page)
	}
	return m.styles.pending.
		Width(max(1, cols-2)).
		Height(max(1, lines-2)).
		Render(text)
}

// schedule asks the session for the pages near the viewport window and
// returns a command per page.
func (m Model) schedule() tea.Cmd {
	if !m.ready || !m.session.IsPDF() {
		return nil
	}
	top := float64(m.viewport.YOffset) * reader.CellHeightPx
	height := float64(m.viewport.Height) * reader.CellHeightPx
	jobs := m.session.Visible(top, height)
	if len(jobs) == 0 {
		return nil
	}

	s, gen := m.session, m.session.Generation()
	cmds := make([]tea.Cmd, 0, len(jobs))
	for _, job := range jobs {
		cmds = append(cmds, func() tea.Msg {
			return pageMsg{gen: gen, result: s.RenderPage(job)}
		})
	}
	return tea.Batch(cmds...)
}

func pxToLine(px float64) int {
	return int(px/reader.CellHeightPx + 0.5)
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	body := m.styles.surface.
		Width(m.width).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

func (m Model) header() string {
	doc := m.session.Document()
	p := m.session.Presentation()

	parts := []string{doc.Title}
	if m.session.IsPDF() {
		parts = append(parts, "Zoom "+p.ZoomLabel(), string(p.Layout))
		if pager := m.session.Pager(); pager != nil {
			parts = append(parts, fmt.Sprintf("%d pages", pager.Pages()))
		}
	} else {
		parts = append(parts, fmt.Sprintf("Font %dpx", p.FontSize))
	}
	parts = append(parts, string(p.Theme))
	return m.styles.header.Width(m.width).Render(strings.Join(parts, " · "))
}

func (m Model) footer() string {
	keys := "+/- font · t theme · q close"
	if m.session.IsPDF() {
		keys = "+/- zoom · t theme · d layout · q close"
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewport.ScrollPercent()*100)
	return m.styles.footer.Width(m.width).Render(keys + "  " + pct)
}
