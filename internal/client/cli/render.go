package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/docvault/internal/client/catalog"
	"github.com/dmitrijs2005/docvault/internal/client/models"
)

type styles struct {
	r      *lipgloss.Renderer
	title  lipgloss.Style
	header lipgloss.Style
	muted  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		r:      r,
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4F46E5")),
		header: r.NewStyle().Bold(true),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("#16A34A")),
		err:    r.NewStyle().Foreground(lipgloss.Color("#DC2626")),
	}
}

func (s styles) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.muted).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header.Padding(0, 1)
			}
			return s.r.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

func (a *App) section(title string) {
	fmt.Fprintln(a.out, a.styles.title.Render(title))
}

// documentTable lists docs with their category and age.
func (a *App) documentTable(docs []models.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(a.out, a.styles.muted.Render("No documents found."))
		return
	}
	cats := a.state.Cache().Categories()
	now := a.state.Now()

	t := a.styles.table("ID", "Title", "Type", "Category", "Summary", "Added")
	for _, d := range docs {
		cat := catalog.CategoryName(cats, d.CategoryID)
		if cat == "" {
			cat = catalog.UnknownCategory
		}
		t.Row(
			strconv.FormatInt(d.ID, 10),
			d.Title,
			string(d.Type),
			cat,
			truncate(catalog.Summary(d), 40),
			catalog.Age(d, now),
		)
	}
	fmt.Fprintln(a.out, t.Render())
}

func (a *App) categoryTable(cards []catalog.CategoryCard) {
	if len(cards) == 0 {
		fmt.Fprintln(a.out, a.styles.muted.Render("No categories yet."))
		return
	}
	t := a.styles.table("ID", "Category", "Documents")
	for _, c := range cards {
		t.Row(strconv.FormatInt(c.ID, 10), c.Name, humanize.Comma(int64(c.Documents)))
	}
	fmt.Fprintln(a.out, t.Render())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
