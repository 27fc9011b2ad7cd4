package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal cell size used to map pixel geometry onto the screen.
const (
	CellWidthPx  = 8.0
	CellHeightPx = 16.0
)

// Cells converts a pixel size into terminal columns and lines (at least 1).
func Cells(s PageSize) (cols, lines int) {
	cols = max(1, int(s.Width/CellWidthPx+0.5))
	lines = max(1, int(s.Height/CellHeightPx+0.5))
	return cols, lines
}

// PageRenderer produces the visual content of one PDF page. Implementations
// must honor ctx cancellation.
type PageRenderer interface {
	RenderPage(ctx context.Context, pdf []byte, job PageJob) (string, error)
}

// FrameRenderer draws a bordered frame of the page's size with its number
// in the middle. It stands in for a raster engine on plain terminals.
type FrameRenderer struct {
	Palette Palette
}

func (f FrameRenderer) RenderPage(ctx context.Context, _ []byte, job PageJob) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cols, lines := Cells(job.Size)
	// the border takes two cells in each direction
	innerW, innerH := max(1, cols-2), max(1, lines-2)

	label := fmt.Sprintf("Page %d", job.Page)
	size := fmt.Sprintf("%.0f×%.0f", job.Size.Width, job.Size.Height)

	body := make([]string, innerH)
	mid := innerH / 2
	body[mid] = label
	if mid+1 < innerH {
		body[mid+1] = size
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Width(innerW).
		Height(innerH).
		Align(lipgloss.Center)
	if f.Palette.Background != "" {
		style = style.
			Background(lipgloss.Color(f.Palette.Background)).
			Foreground(lipgloss.Color(f.Palette.Text))
	}
	return style.Render(strings.Join(body, "\n")), nil
}
