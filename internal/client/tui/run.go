package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/docvault/internal/client/reader"
)

// Run shows s full-screen until the user closes the reader or ctx ends.
// Program options are appended after the defaults, so tests can swap input
// and output.
func Run(ctx context.Context, s *reader.Session, dark bool, opts ...tea.ProgramOption) error {
	all := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(New(s, dark), all...).Run(); err != nil {
		return fmt.Errorf("reader: %w", err)
	}
	return nil
}
