package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/docvault/internal/client/catalog"
	"github.com/dmitrijs2005/docvault/internal/client/reader"
	"github.com/dmitrijs2005/docvault/internal/client/session"
	"github.com/dmitrijs2005/docvault/internal/client/view"
	"github.com/dmitrijs2005/docvault/internal/common"
)

// parseID reads the single numeric argument of a command.
func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: usage: %s", common.ErrorValidation, usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", common.ErrorValidation, args[0])
	}
	return id, nil
}

func (a *App) Dashboard(ctx context.Context) error {
	if err := a.state.ShowWorkspace(view.WorkspaceDashboard); err != nil {
		return err
	}
	st := a.state.Stats()
	a.section("Dashboard")
	fmt.Fprintf(a.out, "Total documents: %d   Categories: %d\n\n", st.Documents, st.Categories)

	a.section("Recently uploaded")
	a.documentTable(a.state.Recent())

	a.section("Categories")
	a.categoryTable(a.state.CategoryCards())
	return nil
}

func (a *App) Library(ctx context.Context) error {
	if err := a.state.ShowWorkspace(view.DocumentLibrary); err != nil {
		return err
	}
	f := a.state.Filter()
	cat := "all categories"
	if f.CategoryID != 0 {
		cat = a.state.Cache().CategoryName(f.CategoryID)
	}
	a.section("Document library")
	line := fmt.Sprintf("Category: %s   Sort: %s", cat, f.Sort)
	if f.Search != "" {
		line += fmt.Sprintf("   Search: %q", f.Search)
	}
	fmt.Fprintln(a.out, a.styles.muted.Render(line))
	a.documentTable(a.state.Library())
	return nil
}

func (a *App) Category(ctx context.Context, args []string) error {
	id, err := parseID(args, "category <id>")
	if err != nil {
		return err
	}
	c, ok := a.state.Cache().Category(id)
	if !ok {
		return fmt.Errorf("category %d: %w", id, common.ErrorNotFound)
	}
	if err := a.state.ShowCategory(id); err != nil {
		return err
	}
	docs := a.state.CategoryDocuments(id)
	a.section(c.Name)
	fmt.Fprintf(a.out, "%d documents\n", len(docs))
	if len(c.Subcategories) > 0 {
		names := make([]string, 0, len(c.Subcategories))
		for _, s := range c.Subcategories {
			names = append(names, s.Name)
		}
		fmt.Fprintln(a.out, a.styles.muted.Render("Subcategories: "+strings.Join(names, ", ")))
	}
	a.documentTable(docs)
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	a.state.SetSearch(strings.Join(args, " "))
	return a.Library(ctx)
}

func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: filter <all|id>", common.ErrorValidation)
	}
	id, err := catalog.ParseCategory(args[0])
	if err != nil {
		return err
	}
	if id != 0 {
		if _, ok := a.state.Cache().Category(id); !ok {
			return fmt.Errorf("category %d: %w", id, common.ErrorNotFound)
		}
	}
	a.state.SetCategoryFilter(id)
	return a.Library(ctx)
}

func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: sort <recent|alphabetical>", common.ErrorValidation)
	}
	s, err := catalog.ParseSort(args[0])
	if err != nil {
		return err
	}
	a.state.SetSort(s)
	return a.Library(ctx)
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.state.Refresh(ctx); err != nil {
		return err
	}
	st := a.state.Stats()
	fmt.Fprintf(a.out, "Loaded %d documents and %d categories.\n", st.Documents, st.Categories)
	return nil
}

// Theme sets the application theme, or toggles it without an argument.
func (a *App) Theme(ctx context.Context, args []string) error {
	var (
		t   session.Theme
		err error
	)
	if len(args) == 0 {
		t, err = a.state.ToggleTheme(ctx)
	} else {
		if t, err = session.ParseTheme(args[0]); err == nil {
			err = a.state.SetTheme(ctx, t)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Theme: %s\n", t)
	return nil
}

// Read opens a document in the full-screen reader and returns to the
// workspace dashboard when it closes.
func (a *App) Read(ctx context.Context, args []string) error {
	id, err := parseID(args, "read <id>")
	if err != nil {
		return err
	}
	s, err := a.state.OpenReader(ctx, id)
	if err != nil {
		if errors.Is(err, reader.ErrStale) {
			return nil
		}
		return err
	}
	defer a.state.CloseReader()

	dark := a.state.Session().Theme() == session.ThemeDark
	return a.runReader(ctx, s, dark)
}
