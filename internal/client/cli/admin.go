package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docvault/internal/client/view"
	"github.com/dmitrijs2005/docvault/internal/common"
)

// Admin switches to an admin sub-screen and prints it. Without an argument
// the last admin screen is shown again.
func (a *App) Admin(ctx context.Context, args []string) error {
	screen := a.state.Router().AdminScreen()
	if len(args) > 0 {
		s, err := view.ParseAdminScreen(args[0])
		if err != nil {
			return err
		}
		screen = s
	}
	a.state.ShowAdmin(screen)

	a.section("Admin · " + screen.String())
	if screen.Placeholder() {
		fmt.Fprintln(a.out, a.styles.muted.Render(view.PlaceholderNotice))
		return nil
	}

	switch screen {
	case view.AdminDashboard:
		st := a.state.Stats()
		fmt.Fprintf(a.out, "Documents: %d   Categories: %d   Subcategories: %d\n", st.Documents, st.Categories, st.Subcategories)
	case view.AdminDocuments:
		a.documentTable(a.state.Cache().Documents())
	case view.AdminTaxonomy:
		a.taxonomy()
	}
	return nil
}

// taxonomy prints every category with its subcategories.
func (a *App) taxonomy() {
	cats := a.state.Cache().Categories()
	if len(cats) == 0 {
		fmt.Fprintln(a.out, a.styles.muted.Render("No categories yet."))
		return
	}
	for _, c := range cats {
		n := a.state.Cache().DocumentCount(c.ID)
		fmt.Fprintf(a.out, "%s %s %s\n",
			a.styles.muted.Render(fmt.Sprintf("[%d]", c.ID)),
			a.styles.header.Render(c.Name),
			a.styles.muted.Render(fmt.Sprintf("(%d documents)", n)))
		for _, s := range c.Subcategories {
			fmt.Fprintf(a.out, "    %s %s\n", a.styles.muted.Render(fmt.Sprintf("[%d]", s.ID)), s.Name)
		}
	}
}

func (a *App) askName(prompt, current string) (string, error) {
	name, err := getDefaultText(a.reader, prompt, current, a.out)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	return name, nil
}

func (a *App) AddCategory(ctx context.Context) error {
	name, err := a.askName("Category name", "")
	if err != nil {
		return err
	}
	if err := a.state.CreateCategory(ctx, name); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.styles.ok.Render("Category created."))
	return nil
}

func (a *App) RenameCategory(ctx context.Context, args []string) error {
	id, err := parseID(args, "renamecat <id>")
	if err != nil {
		return err
	}
	name, err := a.askName("New name", a.state.Cache().CategoryName(id))
	if err != nil {
		return err
	}
	if err := a.state.RenameCategory(ctx, id, name); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.styles.ok.Render("Category renamed."))
	return nil
}

func (a *App) DeleteCategory(ctx context.Context, args []string) error {
	id, err := parseID(args, "delcat <id>")
	if err != nil {
		return err
	}
	deleted, err := a.state.DeleteCategory(ctx, id, a.confirm())
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintln(a.out, a.styles.ok.Render("Category deleted."))
	}
	return nil
}

func (a *App) AddSubcategory(ctx context.Context, args []string) error {
	catID, err := parseID(args, "addsub <categoryId>")
	if err != nil {
		return err
	}
	if _, ok := a.state.Cache().Category(catID); !ok {
		return fmt.Errorf("category %d: %w", catID, common.ErrorNotFound)
	}
	name, err := a.askName("Subcategory name", "")
	if err != nil {
		return err
	}
	if err := a.state.CreateSubcategory(ctx, catID, name); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.styles.ok.Render("Subcategory created."))
	return nil
}

func (a *App) RenameSubcategory(ctx context.Context, args []string) error {
	id, err := parseID(args, "renamesub <id>")
	if err != nil {
		return err
	}
	name, err := a.askName("New name", a.subcategoryName(id))
	if err != nil {
		return err
	}
	if err := a.state.RenameSubcategory(ctx, id, name); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.styles.ok.Render("Subcategory renamed."))
	return nil
}

func (a *App) DeleteSubcategory(ctx context.Context, args []string) error {
	id, err := parseID(args, "delsub <id>")
	if err != nil {
		return err
	}
	deleted, err := a.state.DeleteSubcategory(ctx, id, a.confirm())
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintln(a.out, a.styles.ok.Render("Subcategory deleted."))
	}
	return nil
}

func (a *App) subcategoryName(id int64) string {
	for _, c := range a.state.Cache().Categories() {
		if s, ok := c.Subcategory(id); ok {
			return s.Name
		}
	}
	return ""
}

var _ execIface = (*App)(nil)
