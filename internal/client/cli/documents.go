package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/docvault/internal/client/form"
	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/common"
)

// Upload walks the user through the create form and submits it.
func (a *App) Upload(ctx context.Context) error {
	cats := a.state.Cache().Categories()
	if len(cats) == 0 {
		return fmt.Errorf("%w: create a category first (addcat)", common.ErrorValidation)
	}
	f := form.NewCreate(cats)
	if err := a.fillForm(f); err != nil {
		return err
	}
	return a.submit(ctx, f, "Document uploaded.")
}

// Edit changes the metadata of document id and optionally replaces its file.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit <id>")
	if err != nil {
		return err
	}
	doc, ok := a.state.Cache().Document(id)
	if !ok {
		return fmt.Errorf("document %d: %w", id, common.ErrorNotFound)
	}
	f := form.NewEdit(doc, a.state.Cache().Categories())
	if err := a.fillForm(f); err != nil {
		return err
	}
	return a.submit(ctx, f, "Document updated.")
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete <id>")
	if err != nil {
		return err
	}
	deleted, err := a.state.DeleteDocument(ctx, id, a.confirm())
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintln(a.out, a.styles.ok.Render("Document deleted."))
	}
	return nil
}

func (a *App) submit(ctx context.Context, f *form.Form, done string) error {
	if err := f.Submit(ctx, a.state); err != nil {
		if errors.Is(err, form.ErrBusy) {
			return err
		}
		fmt.Fprintln(a.out, a.styles.err.Render(f.Err()))
		return nil
	}
	fmt.Fprintln(a.out, a.styles.ok.Render(done))
	return nil
}

// fillForm prompts for every field. Empty answers keep the current value.
func (a *App) fillForm(f *form.Form) error {
	title, err := getDefaultText(a.reader, "Title", f.Title(), a.out)
	if err != nil {
		return err
	}
	f.SetTitle(title)

	summary, err := getDefaultText(a.reader, "Summary (optional)", f.Summary(), a.out)
	if err != nil {
		return err
	}
	f.SetSummary(summary)

	cats := f.Categories()
	for _, c := range cats {
		fmt.Fprintf(a.out, "  %d  %s\n", c.ID, c.Name)
	}
	catID, err := a.pickID("Category", f.CategoryID())
	if err != nil {
		return err
	}
	if catID != f.CategoryID() {
		f.SelectCategory(catID)
	}

	if c, ok := findCategory(cats, f.CategoryID()); ok {
		for _, s := range c.Subcategories {
			fmt.Fprintf(a.out, "  %d  %s\n", s.ID, s.Name)
		}
	}
	subID, err := a.pickID("Subcategory", f.SubcategoryID())
	if err != nil {
		return err
	}
	f.SetSubcategory(subID)

	prompt := "File (.pdf or .md)"
	if f.Mode() == form.Edit {
		prompt = "Replace file (.pdf or .md, empty keeps the current file)"
	}
	for {
		path, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if path == "" {
			return nil
		}
		if err := f.SelectFile(path); err != nil {
			fmt.Fprintln(a.out, a.styles.err.Render(f.Err()))
			continue
		}
		fmt.Fprintln(a.out, a.styles.muted.Render("Selected "+f.FileLabel()))
		return nil
	}
}

func (a *App) pickID(prompt string, current int64) (int64, error) {
	def := ""
	if current != 0 {
		def = strconv.FormatInt(current, 10)
	}
	s, err := getDefaultText(a.reader, prompt, def, a.out)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", common.ErrorValidation, s)
	}
	return id, nil
}

func findCategory(cats []models.Category, id int64) (models.Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}
