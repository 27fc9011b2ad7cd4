// Package app holds the single explicit state object of the client. It owns
// the session, the cached snapshot, navigation, the library filter and the
// reader, and it is the only place where they change. Views read from it and
// call its methods; they never mutate the parts directly.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docvault/internal/client/api"
	"github.com/dmitrijs2005/docvault/internal/client/cache"
	"github.com/dmitrijs2005/docvault/internal/client/catalog"
	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/client/reader"
	"github.com/dmitrijs2005/docvault/internal/client/session"
	"github.com/dmitrijs2005/docvault/internal/client/view"
	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/logging"
)

// ErrCategoryInUse is matched by the error returned when deleting a
// category that still has documents.
var ErrCategoryInUse = errors.New("category in use")

// CategoryInUseError reports the blocked delete.
type CategoryInUseError struct {
	Name      string
	Documents int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("Cannot delete category %q because it contains %d documents.", e.Name, e.Documents)
}

func (e *CategoryInUseError) Is(target error) bool { return target == ErrCategoryInUse }

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Deps are the collaborators of an App.
type Deps struct {
	API     api.Client
	Session *session.Session
	Cache   *cache.Cache
	Reader  *reader.Reader
	Logger  logging.Logger

	Sync   SyncPolicy
	Logout LogoutPolicy
	// Now is the clock used for relative dates; nil means time.Now.
	Now func() time.Time
}

type App struct {
	api     api.Client
	session *session.Session
	cache   *cache.Cache
	reader  *reader.Reader
	router  *view.Router
	logger  logging.Logger
	sync    SyncPolicy
	logout  LogoutPolicy
	now     func() time.Time

	filter catalog.Filter
}

func New(d Deps) *App {
	a := &App{
		api:     d.API,
		session: d.Session,
		cache:   d.Cache,
		reader:  d.Reader,
		router:  view.NewRouter(),
		logger:  d.Logger,
		sync:    d.Sync,
		logout:  d.Logout,
		now:     d.Now,
		filter:  catalog.DefaultFilter(),
	}
	if a.logger == nil {
		a.logger = logging.Nop()
	}
	if a.logout == "" {
		a.logout = LogoutOnUnauthorized
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

func (a *App) Session() *session.Session { return a.session }
func (a *App) Router() *view.Router       { return a.router }
func (a *App) Cache() *cache.Cache        { return a.cache }
func (a *App) Now() time.Time             { return a.now() }

// Start restores a persisted session and, when one exists, loads the data.
func (a *App) Start(ctx context.Context) error {
	if err := a.session.Load(ctx); err != nil {
		return err
	}
	if !a.session.Authenticated() {
		return nil
	}
	a.resolveUser(ctx)
	return a.Refresh(ctx)
}

// Login signs in and performs exactly one initial refresh. A refresh that
// signs the user out again fails the login.
func (a *App) Login(ctx context.Context, email, password string) error {
	if err := a.session.Login(ctx, email, password); err != nil {
		return err
	}
	a.router.Reset()
	a.filter = catalog.DefaultFilter()
	a.resolveUser(ctx)

	if err := a.Refresh(ctx); err != nil {
		if !a.session.Authenticated() {
			return fmt.Errorf("initial refresh: %w", err)
		}
		a.logger.Warn(ctx, "initial refresh failed", "error", err)
	}
	return nil
}

func (a *App) Register(ctx context.Context, email, password string) (api.Registration, error) {
	return a.session.Register(ctx, email, password)
}

// Logout is unconditional: the token, the snapshot, navigation and filter
// all reset. The theme is kept.
func (a *App) Logout(ctx context.Context) error {
	a.reader.Close()
	a.cache.Clear()
	a.router.Reset()
	a.filter = catalog.DefaultFilter()
	err := a.session.Logout(ctx)
	a.logger.Info(ctx, "signed out")
	return err
}

func (a *App) resolveUser(ctx context.Context) {
	_ = a.authed(ctx, func(token string) error {
		u, err := a.api.Me(ctx, token)
		if err != nil {
			return err
		}
		a.session.SetEmail(u.Email)
		return nil
	})
}

// authed runs fn with the session token and applies the logout policy to
// its failure.
func (a *App) authed(ctx context.Context, fn func(token string) error) error {
	token := a.session.Token()
	if token == "" {
		return common.ErrorNotAuthenticated
	}
	err := fn(token)
	if err != nil && !errors.Is(err, context.Canceled) && a.logout.shouldLogout(err) {
		a.logger.Warn(ctx, "authenticated call failed, signing out", "error", err, "policy", string(a.logout))
		_ = a.Logout(ctx)
	}
	return err
}

// Refresh replaces the cached snapshot.
func (a *App) Refresh(ctx context.Context) error {
	return a.authed(ctx, func(token string) error {
		return a.cache.Refresh(ctx, token)
	})
}

// afterMutation syncs the snapshot. Its failure never fails the mutation.
func (a *App) afterMutation(ctx context.Context) {
	switch a.sync {
	case FullReload:
		if err := a.Refresh(ctx); err != nil {
			a.logger.Warn(ctx, "refresh after change failed", "error", err)
		}
	}
}

// mutate runs an authenticated change and syncs after success.
func (a *App) mutate(ctx context.Context, fn func(token string) error) error {
	if err := a.authed(ctx, fn); err != nil {
		return err
	}
	a.afterMutation(ctx)
	return nil
}

// ---- filter and listings ----

func (a *App) Filter() catalog.Filter { return a.filter }

func (a *App) SetSearch(s string) { a.filter.Search = s }

func (a *App) SetCategoryFilter(id int64) { a.filter.CategoryID = id }

func (a *App) SetSort(s catalog.Sort) { a.filter.Sort = s }

// Library is the filtered and sorted document list.
func (a *App) Library() []models.Document {
	return catalog.Apply(a.cache.Documents(), a.filter)
}

// Recent is the dashboard "recently uploaded" list.
func (a *App) Recent() []models.Document {
	return catalog.Recent(a.cache.Documents(), catalog.RecentCount)
}

func (a *App) CategoryCards() []catalog.CategoryCard {
	return catalog.CategoryCards(a.cache.Categories(), a.cache.Documents())
}

func (a *App) CategoryDocuments(id int64) []models.Document {
	return catalog.InCategory(a.cache.Documents(), id)
}

// Stats are the totals shown by the dashboards.
type Stats struct {
	Documents     int
	Categories    int
	Subcategories int
}

func (a *App) Stats() Stats {
	return Stats{
		Documents:     len(a.cache.Documents()),
		Categories:    len(a.cache.Categories()),
		Subcategories: a.cache.SubcategoryCount(),
	}
}

// ---- navigation ----

func (a *App) ShowWorkspace(s view.WorkspaceScreen) error { return a.router.ShowWorkspace(s) }
func (a *App) ShowCategory(id int64) error                { return a.router.ShowCategory(id) }
func (a *App) ShowAdmin(s view.AdminScreen)               { a.router.ShowAdmin(s) }

// OpenReader switches to the reader and loads document id. On failure the
// reader closes back to the workspace dashboard.
func (a *App) OpenReader(ctx context.Context, id int64) (*reader.Session, error) {
	if err := a.router.OpenReader(id); err != nil {
		return nil, err
	}
	var s *reader.Session
	err := a.authed(ctx, func(token string) error {
		var err error
		s, err = a.reader.Open(ctx, token, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, reader.ErrStale) {
			a.router.CloseReader()
		}
		return nil, err
	}
	return s, nil
}

func (a *App) CloseReader() {
	a.reader.Close()
	a.router.CloseReader()
}

// ---- theme ----

func (a *App) SetTheme(ctx context.Context, t session.Theme) error {
	return a.session.SetTheme(ctx, t)
}

func (a *App) ToggleTheme(ctx context.Context) (session.Theme, error) {
	return a.session.ToggleTheme(ctx)
}

// ---- documents ----

func (a *App) CreateDocument(ctx context.Context, in models.DocumentInput) error {
	return a.mutate(ctx, func(token string) error {
		d, err := a.api.CreateDocument(ctx, token, in)
		if err == nil {
			a.logger.Info(ctx, "document created", "id", d.ID)
		}
		return err
	})
}

func (a *App) UpdateDocument(ctx context.Context, id int64, in models.DocumentInput) error {
	return a.mutate(ctx, func(token string) error {
		_, err := a.api.UpdateDocument(ctx, token, id, in)
		return err
	})
}

// DeleteDocument asks c for confirmation; it reports whether the document
// was deleted.
func (a *App) DeleteDocument(ctx context.Context, id int64, c Confirmer) (bool, error) {
	title := fmt.Sprintf("#%d", id)
	if d, ok := a.cache.Document(id); ok {
		title = d.Title
	}
	if !c.Confirm(fmt.Sprintf("Are you sure you want to delete the document %q?", title)) {
		return false, nil
	}
	err := a.mutate(ctx, func(token string) error {
		return a.api.DeleteDocument(ctx, token, id)
	})
	return err == nil, err
}

// ---- taxonomy ----

func (a *App) CreateCategory(ctx context.Context, name string) error {
	if err := requireName(name); err != nil {
		return err
	}
	return a.mutate(ctx, func(token string) error {
		_, err := a.api.CreateCategory(ctx, token, models.CategoryInput{Name: name})
		return err
	})
}

func (a *App) RenameCategory(ctx context.Context, id int64, name string) error {
	if err := requireName(name); err != nil {
		return err
	}
	return a.mutate(ctx, func(token string) error {
		_, err := a.api.UpdateCategory(ctx, token, id, models.CategoryInput{Name: name})
		return err
	})
}

// DeleteCategory refuses, without calling the API, to delete a category that
// cached documents still reference.
func (a *App) DeleteCategory(ctx context.Context, id int64, c Confirmer) (bool, error) {
	name := a.cache.CategoryName(id)
	if name == "" {
		name = fmt.Sprintf("#%d", id)
	}
	if n := a.cache.DocumentCount(id); n > 0 {
		return false, &CategoryInUseError{Name: name, Documents: n}
	}
	if !c.Confirm(fmt.Sprintf("Are you sure you want to delete the category %q?", name)) {
		return false, nil
	}
	err := a.mutate(ctx, func(token string) error {
		return a.api.DeleteCategory(ctx, token, id)
	})
	return err == nil, err
}

func (a *App) CreateSubcategory(ctx context.Context, categoryID int64, name string) error {
	if err := requireName(name); err != nil {
		return err
	}
	return a.mutate(ctx, func(token string) error {
		_, err := a.api.CreateSubcategory(ctx, token, models.SubcategoryInput{Name: name, CategoryID: categoryID})
		return err
	})
}

// RenameSubcategory keeps the subcategory under its current category.
func (a *App) RenameSubcategory(ctx context.Context, id int64, name string) error {
	if err := requireName(name); err != nil {
		return err
	}
	sub, ok := a.subcategory(id)
	if !ok {
		return fmt.Errorf("subcategory %d: %w", id, common.ErrorNotFound)
	}
	return a.mutate(ctx, func(token string) error {
		_, err := a.api.UpdateSubcategory(ctx, token, id, models.SubcategoryInput{Name: name, CategoryID: sub.CategoryID})
		return err
	})
}

func (a *App) DeleteSubcategory(ctx context.Context, id int64, c Confirmer) (bool, error) {
	name := fmt.Sprintf("#%d", id)
	if sub, ok := a.subcategory(id); ok {
		name = sub.Name
	}
	if !c.Confirm(fmt.Sprintf("Are you sure you want to delete the subcategory %q?", name)) {
		return false, nil
	}
	err := a.mutate(ctx, func(token string) error {
		return a.api.DeleteSubcategory(ctx, token, id)
	})
	return err == nil, err
}

// subcategory finds id in the cached taxonomy; CategoryID is always set.
func (a *App) subcategory(id int64) (models.Subcategory, bool) {
	for _, c := range a.cache.Categories() {
		if s, ok := c.Subcategory(id); ok {
			s.CategoryID = c.ID
			return s, true
		}
	}
	return models.Subcategory{}, false
}

func requireName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	return nil
}
