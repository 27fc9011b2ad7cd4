// Package view is the navigation state machine of the client: which top
// level view is shown, which sub-screen inside it, and which document the
// reader has open.
package view

import (
	"fmt"

	"github.com/dmitrijs2005/docvault/internal/common"
)

type Top int

const (
	Workspace Top = iota
	Reader
	Admin
)

func (t Top) String() string {
	switch t {
	case Workspace:
		return "workspace"
	case Reader:
		return "reader"
	case Admin:
		return "admin"
	}
	return fmt.Sprintf("Top(%d)", int(t))
}

type WorkspaceScreen int

const (
	WorkspaceDashboard WorkspaceScreen = iota
	DocumentLibrary
	CategoryView
)

func (s WorkspaceScreen) String() string {
	switch s {
	case WorkspaceDashboard:
		return "dashboard"
	case DocumentLibrary:
		return "library"
	case CategoryView:
		return "category"
	}
	return fmt.Sprintf("WorkspaceScreen(%d)", int(s))
}

type AdminScreen int

const (
	AdminDashboard AdminScreen = iota
	AdminDocuments
	AdminTaxonomy
	AdminUsers
	AdminSettings
)

var adminNames = map[AdminScreen]string{
	AdminDashboard: "dashboard",
	AdminDocuments: "documents",
	AdminTaxonomy:  "taxonomy",
	AdminUsers:     "users",
	AdminSettings:  "settings",
}

func (s AdminScreen) String() string {
	if n, ok := adminNames[s]; ok {
		return n
	}
	return fmt.Sprintf("AdminScreen(%d)", int(s))
}

// ParseAdminScreen maps the command-line name of an admin sub-screen.
func ParseAdminScreen(name string) (AdminScreen, error) {
	for s, n := range adminNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown admin screen %q", common.ErrorValidation, name)
}

// Placeholder reports whether s has no functionality yet.
func (s AdminScreen) Placeholder() bool {
	return s == AdminUsers || s == AdminSettings
}

// PlaceholderNotice is shown on admin screens without functionality.
const PlaceholderNotice = "This section is not available yet."

// Router is not safe for concurrent use; it is driven by the UI loop.
type Router struct {
	top        Top
	workspace  WorkspaceScreen
	categoryID int64
	admin      AdminScreen
	documentID int64
}

func NewRouter() *Router {
	r := &Router{}
	r.Reset()
	return r
}

// Reset restores the post-login defaults.
func (r *Router) Reset() {
	*r = Router{
		top:       Workspace,
		workspace: WorkspaceDashboard,
		admin:     AdminTaxonomy,
	}
}

func (r *Router) Top() Top                         { return r.top }
func (r *Router) WorkspaceScreen() WorkspaceScreen { return r.workspace }
func (r *Router) AdminScreen() AdminScreen         { return r.admin }

// CategoryID is the category shown by CategoryView, or 0.
func (r *Router) CategoryID() int64 { return r.categoryID }

// DocumentID is the document open in the reader, or 0.
func (r *Router) DocumentID() int64 { return r.documentID }

// ChromeVisible is false while the reader is open.
func (r *Router) ChromeVisible() bool { return r.top != Reader }

// ShowWorkspace switches to a workspace sub-screen. CategoryView needs an
// id; use ShowCategory for it.
func (r *Router) ShowWorkspace(s WorkspaceScreen) error {
	if s == CategoryView {
		return fmt.Errorf("%w: category screen needs an id", common.ErrorValidation)
	}
	r.top = Workspace
	r.workspace = s
	r.categoryID = 0
	r.documentID = 0
	return nil
}

func (r *Router) ShowCategory(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid category id %d", common.ErrorValidation, id)
	}
	r.top = Workspace
	r.workspace = CategoryView
	r.categoryID = id
	r.documentID = 0
	return nil
}

func (r *Router) ShowAdmin(s AdminScreen) {
	r.top = Admin
	r.admin = s
	r.documentID = 0
}

func (r *Router) OpenReader(docID int64) error {
	if docID <= 0 {
		return fmt.Errorf("%w: invalid document id %d", common.ErrorValidation, docID)
	}
	r.top = Reader
	r.documentID = docID
	return nil
}

// CloseReader always lands on the workspace dashboard.
func (r *Router) CloseReader() {
	r.top = Workspace
	r.workspace = WorkspaceDashboard
	r.categoryID = 0
	r.documentID = 0
}
