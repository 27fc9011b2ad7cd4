package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/docvault/internal/client/api"
	"github.com/dmitrijs2005/docvault/internal/client/app"
	"github.com/dmitrijs2005/docvault/internal/client/cache"
	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/client/reader"
	"github.com/dmitrijs2005/docvault/internal/client/session"
	"github.com/dmitrijs2005/docvault/internal/client/storage"
	"github.com/dmitrijs2005/docvault/internal/client/view"
)

// ---- fakes ----

// fakeServer is an in-memory DocVault API.
type fakeServer struct {
	mu       sync.Mutex
	docs     []models.Document
	cats     []models.Category
	nextID   int64
	requests []string
}

func newFakeServer() *fakeServer {
	created := models.Timestamp{Time: time.Now().Add(-2 * time.Hour)}
	return &fakeServer{
		nextID: 100,
		docs: []models.Document{
			{ID: 1, Title: "Onboarding Guide", Type: models.DocTypeMarkdown, Content: "# Welcome", CategoryID: 10, SubcategoryID: 11, CreatedAt: created},
		},
		cats: []models.Category{
			{ID: 10, Name: "Engineering", Subcategories: []models.Subcategory{{ID: 11, Name: "Backend"}}},
			{ID: 20, Name: "Archive", Subcategories: []models.Subcategory{{ID: 21, Name: "Old"}}},
		},
	}
}

func (s *fakeServer) count(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r == method+" "+path {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)

	switch r.URL.Path {
	case "/token":
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok", "token_type": "bearer"})
		return
	case "/register":
		writeJSON(w, http.StatusOK, map[string]any{"message": "User created successfully", "user_id": 1})
		return
	}
	if r.Header.Get("Authorization") != "Bearer tok" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	var id int64
	if len(parts) == 2 {
		id, _ = strconv.ParseInt(parts[1], 10, 64)
	}
	body, _ := io.ReadAll(r.Body)

	switch {
	case r.URL.Path == "/users/me":
		writeJSON(w, http.StatusOK, models.User{ID: 1, Email: "ann@docvault.io"})

	case parts[0] == "documents" && r.Method == http.MethodGet && id == 0:
		writeJSON(w, http.StatusOK, s.docs)
	case parts[0] == "documents" && r.Method == http.MethodGet:
		for _, d := range s.docs {
			if d.ID == id {
				writeJSON(w, http.StatusOK, d)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Document not found"})
	case parts[0] == "documents" && r.Method == http.MethodPost:
		var in models.DocumentInput
		_ = json.Unmarshal(body, &in)
		s.nextID++
		d := models.Document{ID: s.nextID, Title: in.Title, CategoryID: in.CategoryID, SubcategoryID: in.SubcategoryID, Summary: in.Summary}
		if in.Type != nil {
			d.Type = *in.Type
		}
		if in.Content != nil {
			d.Content = *in.Content
		}
		s.docs = append(s.docs, d)
		writeJSON(w, http.StatusOK, d)
	case parts[0] == "documents" && r.Method == http.MethodDelete:
		for i, d := range s.docs {
			if d.ID == id {
				s.docs = append(s.docs[:i], s.docs[i+1:]...)
				break
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})

	case parts[0] == "categories" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.cats)
	case parts[0] == "categories" && r.Method == http.MethodPost:
		var in models.CategoryInput
		_ = json.Unmarshal(body, &in)
		s.nextID++
		c := models.Category{ID: s.nextID, Name: in.Name}
		s.cats = append(s.cats, c)
		writeJSON(w, http.StatusOK, c)
	case parts[0] == "categories" && r.Method == http.MethodDelete:
		for i, c := range s.cats {
			if c.ID == id {
				s.cats = append(s.cats[:i], s.cats[i+1:]...)
				break
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

// ---- helpers ----

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

// newTestApp wires a real state over srv and feeds the REPL lines.
func newTestApp(t *testing.T, srv *fakeServer, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	client, err := api.NewHTTPClient(ts.URL)
	require.NoError(t, err)
	st, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	state := app.New(app.Deps{
		API:     client,
		Session: session.New(client, st.Prefs),
		Cache:   cache.New(client, nil),
		Reader:  reader.New(client),
		Sync:    app.FullReload,
	})

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	return New(state, in, &out), &out
}

func login(t *testing.T, a *App) {
	t.Helper()
	stubPassword(t, "pw")
	require.NoError(t, a.state.Login(context.Background(), "ann@docvault.io", "pw"))
}

// ---- tests ----

func TestRun_LoginShowsDashboard(t *testing.T) {
	stubPassword(t, "pw")
	srv := newFakeServer()
	a, out := newTestApp(t, srv, "login", "ann@docvault.io", "exit")

	require.NoError(t, a.Run(context.Background()))
	text := ansi.Strip(out.String())
	assert.Contains(t, text, "Signed in as ann@docvault.io.")
	assert.Contains(t, text, "Total documents: 1")
	assert.Contains(t, text, "Onboarding Guide")
	assert.Contains(t, text, "2 hours ago")
	assert.Equal(t, 1, srv.count(http.MethodGet, "/documents/"))
}

func TestRegister_DoesNotSignIn(t *testing.T) {
	stubPassword(t, "pw")
	a, out := newTestApp(t, newFakeServer(), "new@docvault.io")

	require.NoError(t, a.Register(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, ansi.Strip(out.String()), "User created successfully")
}

func TestDeleteCategory_InUse(t *testing.T) {
	srv := newFakeServer()
	a, out := newTestApp(t, srv)
	login(t, a)

	a.report(a.DeleteCategory(context.Background(), []string{"10"}))
	assert.Contains(t, ansi.Strip(out.String()), `Cannot delete category "Engineering" because it contains 1 documents.`)
	assert.Zero(t, srv.count(http.MethodDelete, "/categories/10"))
}

func TestDeleteCategory_ConfirmedRefetches(t *testing.T) {
	srv := newFakeServer()
	a, out := newTestApp(t, srv, "y")
	login(t, a)

	require.NoError(t, a.DeleteCategory(context.Background(), []string{"20"}))
	text := ansi.Strip(out.String())
	assert.Contains(t, text, `Are you sure you want to delete the category "Archive"? [y/N]`)
	assert.Contains(t, text, "Category deleted.")
	assert.Equal(t, 1, srv.count(http.MethodDelete, "/categories/20"))
	assert.Equal(t, 2, srv.count(http.MethodGet, "/categories/"))
	assert.Len(t, a.state.Cache().Categories(), 1)
}

func TestDeleteDocument_Declined(t *testing.T) {
	srv := newFakeServer()
	a, _ := newTestApp(t, srv, "n")
	login(t, a)

	require.NoError(t, a.Delete(context.Background(), []string{"1"}))
	assert.Zero(t, srv.count(http.MethodDelete, "/documents/1"))
}

func TestUpload_Markdown(t *testing.T) {
	srv := newFakeServer()
	dir := t.TempDir()
	bad := filepath.Join(dir, "image.png")
	notes := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(notes, []byte("# Notes\n"), 0o600))

	a, out := newTestApp(t, srv,
		"",             // title: filled from the file name
		"Team notes",   // summary
		"",             // category: keep the first
		"",             // subcategory: keep the first
		bad,            // rejected
		notes,
	)
	login(t, a)

	require.NoError(t, a.Upload(context.Background()))
	text := ansi.Strip(out.String())
	assert.Contains(t, text, "Invalid file type. Please upload a PDF or Markdown file.")
	assert.Contains(t, text, "Document uploaded.")

	docs := a.state.Cache().Documents()
	require.Len(t, docs, 2)
	var got models.Document
	for _, d := range docs {
		if d.Title == "notes" {
			got = d
		}
	}
	assert.Equal(t, models.DocTypeMarkdown, got.Type)
	assert.Equal(t, "# Notes\n", got.Content)
	assert.Equal(t, int64(10), got.CategoryID)
	assert.Equal(t, int64(11), got.SubcategoryID)
}

func TestRead_RunsReaderAndReturnsToDashboard(t *testing.T) {
	srv := newFakeServer()
	a, _ := newTestApp(t, srv)
	login(t, a)

	var seen *reader.Session
	a.runReader = func(ctx context.Context, s *reader.Session, dark bool) error {
		seen = s
		assert.Equal(t, view.Reader, a.state.Router().Top())
		return nil
	}

	require.NoError(t, a.Read(context.Background(), []string{"1"}))
	require.NotNil(t, seen)
	assert.Equal(t, "# Welcome", seen.Document().Content)
	assert.Equal(t, view.Workspace, a.state.Router().Top())
	assert.Equal(t, view.WorkspaceDashboard, a.state.Router().WorkspaceScreen())
}

func TestRead_MissingDocument(t *testing.T) {
	a, _ := newTestApp(t, newFakeServer())
	login(t, a)
	a.runReader = func(context.Context, *reader.Session, bool) error {
		t.Fatal("reader must not run")
		return nil
	}

	err := a.Read(context.Background(), []string{"999"})
	require.Error(t, err)
	assert.Equal(t, "Document not found", api.Message(err))
}

func TestAdmin_Screens(t *testing.T) {
	a, out := newTestApp(t, newFakeServer())
	login(t, a)
	ctx := context.Background()

	require.NoError(t, a.Admin(ctx, nil))
	text := ansi.Strip(out.String())
	assert.Contains(t, text, "Admin · taxonomy")
	assert.Contains(t, text, "Engineering")
	assert.Contains(t, text, "(1 documents)")

	require.NoError(t, a.Admin(ctx, []string{"users"}))
	assert.Contains(t, ansi.Strip(out.String()), view.PlaceholderNotice)
	assert.Equal(t, view.AdminUsers, a.state.Router().AdminScreen())

	require.Error(t, a.Admin(ctx, []string{"billing"}))
}

func TestFilterAndSort(t *testing.T) {
	a, out := newTestApp(t, newFakeServer())
	login(t, a)
	ctx := context.Background()

	require.NoError(t, a.Filter(ctx, []string{"20"}))
	assert.Contains(t, ansi.Strip(out.String()), "No documents found.")
	require.Error(t, a.Filter(ctx, []string{"77"}))
	require.Error(t, a.Sort(ctx, []string{"size"}))
	require.NoError(t, a.Sort(ctx, []string{"alphabetical"}))
	assert.Equal(t, view.DocumentLibrary, a.state.Router().WorkspaceScreen())
}

func TestTheme(t *testing.T) {
	a, out := newTestApp(t, newFakeServer())
	ctx := context.Background()

	require.NoError(t, a.Theme(ctx, nil))
	assert.Contains(t, out.String(), "Theme: dark")
	require.NoError(t, a.Theme(ctx, []string{"light"}))
	assert.Contains(t, out.String(), "Theme: light")
	require.Error(t, a.Theme(ctx, []string{"neon"}))
}

func TestLogout(t *testing.T) {
	a, out := newTestApp(t, newFakeServer())
	login(t, a)

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.state.Cache().Documents())
	assert.Contains(t, out.String(), "Signed out.")
}

func TestParseID(t *testing.T) {
	id, err := parseID([]string{"42"}, "read <id>")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, args := range [][]string{nil, {"x"}, {"0"}, {"1", "2"}} {
		_, err := parseID(args, "read <id>")
		assert.Error(t, err, "%v", args)
	}
}
