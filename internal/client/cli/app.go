package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/docvault/internal/client/api"
	"github.com/dmitrijs2005/docvault/internal/client/app"
	"github.com/dmitrijs2005/docvault/internal/client/cache"
	"github.com/dmitrijs2005/docvault/internal/client/config"
	"github.com/dmitrijs2005/docvault/internal/client/reader"
	"github.com/dmitrijs2005/docvault/internal/client/session"
	"github.com/dmitrijs2005/docvault/internal/client/storage"
	"github.com/dmitrijs2005/docvault/internal/client/tui"
	"github.com/dmitrijs2005/docvault/internal/client/view"
	"github.com/dmitrijs2005/docvault/internal/logging"
)

// ReaderRunner shows an open reader session until the user closes it.
type ReaderRunner func(ctx context.Context, s *reader.Session, dark bool) error

type App struct {
	state  *app.App
	reader *bufio.Reader
	out    io.Writer
	logger logging.Logger
	styles styles

	runReader ReaderRunner
	closers   []func() error
}

type Option func(*App)

func WithReaderRunner(r ReaderRunner) Option { return func(a *App) { a.runReader = r } }
func WithLogger(l logging.Logger) Option     { return func(a *App) { a.logger = l } }

// New builds the REPL over an already wired state. in and out are the
// terminal streams.
func New(state *app.App, in io.Reader, out io.Writer, opts ...Option) *App {
	a := &App{
		state:  state,
		reader: bufio.NewReader(in),
		out:    out,
		logger: logging.Nop(),
		styles: newStyles(lipgloss.NewRenderer(out)),
		runReader: func(ctx context.Context, s *reader.Session, dark bool) error {
			return tui.Run(ctx, s, dark)
		},
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// NewApp wires the client from c: logger, local store, API client, session,
// cache, reader and application state.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	policy, err := app.ParseLogoutPolicy(c.LogoutPolicy)
	if err != nil {
		return nil, err
	}

	var closers []func() error
	logOut := io.Writer(os.Stderr)
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logOut = f
		closers = append(closers, f.Close)
	}
	logger, flush, err := logging.New(logging.Options{
		Backend: c.LogBackend,
		Level:   c.LogLevel,
		Format:  c.LogFormat,
		Output:  logOut,
	})
	if err != nil {
		return nil, err
	}
	closers = append([]func() error{flush}, closers...)

	st, err := storage.Open(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}
	closers = append([]func() error{st.Close}, closers...)

	client, err := api.NewHTTPClient(c.APIBaseURL, api.WithLogger(logger))
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	state := app.New(app.Deps{
		API:     client,
		Session: session.New(client, st.Prefs, session.WithLogger(logger)),
		Cache:   cache.New(client, logger),
		Reader:  reader.New(client, reader.WithLogger(logger)),
		Logger:  logger,
		Sync:    app.FullReload,
		Logout:  policy,
	})

	a := New(state, os.Stdin, os.Stdout, WithLogger(logger))
	a.closers = closers
	return a, nil
}

// Run restores the previous session and runs the REPL until exit.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	fmt.Fprintln(a.out, a.styles.title.Render("DocVault")+" (type 'help' for commands)")
	if err := a.state.Start(ctx); err != nil {
		a.report(err)
	}
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Signed in as %s.\n", a.displayName())
	}
	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.state.Session().Authenticated()
}

func (a *App) displayName() string {
	if e := a.state.Session().Email(); e != "" {
		return e
	}
	return "current user"
}

// status is shown in the prompt: the user and the current screen.
func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	r := a.state.Router()
	where := r.Top().String()
	switch r.Top() {
	case view.Workspace:
		where += "/" + r.WorkspaceScreen().String()
	case view.Admin:
		where += "/" + r.AdminScreen().String()
	}
	s := fmt.Sprintf("(%s %s)", a.displayName(), where)
	if a.state.Cache().Loading() {
		s += " …"
	}
	return s
}

// report prints the user-facing message of err.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	a.logger.Debug(context.Background(), "command failed", "error", err)
	fmt.Fprintln(a.out, a.styles.err.Render(api.Message(err)))
}

func (a *App) confirm() app.Confirmer {
	return app.ConfirmFunc(func(prompt string) bool {
		return getConfirmation(a.reader, prompt, a.out)
	})
}
