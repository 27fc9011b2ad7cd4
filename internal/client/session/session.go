// Package session holds the authentication state of the client: the bearer
// token (persisted across restarts), the email of the signed-in user and the
// application color theme.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/docvault/internal/client/api"
	"github.com/dmitrijs2005/docvault/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Theme is the application-wide color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: unknown theme %q", common.ErrorValidation, s)
}

// Authenticator is the part of the API the session talks to.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.Token, error)
	Register(ctx context.Context, email, password string) (api.Registration, error)
}

type Session struct {
	auth   Authenticator
	prefs  prefs.Repository
	logger logging.Logger
	now    func() time.Time

	mu    sync.RWMutex
	token string
	email string
	theme Theme
}

type Option func(*Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(auth Authenticator, repo prefs.Repository, opts ...Option) *Session {
	s := &Session{
		auth:   auth,
		prefs:  repo,
		logger: logging.Nop(),
		now:    time.Now,
		theme:  ThemeLight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the persisted token and theme. A token whose JWT "exp" claim
// lies in the past is discarded. Tokens that are not JWTs are kept as-is.
// Reading and discarding happen in one prefs transaction.
func (s *Session) Load(ctx context.Context) error {
	var (
		theme Theme
		token string
	)
	err := s.prefs.Update(ctx, func(ctx context.Context, r prefs.Repository) error {
		raw, err := r.Get(ctx, common.PrefThemeKey)
		switch {
		case err == nil:
			if t, perr := ParseTheme(string(raw)); perr == nil {
				theme = t
			} else {
				s.logger.Warn(ctx, "ignoring stored theme", "theme", string(raw))
			}
		case !errors.Is(err, prefs.ErrNotFound):
			return fmt.Errorf("load theme: %w", err)
		}

		tok, err := r.Get(ctx, common.PrefTokenKey)
		if errors.Is(err, prefs.ErrNotFound) || (err == nil && len(tok) == 0) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load token: %w", err)
		}

		if expired(string(tok), s.now()) {
			s.logger.Info(ctx, "stored token expired, discarding")
			if err := r.Delete(ctx, common.PrefTokenKey); err != nil {
				return fmt.Errorf("discard expired token: %w", err)
			}
			return nil
		}
		token = string(tok)
		return nil
	})
	if err != nil {
		return err
	}

	if theme != "" {
		s.setTheme(theme)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// expired reports whether tok is a JWT with an "exp" claim before now.
// The signature is not verified; the server stays the authority.
func expired(tok string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// Login exchanges credentials for a token and persists it. On failure the
// session is left signed out and the API error is returned.
func (s *Session) Login(ctx context.Context, email, password string) error {
	t, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := s.prefs.Set(ctx, common.PrefTokenKey, []byte(t.AccessToken)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	s.mu.Lock()
	s.token = t.AccessToken
	s.email = email
	s.mu.Unlock()

	s.logger.Info(ctx, "signed in", "email", email)
	return nil
}

// Register creates an account. It does not sign in.
func (s *Session) Register(ctx context.Context, email, password string) (api.Registration, error) {
	return s.auth.Register(ctx, email, password)
}

// Logout always clears the in-memory token. The returned error only reports
// a failure to remove the persisted copy.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.email = ""
	s.mu.Unlock()

	if err := s.prefs.Delete(ctx, common.PrefTokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// SetEmail records the email resolved from /users/me.
func (s *Session) SetEmail(email string) {
	s.mu.Lock()
	s.email = email
	s.mu.Unlock()
}

func (s *Session) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme applies and persists t. The theme survives logout.
func (s *Session) SetTheme(ctx context.Context, t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	if err := s.prefs.Set(ctx, common.PrefThemeKey, []byte(t)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	s.setTheme(t)
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *Session) ToggleTheme(ctx context.Context) (Theme, error) {
	next := ThemeDark
	if s.Theme() == ThemeDark {
		next = ThemeLight
	}
	if err := s.SetTheme(ctx, next); err != nil {
		return s.Theme(), err
	}
	return next, nil
}

func (s *Session) setTheme(t Theme) {
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()
}
