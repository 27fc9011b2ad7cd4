package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docvault/internal/common"
)

// Interactive input helpers, swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getDefaultText  = GetDefaultText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil, fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register creates an account. It does not sign in; the user logs in
// afterwards.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	reg, err := a.state.Register(ctx, email, string(password))
	if err != nil {
		return err
	}
	msg := reg.Message
	if msg == "" {
		msg = "Registration successful."
	}
	fmt.Fprintln(a.out, a.styles.ok.Render(msg)+" You can now log in.")
	return nil
}

// Login signs in and loads the workspace.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Already signed in as %s.\n", a.displayName())
		return nil
	}
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.state.Login(ctx, email, string(password)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", a.displayName())
	return a.Dashboard(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.state.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
