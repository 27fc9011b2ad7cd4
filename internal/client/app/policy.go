package app

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docvault/internal/client/api"
	"github.com/dmitrijs2005/docvault/internal/common"
)

// SyncPolicy decides how the cached snapshot is brought up to date after a
// successful mutation.
type SyncPolicy int

const (
	// FullReload refetches every document and category.
	FullReload SyncPolicy = iota
)

func (p SyncPolicy) String() string {
	if p == FullReload {
		return "full-reload"
	}
	return fmt.Sprintf("SyncPolicy(%d)", int(p))
}

// LogoutPolicy decides which failed authenticated calls end the session.
type LogoutPolicy string

const (
	// LogoutOnUnauthorized logs out only when the server rejects the token.
	LogoutOnUnauthorized LogoutPolicy = "unauthorized"
	// LogoutOnAnyFailure logs out after any failed authenticated call.
	LogoutOnAnyFailure LogoutPolicy = "any"
)

func ParseLogoutPolicy(s string) (LogoutPolicy, error) {
	switch LogoutPolicy(s) {
	case "", LogoutOnUnauthorized:
		return LogoutOnUnauthorized, nil
	case LogoutOnAnyFailure:
		return LogoutOnAnyFailure, nil
	}
	return "", fmt.Errorf("%w: unknown logout policy %q", common.ErrorValidation, s)
}

// shouldLogout applies the policy to the error of an authenticated call.
func (p LogoutPolicy) shouldLogout(err error) bool {
	if err == nil {
		return false
	}
	if p == LogoutOnAnyFailure {
		return true
	}
	return errors.Is(err, api.ErrUnauthorized)
}
