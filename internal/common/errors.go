// Package common defines shared constants and sentinel errors used across
// client layers of DocVault. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrorNotAuthenticated = errors.New("not authenticated")
	ErrTokenExpired       = errors.New("token expired")

	// Input errors raised before any network call.
	ErrorValidation = errors.New("validation error")
)
