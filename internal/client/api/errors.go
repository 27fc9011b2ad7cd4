package api

import (
	"errors"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// Generic messages used when the server gives no readable detail.
const (
	fallbackLogin    = "Failed to login"
	fallbackRegister = "Failed to register"
	fallbackGeneric  = "Something went wrong"
)

// Error is a non-2xx API response. Message is the server-reported detail or
// a generic fallback.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports 401 responses as ErrUnauthorized.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Message extracts the user-facing text of err: the server message for API
// errors, the plain error text otherwise.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnavailable) {
		return ErrUnavailable.Error()
	}
	return err.Error()
}
