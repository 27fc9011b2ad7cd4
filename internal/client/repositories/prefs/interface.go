// Package prefs stores the small set of client values that survive a restart
// (the bearer token and the selected color theme) in a key-value table.
package prefs

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set or was deleted.
var ErrNotFound = errors.New("pref not found")

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	// Update runs fn against a repository bound to a single transaction.
	// Nothing fn wrote is kept when it returns an error.
	Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error
}
