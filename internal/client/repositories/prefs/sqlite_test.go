package prefs

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/docvault/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE prefs (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("eyJ.abc")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("eyJ.abc"), v)
}

func TestGet_Missing_ReturnsErrNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "theme", []byte("light")))
	require.NoError(t, r.Set(ctx, "theme", []byte("dark")))

	v, err := r.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, []byte("dark"), v)
}

func TestSet_NilValueStoredAsEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", nil))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestDelete_ListAndClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("t")))
	require.NoError(t, r.Set(ctx, "theme", []byte("dark")))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, r.Delete(ctx, "token"))
	require.NoError(t, r.Delete(ctx, "token"), "deleting twice is fine")
	_, err = r.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Clear(ctx))
	all, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdate_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	err := r.Update(ctx, func(ctx context.Context, tx Repository) error {
		if err := tx.Set(ctx, "theme", []byte("dark")); err != nil {
			return err
		}
		return tx.Set(ctx, "token", []byte("abc"))
	})
	require.NoError(t, err)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"theme": []byte("dark"), "token": []byte("abc")}, all)
}

func TestUpdate_RollsBackOnError(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "token", []byte("abc")))

	boom := errors.New("boom")
	err := r.Update(ctx, func(ctx context.Context, tx Repository) error {
		if err := tx.Delete(ctx, "token"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v, "delete rolled back")
}

func TestUpdate_InsideExistingTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).Update(ctx, func(ctx context.Context, r Repository) error {
			return r.Set(ctx, "theme", []byte("dark"))
		})
	})
	require.NoError(t, err)

	v, err := NewSQLiteRepository(db).Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, []byte("dark"), v)
}
