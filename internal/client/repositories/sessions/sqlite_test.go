package sessions

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const (
	local  = "http://127.0.0.1:8080"
	remote = "https://vault.example.com"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE sessions (
  server   TEXT PRIMARY KEY,
  login    TEXT NOT NULL,
  token    TEXT NOT NULL,
  saved_at TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func session(server, login, token string) *models.Session {
	return &models.Session{Server: server, Login: login, Token: token, SavedAt: time.Now().Truncate(time.Second)}
}

func TestSaveThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	in := session(local, "alice", "tok-1")
	require.NoError(t, r.Save(ctx, in))

	got, err := r.Get(ctx, local)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Login)
	require.Equal(t, "tok-1", got.Token)
	require.True(t, in.SavedAt.Equal(got.SavedAt), "saved_at %v != %v", got.SavedAt, in.SavedAt)
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), local)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSave_ReplacesPerServer(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, session(local, "alice", "old")))
	require.NoError(t, r.Save(ctx, session(remote, "bob", "other")))
	require.NoError(t, r.Save(ctx, session(local, "carol", "new")))

	got, err := r.Get(ctx, local)
	require.NoError(t, err)
	require.Equal(t, "carol", got.Login)
	require.Equal(t, "new", got.Token)

	got, err = r.Get(ctx, remote)
	require.NoError(t, err)
	require.Equal(t, "bob", got.Login)
}

func TestDelete_OnlyThatServer(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, session(local, "alice", "a")))
	require.NoError(t, r.Save(ctx, session(remote, "bob", "b")))
	require.NoError(t, r.Delete(ctx, local))
	require.NoError(t, r.Delete(ctx, local))

	_, err := r.Get(ctx, local)
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.Get(ctx, remote)
	require.NoError(t, err)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Close())

	_, err := r.Get(ctx, local)
	require.ErrorContains(t, err, "get session for "+local)
	require.ErrorContains(t, r.Save(ctx, session(local, "a", "t")), "save session for "+local)
	require.ErrorContains(t, r.Delete(ctx, local), "delete session for "+local)
}
