// Package session keeps the CLI's login state in a local SQLite file.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/migrations"
	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const fileName = "session.db"

// Store persists the access token for one server between CLI invocations.
type Store struct {
	db     *sql.DB
	repo   sessions.Repository
	server string
}

// Open creates dir if needed (relative paths resolve against the working
// directory) and opens the store inside it. Sessions saved for other servers
// are left alone.
func Open(ctx context.Context, dir, server string) (*Store, error) {
	path, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(path, fileName))
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session store migrations: %w", err)
	}

	return &Store{db: db, repo: sessions.NewSQLiteRepository(db), server: server}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) current(ctx context.Context) (*models.Session, error) {
	sess, err := s.repo.Get(ctx, s.server)
	if errors.Is(err, common.ErrorNotFound) {
		return &models.Session{Server: s.server}, nil
	}
	return sess, err
}

// Token returns the saved access token, or "" when logged out.
func (s *Store) Token(ctx context.Context) (string, error) {
	sess, err := s.current(ctx)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// Login returns the identifier used for the saved token.
func (s *Store) Login(ctx context.Context) (string, error) {
	sess, err := s.current(ctx)
	if err != nil {
		return "", err
	}
	return sess.Login, nil
}

func (s *Store) Save(ctx context.Context, login, token string) error {
	return s.repo.Save(ctx, &models.Session{
		Server:  s.server,
		Login:   login,
		Token:   token,
		SavedAt: time.Now(),
	})
}

// Clear forgets the session.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, s.server)
}

func (s *Store) Close() error {
	return s.db.Close()
}
