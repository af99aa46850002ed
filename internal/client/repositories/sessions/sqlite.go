package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, server string) (*models.Session, error) {
	s := &models.Session{Server: server}
	err := r.db.QueryRowContext(ctx,
		`SELECT login, token, saved_at FROM sessions WHERE server = ?`, server,
	).Scan(&s.Login, &s.Token, &s.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session for %s: %w", server, err)
	}
	return s, nil
}

// Save replaces any earlier session for the same server.
func (r *SQLiteRepository) Save(ctx context.Context, s *models.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (server, login, token, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(server) DO UPDATE SET
			login = excluded.login,
			token = excluded.token,
			saved_at = excluded.saved_at
	`, s.Server, s.Login, s.Token, s.SavedAt.UTC())
	if err != nil {
		return fmt.Errorf("save session for %s: %w", s.Server, err)
	}
	return nil
}

// Delete is a no-op when there is nothing saved.
func (r *SQLiteRepository) Delete(ctx context.Context, server string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE server = ?`, server); err != nil {
		return fmt.Errorf("delete session for %s: %w", server, err)
	}
	return nil
}
