// Package accounts provides the PostgreSQL-backed, owner-scoped repository
// for stored site logins.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

const accountColumns = `id, name, username, email, password, description, page_url, icon_type, vault_id, user_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (name, username, email, password, description, page_url, icon_type, vault_id, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		a.Name, a.UserName, a.Email, a.Password, a.Description, a.PageURL, a.IconType, a.VaultID, a.UserID,
	).Scan(&a.ID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`
	return scanAccount(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string, userID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE name = $1 AND user_id = $2`
	return scanAccount(r.db.QueryRowContext(ctx, query, name, userID))
}

func (r *PostgresRepository) List(ctx context.Context, userID, vaultID int64) ([]*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM accounts
		 WHERE user_id = $1 AND ($2::bigint = 0 OR vault_id = $2)
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID, vaultID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	result := make([]*models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts
		 SET name = $3, username = $4, email = $5, password = $6, description = $7,
		     page_url = $8, icon_type = $9, vault_id = $10
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + accountColumns

	return scanAccount(r.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.Name, a.UserName, a.Email, a.Password, a.Description, a.PageURL, a.IconType, a.VaultID))
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) (*models.Account, error) {
	query := `DELETE FROM accounts WHERE id = $1 AND user_id = $2 RETURNING ` + accountColumns
	return scanAccount(r.db.QueryRowContext(ctx, query, id, userID))
}

func scanAccount(row dbx.RowScanner) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Name, &a.UserName, &a.Email, &a.Password,
		&a.Description, &a.PageURL, &a.IconType, &a.VaultID, &a.UserID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return a, nil
}
