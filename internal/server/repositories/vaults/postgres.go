// Package vaults provides the PostgreSQL-backed, owner-scoped vault repository.
package vaults

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

const vaultColumns = `id, name, description, icon_type, user_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, vault *models.Vault) (*models.Vault, error) {
	query :=
		`INSERT INTO vaults (name, description, icon_type, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		vault.Name, vault.Description, vault.IconType, vault.UserID).Scan(&vault.ID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return vault, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID int64) (*models.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE id = $1 AND user_id = $2`
	return scanVault(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string, userID int64) (*models.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE name = $1 AND user_id = $2`
	return scanVault(r.db.QueryRowContext(ctx, query, name, userID))
}

func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]*models.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	result := make([]*models.Vault, 0)
	for rows.Next() {
		v, err := scanVault(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, vault *models.Vault) (*models.Vault, error) {
	query :=
		`UPDATE vaults SET name = $3, description = $4, icon_type = $5
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + vaultColumns

	return scanVault(r.db.QueryRowContext(ctx, query,
		vault.ID, vault.UserID, vault.Name, vault.Description, vault.IconType))
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) (*models.Vault, error) {
	query := `DELETE FROM vaults WHERE id = $1 AND user_id = $2 RETURNING ` + vaultColumns
	return scanVault(r.db.QueryRowContext(ctx, query, id, userID))
}

func scanVault(row dbx.RowScanner) (*models.Vault, error) {
	v := &models.Vault{}
	if err := row.Scan(&v.ID, &v.Name, &v.Description, &v.IconType, &v.UserID); err != nil {
		return nil, dbx.WrapError(err)
	}
	return v, nil
}
