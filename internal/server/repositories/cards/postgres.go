// Package cards provides the PostgreSQL-backed card repository.
package cards

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

const cardColumns = `id, name, number, type, bank, ccv, expiration, pin, description, vault_id, user_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Card) (*models.Card, error) {
	query :=
		`INSERT INTO cards (name, number, type, bank, ccv, expiration, pin, description, vault_id, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.Number, c.Type, c.Bank, c.CCV, c.Expiration, c.PIN, c.Description, c.VaultID, c.UserID,
	).Scan(&c.ID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID int64) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 AND user_id = $2`
	return scanCard(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string, userID int64) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE name = $1 AND user_id = $2`
	return scanCard(r.db.QueryRowContext(ctx, query, name, userID))
}

func (r *PostgresRepository) List(ctx context.Context, userID, vaultID int64) ([]*models.Card, error) {
	query :=
		`SELECT ` + cardColumns + ` FROM cards
		 WHERE user_id = $1 AND ($2::bigint = 0 OR vault_id = $2)
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID, vaultID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	result := make([]*models.Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Card) (*models.Card, error) {
	query :=
		`UPDATE cards
		 SET name = $3, number = $4, type = $5, bank = $6, ccv = $7, expiration = $8,
		     pin = $9, description = $10, vault_id = $11
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + cardColumns

	return scanCard(r.db.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Number, c.Type, c.Bank, c.CCV, c.Expiration, c.PIN, c.Description, c.VaultID))
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) (*models.Card, error) {
	query := `DELETE FROM cards WHERE id = $1 AND user_id = $2 RETURNING ` + cardColumns
	return scanCard(r.db.QueryRowContext(ctx, query, id, userID))
}

func scanCard(row dbx.RowScanner) (*models.Card, error) {
	c := &models.Card{}
	err := row.Scan(&c.ID, &c.Name, &c.Number, &c.Type, &c.Bank, &c.CCV,
		&c.Expiration, &c.PIN, &c.Description, &c.VaultID, &c.UserID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return c, nil
}
