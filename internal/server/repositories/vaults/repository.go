package vaults

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// Repository persists vaults. Every lookup, update and delete is scoped to
// the owning user: a vault owned by someone else is reported exactly like a
// missing one, with common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, vault *models.Vault) (*models.Vault, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Vault, error)
	GetByName(ctx context.Context, name string, userID int64) (*models.Vault, error)
	List(ctx context.Context, userID int64) ([]*models.Vault, error)
	Update(ctx context.Context, vault *models.Vault) (*models.Vault, error)
	Delete(ctx context.Context, id, userID int64) (*models.Vault, error)
}
