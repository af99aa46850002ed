package accounts

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// Repository persists stored site logins. Password is stored exactly as
// given; encoding happens in the service layer.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Account, error)
	GetByName(ctx context.Context, name string, userID int64) (*models.Account, error)
	// List returns the user's accounts; a zero vaultID means all vaults.
	List(ctx context.Context, userID, vaultID int64) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
	Delete(ctx context.Context, id, userID int64) (*models.Account, error)
}
