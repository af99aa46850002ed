package cards

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// Repository persists payment cards, scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, card *models.Card) (*models.Card, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Card, error)
	GetByName(ctx context.Context, name string, userID int64) (*models.Card, error)
	// List returns the user's cards; a zero vaultID means all vaults.
	List(ctx context.Context, userID, vaultID int64) ([]*models.Card, error)
	Update(ctx context.Context, card *models.Card) (*models.Card, error)
	Delete(ctx context.Context, id, userID int64) (*models.Card, error)
}
