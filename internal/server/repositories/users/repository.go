package users

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// Repository persists users. Lookups return common.ErrorNotFound when no
// row matches and common.ErrorAlreadyExists on unique violations.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	// GetByLogin matches either the email or the username.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfileURL(ctx context.Context, id int64, url string) error
	UpdateTOTP(ctx context.Context, id int64, secret string, enabled bool) error
	Delete(ctx context.Context, id int64) (*models.User, error)
}
