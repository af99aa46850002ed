package sessions

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/client/models"
)

// Repository keeps one saved session per server URL.
type Repository interface {
	// Get returns common.ErrorNotFound when there is no session for server.
	Get(ctx context.Context, server string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, server string) error
}
