package http

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, or nil outside the
// bearer-protected routes.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}
