package rest

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the user set by the auth middleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}
