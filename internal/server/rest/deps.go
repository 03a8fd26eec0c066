package rest

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
)

// SessionManager opens and closes sessions.
type SessionManager interface {
	Create(ctx context.Context, email, password string) (services.Result, error)
	Remove(ctx context.Context, userID string) (services.Result, error)
}

// UserManager registers and lists accounts.
type UserManager interface {
	Register(ctx context.Context, name, email, password string) (services.Result, error)
	List(ctx context.Context, order string) ([]*models.User, error)
}

// Authenticator resolves a bearer token into a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Pinger backs the readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}
