package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
)

type SessionManager interface {
	Create(ctx context.Context, email, password string) (services.Result, error)
	Remove(ctx context.Context, userID string) (services.Result, error)
}

type UserManager interface {
	Register(ctx context.Context, name, email, password string) (services.Result, error)
	List(ctx context.Context, order string) ([]*models.User, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}
