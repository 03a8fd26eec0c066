package client

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/client/models"
)

// Client is the transport-agnostic API contract used by the CLI services.
type Client interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Signin(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) (string, error)
	Users(ctx context.Context, token, order string) ([]models.User, error)
	Ping(ctx context.Context) error
	Close() error
}
