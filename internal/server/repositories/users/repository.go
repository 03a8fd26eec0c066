// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/models"
)

// Order values accepted by List.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type Repository interface {
	// Create inserts user and fills its ID and CreatedAt.
	// A duplicate email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// List returns every user ordered by creation time. Any order other
	// than OrderDesc sorts ascending.
	List(ctx context.Context, order string) ([]*models.User, error)
	Delete(ctx context.Context, id string) error
}
