// Package sessions stores sign-in sessions and enforces that a user has at
// most one active session.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/models"
)

type Repository interface {
	// CreateActive stores session as active unless the user already has an
	// active one, in which case common.ErrActiveSessionExists is returned
	// and nothing is written. The check and the write are a single step.
	CreateActive(ctx context.Context, session *models.Session) (*models.Session, error)

	// ListActive returns the user's active sessions. An unknown or empty
	// user id yields an empty slice.
	ListActive(ctx context.Context, userID string) ([]*models.Session, error)

	// DeactivateAll marks every session of the user inactive and reports how
	// many were active before the call.
	DeactivateAll(ctx context.Context, userID string) (int64, error)

	// ActiveByToken returns the active session carrying token, or
	// common.ErrorNotFound.
	ActiveByToken(ctx context.Context, token string) (*models.Session, error)
}
