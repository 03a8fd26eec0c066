package services

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/repositories/sessions"
)

// PasswordHasher hashes and verifies passwords. Compare must run in
// constant time with respect to the password.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// TokenCodec issues opaque session tokens and decodes them back into the
// user id they were issued for.
type TokenCodec interface {
	Issue(userID string) (string, error)
	UserID(token string) (string, error)
}

// SessionTx runs fn with a sessions repository scoped to one unit of work,
// e.g. a database transaction.
type SessionTx func(ctx context.Context, fn func(ctx context.Context, s sessions.Repository) error) error
