// Package metadata remembers the CLI's signed-in session between runs.
package metadata

import (
	"context"
	"time"
)

// Keys of the metadata table rows that make up a saved session.
const (
	KeyToken      = "token"
	KeyEmail      = "email"
	KeySignedInAt = "signed_in_at"
)

// Session is the locally saved sign-in.
type Session struct {
	Token      string
	Email      string
	SignedInAt time.Time
}

// Repository stores at most one Session. Load returns common.ErrorNotFound
// when nobody is signed in.
type Repository interface {
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context) (Session, error)
	Clear(ctx context.Context) error
}
