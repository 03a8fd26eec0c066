// Package repomanager wires the user and session stores for a chosen
// backend and owns their connections.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Sessions() sessions.Repository
	// SessionsTx runs fn with a sessions repository whose calls form one
	// unit of work. Stores without transactions pass Sessions() through.
	SessionsTx(ctx context.Context, fn func(ctx context.Context, s sessions.Repository) error) error
	// Ping reports whether every backing store is reachable.
	Ping(ctx context.Context) error
	Close() error
}
