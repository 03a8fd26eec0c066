package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process. State is lost on
// restart; meant for development and tests.
type MemoryRepositoryManager struct {
	users    *users.MemoryRepository
	sessions *sessions.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository       { return m.users }
func (m *MemoryRepositoryManager) Sessions() sessions.Repository { return m.sessions }
func (m *MemoryRepositoryManager) Ping(context.Context) error    { return nil }
func (m *MemoryRepositoryManager) Close() error                  { return nil }

// SessionsTx runs fn directly; the memory store's writes lock on their own.
func (m *MemoryRepositoryManager) SessionsTx(ctx context.Context, fn func(ctx context.Context, s sessions.Repository) error) error {
	return fn(ctx, m.sessions)
}
