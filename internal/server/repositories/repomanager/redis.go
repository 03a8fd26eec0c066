package repomanager

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophsession/internal/server/repositories/sessions"
	"github.com/redis/go-redis/v9"
)

// RedisSessionsManager serves users from the base manager and sessions
// from Redis.
type RedisSessionsManager struct {
	RepositoryManager
	rdb      redis.UniversalClient
	sessions *sessions.RedisRepository
}

func NewRedisSessionsManager(base RepositoryManager, rdb redis.UniversalClient, prefix string) *RedisSessionsManager {
	return &RedisSessionsManager{
		RepositoryManager: base,
		rdb:               rdb,
		sessions:          sessions.NewRedisRepository(rdb, prefix),
	}
}

func (m *RedisSessionsManager) Sessions() sessions.Repository {
	return m.sessions
}

// SessionsTx hands fn the Redis store; its writes are atomic scripts.
func (m *RedisSessionsManager) SessionsTx(ctx context.Context, fn func(ctx context.Context, s sessions.Repository) error) error {
	return fn(ctx, m.sessions)
}

func (m *RedisSessionsManager) Ping(ctx context.Context) error {
	if err := m.RepositoryManager.Ping(ctx); err != nil {
		return err
	}
	return m.rdb.Ping(ctx).Err()
}

func (m *RedisSessionsManager) Close() error {
	return errors.Join(m.rdb.Close(), m.RepositoryManager.Close())
}
