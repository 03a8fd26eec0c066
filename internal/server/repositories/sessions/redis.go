package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key the store writes.
const DefaultRedisPrefix = "gophsession"

// Keys. Everything owned by one user shares the {<uid>} hash tag so the
// scripts stay in a single cluster slot.
//
//	<prefix>:{<uid>}:session:<id>  hash with the session fields
//	<prefix>:{<uid>}:active        id of the user's active session
//	<prefix>:{<uid>}:all           set of all the user's session ids
//	<prefix>:token:<token>         hash {user_id, session_id} of the owner

// KEYS: active, new session, all. ARGV: id, user id, token, created, session key prefix.
// A stale active pointer (session hash gone or inactive) is overwritten.
const createActiveScript = `
local cur = redis.call("GET", KEYS[1])
if cur and redis.call("HGET", ARGV[5] .. cur, "active") == "1" then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1])
redis.call("HSET", KEYS[2], "id", ARGV[1], "user_id", ARGV[2], "token", ARGV[3], "active", "1", "created_at", ARGV[4])
redis.call("SADD", KEYS[3], ARGV[1])
return 1
`

// KEYS: active, all. ARGV: session key prefix.
const deactivateAllScript = `
local n = 0
local ids = redis.call("SMEMBERS", KEYS[2])
for _, id in ipairs(ids) do
  local key = ARGV[1] .. id
  if redis.call("HGET", key, "active") == "1" then
    redis.call("HSET", key, "active", "0")
    n = n + 1
  end
end
redis.call("DEL", KEYS[1])
return n
`

var (
	createActiveLua  = redis.NewScript(createActiveScript)
	deactivateAllLua = redis.NewScript(deactivateAllScript)
)

// RedisRepository keeps sessions in Redis. Writes run as Lua scripts so
// the single-active rule holds across server replicas.
type RedisRepository struct {
	rdb    redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisRepository(rdb redis.UniversalClient, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRepository{rdb: rdb, prefix: prefix, now: time.Now}
}

func (r *RedisRepository) userPrefix(userID string) string {
	return r.prefix + ":{" + userID + "}:"
}

func (r *RedisRepository) sessionPrefix(userID string) string {
	return r.userPrefix(userID) + "session:"
}

func (r *RedisRepository) sessionKey(userID, id string) string {
	return r.sessionPrefix(userID) + id
}

func (r *RedisRepository) activeKey(userID string) string {
	return r.userPrefix(userID) + "active"
}

func (r *RedisRepository) allKey(userID string) string {
	return r.userPrefix(userID) + "all"
}

func (r *RedisRepository) tokenKey(token string) string {
	return r.prefix + ":token:" + token
}

// CreateActive writes the token index first, in its own slot. It points at
// a session id that only becomes visible if the script wins, and is
// removed again when it does not.
func (r *RedisRepository) CreateActive(ctx context.Context, session *models.Session) (*models.Session, error) {
	id := uuid.NewString()
	created := r.now().UTC()
	tokenKey := r.tokenKey(session.Token)

	if err := r.rdb.HSet(ctx, tokenKey, "user_id", session.UserID, "session_id", id).Err(); err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	keys := []string{
		r.activeKey(session.UserID),
		r.sessionKey(session.UserID, id),
		r.allKey(session.UserID),
	}
	ok, err := createActiveLua.Run(ctx, r.rdb, keys,
		id, session.UserID, session.Token, created.Format(time.RFC3339Nano),
		r.sessionPrefix(session.UserID)).Int64()
	if err != nil || ok == 0 {
		r.rdb.Del(ctx, tokenKey)
	}
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if ok == 0 {
		return nil, common.ErrActiveSessionExists
	}

	session.ID = id
	session.Active = true
	session.CreatedAt = created
	return session, nil
}

func (r *RedisRepository) ListActive(ctx context.Context, userID string) ([]*models.Session, error) {
	result := make([]*models.Session, 0)
	if userID == "" {
		return result, nil
	}

	id, err := r.rdb.Get(ctx, r.activeKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return result, nil
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	// a pointer to a missing or inactive session is stale; CreateActive
	// overwrites it
	s, err := r.load(ctx, userID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return result, nil
		}
		return nil, err
	}
	if s.Active {
		result = append(result, s)
	}
	return result, nil
}

func (r *RedisRepository) DeactivateAll(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, nil
	}

	keys := []string{r.activeKey(userID), r.allKey(userID)}
	n, err := deactivateAllLua.Run(ctx, r.rdb, keys, r.sessionPrefix(userID)).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}
	return n, nil
}

func (r *RedisRepository) ActiveByToken(ctx context.Context, token string) (*models.Session, error) {
	owner, err := r.rdb.HMGet(ctx, r.tokenKey(token), "user_id", "session_id").Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	userID, _ := owner[0].(string)
	id, _ := owner[1].(string)
	if userID == "" || id == "" {
		return nil, common.ErrorNotFound
	}

	s, err := r.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !s.Active {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (r *RedisRepository) load(ctx context.Context, userID, id string) (*models.Session, error) {
	fields, err := r.rdb.HGetAll(ctx, r.sessionKey(userID, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 {
		return nil, common.ErrorNotFound
	}

	created, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}

	return &models.Session{
		ID:        fields["id"],
		UserID:    fields["user_id"],
		Token:     fields["token"],
		Active:    fields["active"] == "1",
		CreatedAt: created,
	}, nil
}
