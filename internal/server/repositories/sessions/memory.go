package sessions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps sessions in process memory. A single mutex makes
// the active check and the insert in CreateActive one step.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	active   map[string]string // user id -> active session id
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*models.Session),
		active:   make(map[string]string),
		now:      time.Now,
	}
}

func (r *MemoryRepository) CreateActive(ctx context.Context, session *models.Session) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[session.UserID]; ok {
		return nil, common.ErrActiveSessionExists
	}

	session.ID = uuid.NewString()
	session.Active = true
	session.CreatedAt = r.now().UTC()

	stored := *session
	r.sessions[stored.ID] = &stored
	r.active[stored.UserID] = stored.ID

	return session, nil
}

func (r *MemoryRepository) ListActive(ctx context.Context, userID string) ([]*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.Session, 0)
	for _, s := range r.sessions {
		if s.UserID == userID && s.Active {
			c := *s
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })

	return result, nil
}

func (r *MemoryRepository) DeactivateAll(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, s := range r.sessions {
		if s.UserID == userID && s.Active {
			s.Active = false
			n++
		}
	}
	delete(r.active, userID)

	return n, nil
}

func (r *MemoryRepository) ActiveByToken(ctx context.Context, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.Token == token && s.Active {
			c := *s
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

// All returns every stored session, active or not. Used by tests and
// diagnostics.
func (r *MemoryRepository) All() []*models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		c := *s
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}
