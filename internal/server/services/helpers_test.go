package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/users"
)

// --- hasher / codec fakes ---

type fakeHasher struct {
	hashErr    error
	compareErr error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hash:" + password, nil
}

func (f *fakeHasher) Compare(hash, password string) (bool, error) {
	if f.compareErr != nil {
		return false, f.compareErr
	}
	return hash == "hash:"+password, nil
}

type fakeCodec struct {
	mu       sync.Mutex
	n        int
	issueErr error
}

func (f *fakeCodec) Issue(userID string) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return "tok." + userID + "." + strings.Repeat("x", f.n), nil
}

func (f *fakeCodec) UserID(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] != "tok" || parts[1] == "" {
		return "", common.ErrInvalidToken
	}
	return parts[1], nil
}

// --- repositories that fail on demand ---

type faultyUsers struct {
	users.Repository
	getByEmailErr error
	getByIDErr    error
	createErr     error
	listErr       error
}

func (f *faultyUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	return f.Repository.GetByEmail(ctx, email)
}

func (f *faultyUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.Repository.GetByID(ctx, id)
}

func (f *faultyUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, u)
}

func (f *faultyUsers) List(ctx context.Context, order string) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Repository.List(ctx, order)
}

type faultySessions struct {
	sessions.Repository
	listErr       error
	createErr     error
	deactivateErr error
	byTokenErr    error
	// listOverride, when set, replaces the ListActive result
	listOverride []*models.Session
	// deactivated overrides DeactivateAll's count when >= 0
	deactivated int64
	createCalls int
}

func newFaultySessions(base sessions.Repository) *faultySessions {
	return &faultySessions{Repository: base, deactivated: -1}
}

func (f *faultySessions) ListActive(ctx context.Context, userID string) ([]*models.Session, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listOverride != nil {
		return f.listOverride, nil
	}
	return f.Repository.ListActive(ctx, userID)
}

func (f *faultySessions) CreateActive(ctx context.Context, s *models.Session) (*models.Session, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.CreateActive(ctx, s)
}

func (f *faultySessions) DeactivateAll(ctx context.Context, userID string) (int64, error) {
	if f.deactivateErr != nil {
		return 0, f.deactivateErr
	}
	n, err := f.Repository.DeactivateAll(ctx, userID)
	if f.deactivated >= 0 {
		return f.deactivated, err
	}
	return n, err
}

func (f *faultySessions) ActiveByToken(ctx context.Context, token string) (*models.Session, error) {
	if f.byTokenErr != nil {
		return nil, f.byTokenErr
	}
	return f.Repository.ActiveByToken(ctx, token)
}

// --- event publisher ---

type recordedEvent struct {
	subject string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, subj string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{subject: subj, payload: v})
	return p.err
}

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.subject)
	}
	return out
}

var errBoom = errors.New("boom")
