package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/events"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/users"
)

// SessionService opens and closes sessions while keeping at most one
// active session per user.
type SessionService struct {
	users     users.Repository
	sessions  sessions.Repository
	hasher    PasswordHasher
	tokens    TokenCodec
	publisher events.Publisher
	logger    logging.Logger
	now       func() time.Time
	inTx      SessionTx
}

type SessionOption func(*SessionService)

// WithSessionTx makes Remove read and deactivate sessions inside tx.
func WithSessionTx(tx SessionTx) SessionOption {
	return func(s *SessionService) {
		if tx != nil {
			s.inTx = tx
		}
	}
}

func NewSessionService(
	u users.Repository,
	s sessions.Repository,
	hasher PasswordHasher,
	tokens TokenCodec,
	publisher events.Publisher,
	logger logging.Logger,
	opts ...SessionOption,
) *SessionService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	svc := &SessionService{
		users:     u,
		sessions:  s,
		hasher:    hasher,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger.With("component", "session_service"),
		now:       time.Now,
	}
	svc.inTx = func(ctx context.Context, fn func(ctx context.Context, s sessions.Repository) error) error {
		return fn(ctx, svc.sessions)
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create signs a user in. Unknown email and wrong password both produce the
// same 400 result. A user that already has an active session gets a 409 and
// nothing is written. On success the result carries the new token.
//
// Infrastructure failures are returned as errors; callers map them to 500.
func (s *SessionService) Create(ctx context.Context, email, password string) (Result, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "sign-in rejected", "reason", "unknown email")
			return invalidCredentials(), nil
		}
		return Result{}, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return Result{}, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		s.logger.Info(ctx, "sign-in rejected", "reason", "wrong password", "user_id", user.ID)
		return invalidCredentials(), nil
	}

	active, err := s.sessions.ListActive(ctx, user.ID)
	if err != nil {
		return Result{}, fmt.Errorf("error searching sessions: %w", err)
	}
	if len(active) > 0 {
		s.logger.Info(ctx, "sign-in rejected", "reason", "active session exists", "user_id", user.ID)
		return activeSessionExists(), nil
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Result{}, fmt.Errorf("error issuing token: %w", err)
	}

	session, err := s.sessions.CreateActive(ctx, &models.Session{UserID: user.ID, Token: token})
	if err != nil {
		// lost a race against a concurrent sign-in of the same user
		if errors.Is(err, common.ErrActiveSessionExists) {
			s.logger.Info(ctx, "sign-in rejected", "reason", "concurrent session", "user_id", user.ID)
			return activeSessionExists(), nil
		}
		return Result{}, fmt.Errorf("error creating session: %w", err)
	}

	s.logger.Info(ctx, "session created", "user_id", user.ID, "session_id", session.ID)
	s.publish(ctx, events.SubjectSessionCreated, events.SessionEvent{
		UserID:    user.ID,
		SessionID: session.ID,
		At:        s.now().UTC(),
	})

	return Result{Status: http.StatusOK, Token: token}, nil
}

// Remove terminates every active session of userID. When there is nothing
// to terminate, including an empty userID, the result is a 403.
func (s *SessionService) Remove(ctx context.Context, userID string) (Result, error) {
	if strings.TrimSpace(userID) == "" {
		return alreadyLoggedOut(), nil
	}

	var n int64
	err := s.inTx(ctx, func(ctx context.Context, repo sessions.Repository) error {
		active, err := repo.ListActive(ctx, userID)
		if err != nil {
			return fmt.Errorf("error searching sessions: %w", err)
		}
		if len(active) == 0 {
			return nil
		}

		n, err = repo.DeactivateAll(ctx, userID)
		if err != nil {
			return fmt.Errorf("error terminating sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	// nothing active, or a concurrent logout got there first
	if n == 0 {
		s.logger.Info(ctx, "logout rejected", "reason", "no active session", "user_id", userID)
		return alreadyLoggedOut(), nil
	}

	s.logger.Info(ctx, "sessions terminated", "user_id", userID, "count", n)
	s.publish(ctx, events.SubjectSessionTerminated, events.SessionEvent{
		UserID:     userID,
		Terminated: n,
		At:         s.now().UTC(),
	})

	return Result{Status: http.StatusOK, Message: MsgSessionsTerminated}, nil
}

func (s *SessionService) publish(ctx context.Context, subj string, ev events.SessionEvent) {
	if err := s.publisher.Publish(ctx, subj, ev); err != nil {
		s.logger.Warn(ctx, "event publish failed", "subject", subj, "error", err)
	}
}
