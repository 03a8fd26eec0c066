package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/users"
)

// Authenticator resolves a token to the user it was issued for.
//
// By default only the token signature and the user's existence are checked,
// so a token keeps working after its session is terminated. With
// RequireActiveSession the token must also belong to an active session.
type Authenticator struct {
	users                users.Repository
	sessions             sessions.Repository
	tokens               TokenCodec
	requireActiveSession bool
}

type AuthenticatorOption func(*Authenticator)

// RequireActiveSession makes terminated sessions' tokens fail with
// common.ErrInvalidToken.
func RequireActiveSession(v bool) AuthenticatorOption {
	return func(a *Authenticator) { a.requireActiveSession = v }
}

func NewAuthenticator(u users.Repository, s sessions.Repository, tokens TokenCodec, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{users: u, sessions: s, tokens: tokens}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Authenticate returns common.ErrNoToken for an empty token and
// common.ErrInvalidToken when the token does not verify or its user is gone.
// Any other error is an infrastructure failure.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, common.ErrNoToken
	}

	userID, err := a.tokens.UserID(token)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if a.requireActiveSession {
		session, err := a.sessions.ActiveByToken(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrInvalidToken
			}
			return nil, fmt.Errorf("error searching session: %w", err)
		}
		if session.UserID != user.ID {
			return nil, common.ErrInvalidToken
		}
	}

	return user, nil
}
