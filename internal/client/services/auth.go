// Package services contains application services for the gophsession CLI.
// The auth service drives the server API and keeps the current session
// token in the local database so a restarted CLI stays signed in.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/client/client"
	"github.com/dmitrijs2005/gophsession/internal/client/models"
	"github.com/dmitrijs2005/gophsession/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophsession/internal/common"
)

// AuthService defines account and session operations for the CLI.
//
// Contract:
//   - Register: create a new user on the server.
//   - Signin: open a session and persist its token locally.
//   - Logout: end the session; the local token is dropped once the server
//     confirms there is nothing left to end.
//   - Users: list accounts with the stored token.
//   - WhoAmI: email of the locally signed-in user.
//
// All methods honor context cancellation and timeouts.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) (*models.User, error)
	Signin(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) (string, error)
	Users(ctx context.Context, order string) ([]models.User, error)
	WhoAmI(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
}

func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db, now: time.Now}
}

func (a *authService) sessions() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) (*models.User, error) {
	u, err := a.client.Register(ctx, name, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return u, nil
}

func (a *authService) Signin(ctx context.Context, email string, password []byte) error {
	token, err := a.client.Signin(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("signin error: %w", err)
	}

	err = a.sessions().Save(ctx, metadata.Session{Token: token, Email: email, SignedInAt: a.now()})
	if err != nil {
		return fmt.Errorf("saving session error: %w", err)
	}
	return nil
}

func (a *authService) current(ctx context.Context) (metadata.Session, error) {
	s, err := a.sessions().Load(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return metadata.Session{}, client.ErrNotSignedIn
		}
		return metadata.Session{}, err
	}
	return s, nil
}

// Logout also drops the local token when the server answers 403, because
// then no session is left to end.
func (a *authService) Logout(ctx context.Context) (string, error) {
	s, err := a.current(ctx)
	if err != nil {
		return "", err
	}

	msg, err := a.client.Logout(ctx, s.Token)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
			if ferr := a.sessions().Clear(ctx); ferr != nil {
				return "", ferr
			}
		}
		return "", fmt.Errorf("logout error: %w", err)
	}

	if err := a.sessions().Clear(ctx); err != nil {
		return "", err
	}
	return msg, nil
}

func (a *authService) Users(ctx context.Context, order string) ([]models.User, error) {
	s, err := a.current(ctx)
	if err != nil {
		return nil, err
	}
	list, err := a.client.Users(ctx, s.Token, order)
	if err != nil {
		return nil, fmt.Errorf("list users error: %w", err)
	}
	return list, nil
}

func (a *authService) WhoAmI(ctx context.Context) (string, error) {
	s, err := a.current(ctx)
	if err != nil {
		return "", err
	}
	return s.Email, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return errors.Join(a.client.Close(), a.db.Close())
}
