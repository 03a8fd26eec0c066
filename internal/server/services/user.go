package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/users"
)

// UserService registers and lists accounts.
type UserService struct {
	users  users.Repository
	hasher PasswordHasher
	logger logging.Logger
}

func NewUserService(u users.Repository, hasher PasswordHasher, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &UserService{users: u, hasher: hasher, logger: logger.With("component", "user_service")}
}

// Register creates a user with a hashed password. Input is expected to be
// validated already. A taken email yields a 409 result; success a 201 with
// the stored user.
func (s *UserService) Register(ctx context.Context, name, email, password string) (Result, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return Result{Status: http.StatusConflict, Message: MsgUserExists}, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return Result{}, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Result{}, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return Result{Status: http.StatusConflict, Message: MsgUserExists}, nil
		}
		return Result{}, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return Result{Status: http.StatusCreated, User: user}, nil
}

// List returns all users ordered by creation time, "desc" for newest first.
func (s *UserService) List(ctx context.Context, order string) ([]*models.User, error) {
	list, err := s.users.List(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return list, nil
}
