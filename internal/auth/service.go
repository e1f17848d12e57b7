package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dodo-tasks/backend/internal/models"
)

// UserStore defines the interface for user persistence. CreateUser must
// fail with models.ErrDuplicateUsername when the username is taken and
// FindByUsername with models.ErrNotFound when it is unknown.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	FindByUsername(ctx context.Context, userName string) (*models.User, error)
}

// Hasher is the password transform used at registration and login.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// Issuer signs bearer tokens for a user id.
type Issuer interface {
	Issue(userID string) (Token, error)
}

// Service implements registration and login on top of a UserStore.
type Service struct {
	users  UserStore
	hasher Hasher
	tokens Issuer
}

func NewService(users UserStore, hasher Hasher, tokens Issuer) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Register validates req, rejects a taken username and stores the user
// with a hashed password. Nothing is written when any step before the
// insert fails.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.UserName) == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: firstName, lastName, userName and password are required", models.ErrInvalidUserData)
	}
	if len(req.Password) > MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password longer than %d bytes", models.ErrInvalidUserData, MaxPasswordBytes)
	}

	_, err := s.users.FindByUsername(ctx, req.UserName)
	switch {
	case err == nil:
		return nil, models.ErrDuplicateUsername
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.users.CreateUser(ctx, &models.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		UserName:  req.UserName,
		Password:  hashed,
	})
}

// FindByUsername returns the stored user or models.ErrNotFound.
func (s *Service) FindByUsername(ctx context.Context, userName string) (*models.User, error) {
	return s.users.FindByUsername(ctx, userName)
}

// Login checks the credentials and issues a bearer token. Unknown users
// fail with models.ErrUnknownUser, bad passwords with
// models.ErrInvalidPassword.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.UserName == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: userName and password are required", models.ErrValidation)
	}

	user, err := s.users.FindByUsername(ctx, req.UserName)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		return nil, models.ErrInvalidPassword
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		UserID:    user.ID,
		UserName:  user.UserName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
	}, nil
}
