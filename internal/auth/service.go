// Package auth implements credential verification and the session
// endpoints for both client populations: token-based API clients and
// cookie-session web clients.
package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/gazette-news/gazette/internal/shared"
	"github.com/gazette-news/gazette/internal/users"
)

// Directory is the user-lookup collaborator. Implemented by
// users.Repository; only these two reads are consumed here.
type Directory interface {
	FindByNickname(ctx context.Context, nickname string) (*users.User, error)
	FindByID(ctx context.Context, id string) (*users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	directory Directory
}

// NewService constructs a new Service.
func NewService(directory Directory) *Service {
	return &Service{directory: directory}
}

// Authenticate validates nickname/password credentials. An unknown nickname
// and a wrong password both map to the same ErrInvalidCredentials so callers
// cannot enumerate nicknames. A directory failure is not a credential
// outcome and is returned as-is.
func (s *Service) Authenticate(ctx context.Context, nickname, password string) (*users.User, error) {
	user, err := s.directory.FindByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Lookup fetches a user by id, for refresh-time re-resolution.
func (s *Service) Lookup(ctx context.Context, id string) (*users.User, error) {
	return s.directory.FindByID(ctx, id)
}
