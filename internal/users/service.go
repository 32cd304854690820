package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/gazette-news/gazette/internal/authz"
	"github.com/gazette-news/gazette/internal/shared"
)

// Service handles staff management of user accounts.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// UpdateInput carries the optional fields of a staff user update. Nil
// pointers leave the current value untouched.
type UpdateInput struct {
	Nickname    *string
	DisplayName *string
	Password    *string
	Role        *authz.Role
}

// List returns a page of users plus the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Get fetches a single user.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateUser applies a staff edit to the target account. The acting role
// must outrank the target per the management hierarchy, and when the edit
// changes the role, the new role must be assignable by the actor as well;
// the caller learns only that the edit was refused, not which check failed.
func (s *Service) UpdateUser(ctx context.Context, actorRole authz.Role, targetID string, input UpdateInput) (*User, error) {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManage(target.Role, actorRole) {
		return nil, shared.ErrUnauthorized
	}
	if input.Role != nil && *input.Role != target.Role {
		if !input.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role", shared.ErrValidation)
		}
		if !authz.CanManage(*input.Role, actorRole) {
			return nil, shared.ErrUnauthorized
		}
		target.Role = *input.Role
	}

	if input.Nickname != nil && *input.Nickname != "" {
		target.Nickname = *input.Nickname
	}
	if input.DisplayName != nil {
		target.DisplayName = *input.DisplayName
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("users: hash password: %w", err)
		}
		target.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}
