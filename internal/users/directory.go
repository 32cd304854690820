package users

import (
	"context"

	"github.com/gazette-news/gazette/internal/principal"
)

// PrincipalDirectory adapts the user repository to the resolver's lookup
// shape, projecting an account onto the record the resolver consumes.
type PrincipalDirectory struct {
	Repo RepositoryPort
}

// FindByID implements principal.Directory.
func (d PrincipalDirectory) FindByID(ctx context.Context, id string) (*principal.UserRecord, error) {
	user, err := d.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &principal.UserRecord{
		ID:          user.ID,
		Nickname:    user.Nickname,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}, nil
}

var _ principal.Directory = PrincipalDirectory{}
