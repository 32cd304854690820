package users

import (
	"time"

	"github.com/gazette-news/gazette/internal/authz"
)

// User represents a registered account.
type User struct {
	ID           string
	Nickname     string
	DisplayName  string
	Role         authz.Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the client-facing projection of a user.
type Profile struct {
	ID          string     `json:"id"`
	Nickname    string     `json:"nickname"`
	DisplayName string     `json:"displayName"`
	Role        authz.Role `json:"role"`
}

// Profile converts a user to its response shape, dropping the hash.
func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Nickname:    u.Nickname,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}
