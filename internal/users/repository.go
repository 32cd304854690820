package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gazette-news/gazette/internal/authz"
	"github.com/gazette-news/gazette/internal/shared"
)

// RepositoryPort defines data access for user accounts. The lookup methods
// are the narrow collaborator surface consumed by the authentication core.
type RepositoryPort interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByNickname(ctx context.Context, nickname string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]User, int, error)
	Update(ctx context.Context, user *User) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, nickname, display_name, role, password_hash, created_at, updated_at`

// FindByID fetches a user by id.
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findBy(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByNickname fetches a user by nickname.
func (r *Repository) FindByNickname(ctx context.Context, nickname string) (*User, error) {
	return r.findBy(ctx, `SELECT `+userColumns+` FROM users WHERE nickname = $1`, nickname)
}

func (r *Repository) findBy(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	var roleName string
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Nickname, &user.DisplayName, &roleName,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	role, err := authz.ParseRole(roleName)
	if err != nil {
		// A row with an unknown role spelling must never become a principal.
		return nil, err
	}
	user.Role = role
	return &user, nil
}

// List returns a page of users plus the total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var user User
		var roleName string
		if err := rows.Scan(
			&user.ID, &user.Nickname, &user.DisplayName, &roleName,
			&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		role, err := authz.ParseRole(roleName)
		if err != nil {
			return nil, 0, err
		}
		user.Role = role
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update persists nickname, display name, role and password hash.
func (r *Repository) Update(ctx context.Context, user *User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET nickname = $2, display_name = $3, role = $4, password_hash = $5, updated_at = NOW() WHERE id = $1`,
		user.ID, user.Nickname, user.DisplayName, string(user.Role), user.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
