package articles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gazette-news/gazette/internal/shared"
)

// RepositoryPort defines persistence operations for articles.
type RepositoryPort interface {
	Create(ctx context.Context, article *Article) error
	GetByID(ctx context.Context, id int64) (*Article, error)
	ListPublished(ctx context.Context, limit, offset int) ([]Article, int, error)
	UpdateContent(ctx context.Context, id int64, title, slug, body string) error
	SetStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const articleColumns = `id, title, slug, body, author_id, status, created_at, updated_at`

// Create inserts a new draft and fills in the generated id.
func (r *Repository) Create(ctx context.Context, article *Article) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO articles (title, slug, body, author_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		article.Title, article.Slug, article.Body, article.AuthorID, string(article.Status),
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID fetches one article.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Article, error) {
	var article Article
	var status string
	err := r.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id).Scan(
		&article.ID, &article.Title, &article.Slug, &article.Body,
		&article.AuthorID, &status, &article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	article.Status = Status(status)
	return &article, nil
}

// ListPublished returns a page of published articles, newest first.
func (r *Repository) ListPublished(ctx context.Context, limit, offset int) ([]Article, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM articles WHERE status = $1`, string(StatusPublished)).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		string(StatusPublished), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var article Article
		var status string
		if err := rows.Scan(
			&article.ID, &article.Title, &article.Slug, &article.Body,
			&article.AuthorID, &status, &article.CreatedAt, &article.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		article.Status = Status(status)
		out = append(out, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateContent replaces title, slug and body.
func (r *Repository) UpdateContent(ctx context.Context, id int64, title, slug, body string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE articles SET title = $2, slug = $3, body = $4, updated_at = NOW() WHERE id = $1`,
		id, title, slug, body)
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

// SetStatus updates the editorial status.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE articles SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an article.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
