package comments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gazette-news/gazette/internal/shared"
)

// RepositoryPort defines persistence operations for comments.
type RepositoryPort interface {
	Create(ctx context.Context, comment *Comment) error
	ListByArticle(ctx context.Context, articleID int64, limit, offset int) ([]Comment, int, error)
	Delete(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a comment. A missing article surfaces as not found via
// the foreign key.
func (r *Repository) Create(ctx context.Context, comment *Comment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO comments (article_id, author_id, body, created_at)
		 VALUES ($1, $2, $3, NOW()) RETURNING id, created_at`,
		comment.ArticleID, comment.AuthorID, comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

// ListByArticle returns a page of comments for one article, oldest first.
func (r *Repository) ListByArticle(ctx context.Context, articleID int64, limit, offset int) ([]Comment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE article_id = $1`, articleID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, article_id, author_id, body, created_at
		 FROM comments WHERE article_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`,
		articleID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Comment, 0, limit)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// Delete removes a comment.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
