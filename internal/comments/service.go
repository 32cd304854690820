package comments

import (
	"context"
	"fmt"
	"strings"

	"github.com/gazette-news/gazette/internal/shared"
)

const maxBodyLength = 2000

// Service handles comment business logic.
type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create stores a comment by the given author.
func (s *Service) Create(ctx context.Context, articleID int64, authorID, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: body required", shared.ErrValidation)
	}
	if len(body) > maxBodyLength {
		return nil, fmt.Errorf("%w: body exceeds %d characters", shared.ErrValidation, maxBodyLength)
	}

	comment := &Comment{ArticleID: articleID, AuthorID: authorID, Body: body}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByArticle returns a page of comments plus the total.
func (s *Service) ListByArticle(ctx context.Context, articleID int64, limit, offset int) ([]Comment, int, error) {
	return s.repo.ListByArticle(ctx, articleID, limit, offset)
}

// Delete removes a comment.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
