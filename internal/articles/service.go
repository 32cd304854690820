package articles

import (
	"context"
	"fmt"
	"strings"

	"github.com/gazette-news/gazette/internal/platform/slug"
	"github.com/gazette-news/gazette/internal/shared"
)

// Service handles article business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateInput holds the fields of a new draft.
type CreateInput struct {
	Title    string
	Body     string
	AuthorID string
}

// Create stores a new draft with a slug derived from the title.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", shared.ErrValidation)
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, fmt.Errorf("%w: body required", shared.ErrValidation)
	}

	article := &Article{
		Title:    title,
		Slug:     slug.Make(title),
		Body:     input.Body,
		AuthorID: input.AuthorID,
		Status:   StatusDraft,
	}
	if article.Slug == "" {
		return nil, fmt.Errorf("%w: title yields an empty slug", shared.ErrValidation)
	}
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Approve publishes a draft.
func (s *Service) Approve(ctx context.Context, id int64) (*Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Status == StatusPublished {
		return article, nil
	}
	if err := s.repo.SetStatus(ctx, id, StatusPublished); err != nil {
		return nil, err
	}
	article.Status = StatusPublished
	return article, nil
}

// UpdateInput holds the replacement fields for an article revision.
type UpdateInput struct {
	Title string
	Body  string
}

// Update revises an article's content. The slug follows the title.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", shared.ErrValidation)
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, fmt.Errorf("%w: body required", shared.ErrValidation)
	}

	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	article.Title = title
	article.Slug = slug.Make(title)
	article.Body = input.Body
	if err := s.repo.UpdateContent(ctx, id, article.Title, article.Slug, article.Body); err != nil {
		return nil, err
	}
	return article, nil
}

// Get fetches a single article by id.
func (s *Service) Get(ctx context.Context, id int64) (*Article, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes an article regardless of status.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ListPublished returns a page of published articles plus the total.
func (s *Service) ListPublished(ctx context.Context, limit, offset int) ([]Article, int, error) {
	return s.repo.ListPublished(ctx, limit, offset)
}
