package articles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gazette-news/gazette/internal/shared"
)

type mockRepository struct {
	articles map[int64]*Article
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{articles: make(map[int64]*Article), nextID: 1}
}

func (m *mockRepository) Create(ctx context.Context, article *Article) error {
	for _, existing := range m.articles {
		if existing.Slug == article.Slug {
			return shared.ErrDuplicate
		}
	}
	article.ID = m.nextID
	m.nextID++
	copied := *article
	m.articles[article.ID] = &copied
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*Article, error) {
	article, ok := m.articles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *article
	return &copied, nil
}

func (m *mockRepository) ListPublished(ctx context.Context, limit, offset int) ([]Article, int, error) {
	out := make([]Article, 0, len(m.articles))
	for _, article := range m.articles {
		if article.Status == StatusPublished {
			out = append(out, *article)
		}
	}
	return out, len(out), nil
}

func (m *mockRepository) UpdateContent(ctx context.Context, id int64, title, slug, body string) error {
	article, ok := m.articles[id]
	if !ok {
		return shared.ErrNotFound
	}
	article.Title, article.Slug, article.Body = title, slug, body
	return nil
}

func (m *mockRepository) SetStatus(ctx context.Context, id int64, status Status) error {
	article, ok := m.articles[id]
	if !ok {
		return shared.ErrNotFound
	}
	article.Status = status
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.articles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.articles, id)
	return nil
}

func TestCreateSlugsTitle(t *testing.T) {
	service := NewService(newMockRepository())

	article, err := service.Create(context.Background(), CreateInput{
		Title:    "Grand Réouverture du Café",
		Body:     "The café on Main Street reopens today.",
		AuthorID: "u-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "grand-reouverture-du-cafe", article.Slug)
	assert.Equal(t, StatusDraft, article.Status)
	assert.Equal(t, "u-1", article.AuthorID)
}

func TestCreateRejectsBlankFields(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Create(context.Background(), CreateInput{Title: "   ", Body: "text"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = service.Create(context.Background(), CreateInput{Title: "Headline", Body: " "})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateDuplicateSlug(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Create(context.Background(), CreateInput{Title: "Same Story", Body: "one", AuthorID: "u-1"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), CreateInput{Title: "Same Story", Body: "two", AuthorID: "u-2"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateReslugs(t *testing.T) {
	service := NewService(newMockRepository())

	article, err := service.Create(context.Background(), CreateInput{Title: "Old Headline", Body: "body", AuthorID: "u-1"})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), article.ID, UpdateInput{Title: "New Headline", Body: "revised"})
	require.NoError(t, err)
	assert.Equal(t, "new-headline", updated.Slug)
	assert.Equal(t, "revised", updated.Body)

	_, err = service.Update(context.Background(), 999, UpdateInput{Title: "x y z", Body: "b"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestApprovePublishesDraft(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	article, err := service.Create(context.Background(), CreateInput{Title: "Draft Story", Body: "body", AuthorID: "u-1"})
	require.NoError(t, err)

	published, err := service.Approve(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, published.Status)

	// Approving twice is a no-op.
	again, err := service.Approve(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, again.Status)
}

func TestApproveMissingArticle(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Approve(context.Background(), 42)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteWorksOnAnyStatus(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	draft, err := service.Create(context.Background(), CreateInput{Title: "Kill Me", Body: "body", AuthorID: "u-1"})
	require.NoError(t, err)
	published, err := service.Create(context.Background(), CreateInput{Title: "Kill Me Too", Body: "body", AuthorID: "u-1"})
	require.NoError(t, err)
	_, err = service.Approve(context.Background(), published.ID)
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), draft.ID))
	require.NoError(t, service.Delete(context.Background(), published.ID))

	_, err = service.Get(context.Background(), draft.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListPublishedSkipsDrafts(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	_, err := service.Create(context.Background(), CreateInput{Title: "Still a Draft", Body: "body", AuthorID: "u-1"})
	require.NoError(t, err)
	story, err := service.Create(context.Background(), CreateInput{Title: "Front Page", Body: "body", AuthorID: "u-1"})
	require.NoError(t, err)
	_, err = service.Approve(context.Background(), story.ID)
	require.NoError(t, err)

	items, total, err := service.ListPublished(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "front-page", items[0].Slug)
}
