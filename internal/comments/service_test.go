package comments

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gazette-news/gazette/internal/shared"
)

type mockRepository struct {
	comments map[int64]*Comment
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{comments: make(map[int64]*Comment), nextID: 1}
}

func (m *mockRepository) Create(ctx context.Context, comment *Comment) error {
	comment.ID = m.nextID
	m.nextID++
	copied := *comment
	m.comments[comment.ID] = &copied
	return nil
}

func (m *mockRepository) ListByArticle(ctx context.Context, articleID int64, limit, offset int) ([]Comment, int, error) {
	out := make([]Comment, 0, len(m.comments))
	for _, c := range m.comments {
		if c.ArticleID == articleID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.comments[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func TestCreateTrimsBody(t *testing.T) {
	service := NewService(newMockRepository())

	comment, err := service.Create(context.Background(), 1, "u-1", "  nice piece  ")
	require.NoError(t, err)
	assert.Equal(t, "nice piece", comment.Body)
	assert.Equal(t, "u-1", comment.AuthorID)
}

func TestCreateValidatesBody(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Create(context.Background(), 1, "u-1", "   ")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = service.Create(context.Background(), 1, "u-1", strings.Repeat("x", maxBodyLength+1))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteMissingComment(t *testing.T) {
	service := NewService(newMockRepository())

	err := service.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListByArticleFiltersOtherArticles(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Create(context.Background(), 1, "u-1", "first")
	require.NoError(t, err)
	_, err = service.Create(context.Background(), 2, "u-1", "other thread")
	require.NoError(t, err)

	items, total, err := service.ListByArticle(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "first", items[0].Body)
}
