// File: internal/article/service_test.go
package article

import (
	"context"
	"testing"

	"kuwait_portal_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock type for article.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, article *Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Article), args.Error(1)
}

func (m *MockRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Article), args.Error(1)
}

func (m *MockRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, article *Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListPublished(ctx context.Context, query PublicArticlesQuery) ([]Article, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Article), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockRepository) ListAll(ctx context.Context, page, pageSize int) ([]Article, *common.Pagination, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Article), args.Get(1).(*common.Pagination), args.Error(2)
}

func TestService_CreateArticle_SlugFromTitle(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("SlugExists", mock.Anything, "ramadan-opening-hours-2026").Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*article.Article")).Return(nil)

	article, err := svc.CreateArticle(context.Background(), uuid.New(), CreateArticleRequest{
		Title:   "Ramadan Opening Hours 2026",
		Body:    "Updated opening hours for government services.",
		Section: SectionNews,
	})

	assert.NoError(t, err)
	assert.Equal(t, "ramadan-opening-hours-2026", article.Slug)
	assert.False(t, article.IsPublished)
	assert.Nil(t, article.PublishedAt)
}

func TestService_CreateArticle_SlugCollisionGetsSuffix(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("SlugExists", mock.Anything, "weekend-market").Return(true, nil)
	repo.On("SlugExists", mock.Anything, "weekend-market-2").Return(true, nil)
	repo.On("SlugExists", mock.Anything, "weekend-market-3").Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*article.Article")).Return(nil)

	article, err := svc.CreateArticle(context.Background(), uuid.New(), CreateArticleRequest{
		Title:   "Weekend Market",
		Body:    "The weekend market returns to the waterfront.",
		Section: SectionEvents,
	})

	assert.NoError(t, err)
	assert.Equal(t, "weekend-market-3", article.Slug)
}

func TestService_SetPublished_StampsFirstPublication(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(&Article{}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*article.Article")).Return(nil)

	article, err := svc.SetPublished(context.Background(), id, true)

	assert.NoError(t, err)
	assert.True(t, article.IsPublished)
	assert.NotNil(t, article.PublishedAt)

	firstPublishedAt := article.PublishedAt

	// Unpublish and republish: the original publication time survives.
	repo2 := new(MockRepository)
	svc2 := NewService(repo2, zap.NewNop())
	repo2.On("FindByID", mock.Anything, id).Return(&Article{IsPublished: true, PublishedAt: firstPublishedAt}, nil)
	repo2.On("Update", mock.Anything, mock.AnythingOfType("*article.Article")).Return(nil)

	article, err = svc2.SetPublished(context.Background(), id, true)
	assert.NoError(t, err)
	assert.Equal(t, firstPublishedAt, article.PublishedAt)
}

func TestService_GetPublishedBySlug_DraftIsHidden(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("FindBySlug", mock.Anything, "draft-post").Return(&Article{IsPublished: false}, nil)

	article, err := svc.GetPublishedBySlug(context.Background(), "draft-post")

	assert.Nil(t, article)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrNotFound.StatusCode, apiErr.StatusCode)
}
