// File: internal/article/service.go
package article

import (
	"context"
	"fmt"
	"time"

	"kuwait_portal_backend/internal/common"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the article operations.
type Service interface {
	CreateArticle(ctx context.Context, authorID uuid.UUID, req CreateArticleRequest) (*Article, error)
	UpdateArticle(ctx context.Context, id uuid.UUID, req UpdateArticleRequest) (*Article, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*Article, error)
	DeleteArticle(ctx context.Context, id uuid.UUID) error
	GetPublishedBySlug(ctx context.Context, slugValue string) (*Article, error)
	ListPublished(ctx context.Context, query PublicArticlesQuery) ([]Article, *common.Pagination, error)
	ListAll(ctx context.Context, page, pageSize int) ([]Article, *common.Pagination, error)
}

// ServiceImplementation implements the Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new article service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImplementation{repo: repo, logger: logger}
}

// CreateArticle creates a draft article with a URL slug derived from the
// title. Slug collisions get a numeric suffix.
func (s *ServiceImplementation) CreateArticle(ctx context.Context, authorID uuid.UUID, req CreateArticleRequest) (*Article, error) {
	slugValue, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, common.ErrInternalServer.WithDetails("Could not generate a slug for the article.")
	}

	article := &Article{
		Title:    req.Title,
		Slug:     slugValue,
		Body:     req.Body,
		Section:  req.Section,
		AuthorID: authorID,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		s.logger.Error("Failed to create article", zap.String("slug", slugValue), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Article created", zap.String("articleID", article.ID.String()), zap.String("slug", slugValue))
	return article, nil
}

// uniqueSlug slugifies the title and appends -2, -3, ... until unused.
func (s *ServiceImplementation) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// UpdateArticle applies edits. The slug follows a title change so public
// URLs always reflect the current title.
func (s *ServiceImplementation) UpdateArticle(ctx context.Context, id uuid.UUID, req UpdateArticleRequest) (*Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != article.Title {
		article.Title = *req.Title
		newSlug, slugErr := s.uniqueSlug(ctx, article.Title)
		if slugErr != nil {
			return nil, common.ErrInternalServer.WithDetails("Could not generate a slug for the article.")
		}
		article.Slug = newSlug
	}
	if req.Body != nil {
		article.Body = *req.Body
	}
	if req.Section != nil {
		article.Section = *req.Section
	}

	if err := s.repo.Update(ctx, article); err != nil {
		s.logger.Error("Failed to update article", zap.String("articleID", id.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update the article.")
	}
	return article, nil
}

// SetPublished publishes or unpublishes an article. First publication
// stamps PublishedAt.
func (s *ServiceImplementation) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	article.IsPublished = published
	if published && article.PublishedAt == nil {
		now := time.Now().UTC()
		article.PublishedAt = &now
	}

	if err := s.repo.Update(ctx, article); err != nil {
		s.logger.Error("Failed to change article publication", zap.String("articleID", id.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update the article.")
	}

	s.logger.Info("Article publication changed",
		zap.String("articleID", id.String()),
		zap.Bool("published", published),
	)
	return article, nil
}

// DeleteArticle removes an article.
func (s *ServiceImplementation) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// GetPublishedBySlug returns a published article by its public URL slug.
// Drafts answer 404.
func (s *ServiceImplementation) GetPublishedBySlug(ctx context.Context, slugValue string) (*Article, error) {
	article, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished {
		return nil, common.ErrNotFound.WithDetails("Article not found.")
	}
	return article, nil
}

// ListPublished returns published articles for the public site.
func (s *ServiceImplementation) ListPublished(ctx context.Context, query PublicArticlesQuery) ([]Article, *common.Pagination, error) {
	articles, pagination, err := s.repo.ListPublished(ctx, query)
	if err != nil {
		s.logger.Error("Failed to list published articles", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve articles.")
	}
	return articles, pagination, nil
}

// ListAll returns every article for the back office.
func (s *ServiceImplementation) ListAll(ctx context.Context, page, pageSize int) ([]Article, *common.Pagination, error) {
	articles, pagination, err := s.repo.ListAll(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list articles", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve articles.")
	}
	return articles, pagination, nil
}
