// File: internal/article/repository.go
package article

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kuwait_portal_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the data access methods for articles.
type Repository interface {
	Create(ctx context.Context, article *Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListPublished(ctx context.Context, query PublicArticlesQuery) ([]Article, *common.Pagination, error)
	ListAll(ctx context.Context, page, pageSize int) ([]Article, *common.Pagination, error)
}

// GORMRepository implements the Repository interface using GORM.
type GORMRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM article repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &GORMRepository{db: db}
}

// Create inserts a new article.
func (r *GORMRepository) Create(ctx context.Context, article *Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return common.ErrConflict.WithDetails("An article with this slug already exists.")
		}
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// FindByID retrieves an article by its ID.
func (r *GORMRepository) FindByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	var article Article
	err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Article not found.")
		}
		return nil, fmt.Errorf("failed to find article %s: %w", id, err)
	}
	return &article, nil
}

// FindBySlug retrieves an article by its slug.
func (r *GORMRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	var article Article
	err := r.db.WithContext(ctx).First(&article, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Article not found.")
		}
		return nil, fmt.Errorf("failed to find article by slug %q: %w", slug, err)
	}
	return &article, nil
}

// SlugExists reports whether a slug is already taken.
func (r *GORMRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Article{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check slug %q: %w", slug, err)
	}
	return count > 0, nil
}

// Update saves the full article record.
func (r *GORMRepository) Update(ctx context.Context, article *Article) error {
	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		return fmt.Errorf("failed to update article %s: %w", article.ID, err)
	}
	return nil
}

// Delete removes an article.
func (r *GORMRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Article{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete article %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Article not found.")
	}
	return nil
}

// ListPublished returns published articles for the public site, most
// recently published first.
func (r *GORMRepository) ListPublished(ctx context.Context, query PublicArticlesQuery) ([]Article, *common.Pagination, error) {
	var articles []Article
	var total int64

	base := r.db.WithContext(ctx).Model(&Article{}).Where("is_published = ?", true)
	if query.Section != "" {
		base = base.Where("section = ?", query.Section)
	}

	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting published articles failed: %w", err)
	}
	pagination := common.NewPagination(total, query.Page, query.PageSize)

	err := base.Order("published_at DESC").
		Limit(query.PageSize).
		Offset((query.Page - 1) * query.PageSize).
		Find(&articles).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching published articles failed: %w", err)
	}
	return articles, pagination, nil
}

// ListAll returns every article for the back office, newest first.
func (r *GORMRepository) ListAll(ctx context.Context, page, pageSize int) ([]Article, *common.Pagination, error) {
	var articles []Article
	var total int64

	base := r.db.WithContext(ctx).Model(&Article{})
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting articles failed: %w", err)
	}
	pagination := common.NewPagination(total, page, pageSize)

	err := base.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching articles failed: %w", err)
	}
	return articles, pagination, nil
}
