// File: internal/article/model.go
package article

import (
	"time"

	"kuwait_portal_backend/internal/common"

	"github.com/google/uuid"
)

// Section groups editorial articles on the public site.
type Section string

const (
	SectionNews   Section = "news"
	SectionEvents Section = "events"
)

// Article is an editorial page written by the portal staff.
type Article struct {
	common.BaseModel
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string     `gorm:"type:varchar(300);not null;uniqueIndex" json:"slug"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	Section     Section    `gorm:"type:varchar(20);not null;index" json:"section"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	IsPublished bool       `gorm:"default:false;index" json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// TableName specifies the table name for the Article model.
func (Article) TableName() string {
	return "articles"
}

// CreateArticleRequest is the admin payload for a new article.
type CreateArticleRequest struct {
	Title   string  `json:"title" binding:"required,min=3,max=255"`
	Body    string  `json:"body" binding:"required,min=10"`
	Section Section `json:"section" binding:"required,oneof=news events"`
}

// UpdateArticleRequest is the admin payload for editing an article.
type UpdateArticleRequest struct {
	Title   *string  `json:"title" binding:"omitempty,min=3,max=255"`
	Body    *string  `json:"body" binding:"omitempty,min=10"`
	Section *Section `json:"section" binding:"omitempty,oneof=news events"`
}

// PublicArticlesQuery filters the public article list.
type PublicArticlesQuery struct {
	Section  Section `form:"section" binding:"omitempty,oneof=news events"`
	Page     int     `form:"-"`
	PageSize int     `form:"-"`
}

// Response is the API shape of an article.
type Response struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Section     Section    `json:"section"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToResponse converts an Article model to its API representation.
func ToResponse(a *Article) Response {
	return Response{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Body:        a.Body,
		Section:     a.Section,
		IsPublished: a.IsPublished,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ToResponses converts a slice of models.
func ToResponses(articles []Article) []Response {
	responses := make([]Response, len(articles))
	for i := range articles {
		responses[i] = ToResponse(&articles[i])
	}
	return responses
}
