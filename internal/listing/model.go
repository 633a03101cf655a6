// File: internal/listing/model.go
package listing

import (
	"time"

	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/user"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Kind distinguishes marketplace classifieds from business directory entries.
// Both share the same lifecycle; directory entries simply never carry a price.
type Kind string

const (
	KindClassified Kind = "classified"
	KindDirectory  Kind = "directory"
)

// Tier is the paid placement level of a listing.
type Tier string

const (
	TierStandard Tier = "standard"
	TierFeatured Tier = "featured"
	TierPremium  Tier = "premium"
	TierEnhanced Tier = "enhanced"
)

// Listing is the GORM model for a classified or directory listing.
type Listing struct {
	common.BaseModel
	Kind              Kind           `gorm:"type:varchar(20);not null;index" json:"kind"`
	OwnerID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner             *user.Profile  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title             string         `gorm:"type:varchar(255);not null" json:"title"`
	Description       string         `gorm:"type:text;not null" json:"description"`
	Category          string         `gorm:"type:varchar(100);not null;index" json:"category"`
	Price             *float64       `gorm:"type:decimal(10,3)" json:"price,omitempty"`
	IsPriceNegotiable bool           `gorm:"default:false" json:"is_price_negotiable"`
	Location          string         `gorm:"type:varchar(255);not null" json:"location"`
	ContactPhone      string         `gorm:"type:varchar(50);not null" json:"contact_phone"`
	ContactEmail      *string        `gorm:"type:varchar(255)" json:"contact_email,omitempty"`
	Images            pq.StringArray `gorm:"type:text[]" json:"images"`
	IsApproved        bool           `gorm:"default:false;index" json:"is_approved"`
	IsPublished       bool           `gorm:"default:true;index" json:"is_published"`
	ApprovedBy        *uuid.UUID     `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt        *time.Time     `json:"approved_at,omitempty"`
	RejectionReason   *string        `gorm:"type:text" json:"rejection_reason,omitempty"`
	Tier              Tier           `gorm:"type:varchar(20);not null;default:'standard';index" json:"tier"`
	FeaturedUntil     *time.Time     `json:"featured_until,omitempty"`
	Views             int64          `gorm:"default:0" json:"views"`
}

// TableName specifies the table name for the Listing model.
func (Listing) TableName() string {
	return "listings"
}

// IsVisible reports whether the listing may be shown on public pages. A
// listing appears publicly only once a moderator approved it and the owner
// has not unpublished it.
func (l *Listing) IsVisible() bool {
	return l.IsApproved && l.IsPublished
}

// --- DTOs ---

// CreateListingRequest carries the multipart form fields of a submission.
// Images arrive alongside it as multipart file parts.
type CreateListingRequest struct {
	Kind              Kind     `form:"kind" binding:"required,oneof=classified directory"`
	Title             string   `form:"title" binding:"required,min=3,max=255"`
	Description       string   `form:"description" binding:"required,min=10"`
	Category          string   `form:"category" binding:"required,max=100"`
	Price             *float64 `form:"price" binding:"omitempty,gte=0"`
	IsPriceNegotiable bool     `form:"is_price_negotiable"`
	Location          string   `form:"location" binding:"required,max=255"`
	ContactPhone      string   `form:"contact_phone" binding:"required,max=50"`
	ContactEmail      *string  `form:"contact_email" binding:"omitempty,email"`
	Tier              Tier     `form:"tier" binding:"omitempty,oneof=standard featured premium enhanced"`
}

// UpdateListingRequest carries the owner-editable fields. Moderation fields
// are never writable through this path.
type UpdateListingRequest struct {
	Title             *string  `json:"title" binding:"omitempty,min=3,max=255"`
	Description       *string  `json:"description" binding:"omitempty,min=10"`
	Category          *string  `json:"category" binding:"omitempty,max=100"`
	Price             *float64 `json:"price" binding:"omitempty,gte=0"`
	IsPriceNegotiable *bool    `json:"is_price_negotiable"`
	Location          *string  `json:"location" binding:"omitempty,max=255"`
	ContactPhone      *string  `json:"contact_phone" binding:"omitempty,max=50"`
	ContactEmail      *string  `json:"contact_email" binding:"omitempty,email"`
	IsPublished       *bool    `json:"is_published"`
}

// RejectListingRequest is the body of a moderation rejection.
type RejectListingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=1000"`
}

// PublicListingsQuery filters the public browse endpoint.
type PublicListingsQuery struct {
	Kind     Kind   `form:"kind" binding:"omitempty,oneof=classified directory"`
	Category string `form:"category" binding:"omitempty,max=100"`
	Search   string `form:"q" binding:"omitempty,max=200"`
	Page     int    `form:"-"`
	PageSize int    `form:"-"`
}

// ModerationQueueQuery filters the admin moderation endpoint.
type ModerationQueueQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved all"`
	Kind     Kind   `form:"kind" binding:"omitempty,oneof=classified directory"`
	Page     int    `form:"-"`
	PageSize int    `form:"-"`
}

// OwnerResponse is the slimmed owner block embedded in listing responses.
type OwnerResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName *string   `json:"display_name,omitempty"`
}

// ListingResponse is the API shape of a listing. Moderation bookkeeping is
// only included for the owner and back-office views.
type ListingResponse struct {
	ID                uuid.UUID      `json:"id"`
	Kind              Kind           `json:"kind"`
	Owner             *OwnerResponse `json:"owner,omitempty"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	Price             *float64       `json:"price,omitempty"`
	IsPriceNegotiable bool           `json:"is_price_negotiable"`
	Location          string         `json:"location"`
	ContactPhone      string         `json:"contact_phone"`
	ContactEmail      *string        `json:"contact_email,omitempty"`
	Images            []string       `json:"images"`
	Tier              Tier           `json:"tier"`
	FeaturedUntil     *time.Time     `json:"featured_until,omitempty"`
	Views             int64          `json:"views"`
	CreatedAt         time.Time      `json:"created_at"`

	// Lifecycle fields, omitted on public responses.
	IsApproved      *bool      `json:"is_approved,omitempty"`
	IsPublished     *bool      `json:"is_published,omitempty"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
}

// ToListingResponse converts a Listing model to its API representation.
// When includeModeration is true the lifecycle fields are included; public
// responses keep them hidden.
func ToListingResponse(l *Listing, includeModeration bool) ListingResponse {
	resp := ListingResponse{
		ID:                l.ID,
		Kind:              l.Kind,
		Title:             l.Title,
		Description:       l.Description,
		Category:          l.Category,
		Price:             l.Price,
		IsPriceNegotiable: l.IsPriceNegotiable,
		Location:          l.Location,
		ContactPhone:      l.ContactPhone,
		ContactEmail:      l.ContactEmail,
		Images:            append([]string{}, l.Images...),
		Tier:              l.Tier,
		FeaturedUntil:     l.FeaturedUntil,
		Views:             l.Views,
		CreatedAt:         l.CreatedAt,
	}
	if l.Owner != nil {
		resp.Owner = &OwnerResponse{ID: l.Owner.ID, DisplayName: l.Owner.DisplayName}
	}
	if includeModeration {
		approved := l.IsApproved
		published := l.IsPublished
		resp.IsApproved = &approved
		resp.IsPublished = &published
		resp.ApprovedBy = l.ApprovedBy
		resp.ApprovedAt = l.ApprovedAt
		resp.RejectionReason = l.RejectionReason
	}
	return resp
}

// ToListingResponses converts a slice of models.
func ToListingResponses(listings []Listing, includeModeration bool) []ListingResponse {
	responses := make([]ListingResponse, len(listings))
	for i := range listings {
		responses[i] = ToListingResponse(&listings[i], includeModeration)
	}
	return responses
}
