// File: internal/listing/repository.go
package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kuwait_portal_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the data access methods for listings.
type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	SearchVisible(ctx context.Context, query PublicListingsQuery) ([]Listing, *common.Pagination, error)
	FindVisibleByIDs(ctx context.Context, ids []uuid.UUID) ([]Listing, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Listing, *common.Pagination, error)
	ModerationList(ctx context.Context, query ModerationQueueQuery) ([]Listing, *common.Pagination, error)
	SetApproved(ctx context.Context, id, moderatorID uuid.UUID, approvedAt, featuredUntil *time.Time) error
	SetRejected(ctx context.Context, id uuid.UUID, reason string) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	ClearExpiredPlacements(ctx context.Context, now time.Time) ([]Listing, error)
	FindBatch(ctx context.Context, offset, limit int) ([]Listing, error)
}

// GORMRepository implements the Repository interface using GORM.
type GORMRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM listing repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &GORMRepository{db: db}
}

// Create inserts a new listing into the database.
func (r *GORMRepository) Create(ctx context.Context, listing *Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// FindByID retrieves a listing by its ID regardless of visibility. Used by
// owner and moderation paths.
func (r *GORMRepository) FindByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var listing Listing
	err := r.db.WithContext(ctx).Preload("Owner").First(&listing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Listing not found.")
		}
		return nil, fmt.Errorf("failed to find listing %s: %w", id, err)
	}
	return &listing, nil
}

// Update saves the full listing record.
func (r *GORMRepository) Update(ctx context.Context, listing *Listing) error {
	if err := r.db.WithContext(ctx).Save(listing).Error; err != nil {
		return fmt.Errorf("failed to update listing %s: %w", listing.ID, err)
	}
	return nil
}

// Delete removes a listing.
func (r *GORMRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Listing{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Listing not found.")
	}
	return nil
}

// SearchVisible returns publicly visible listings, newest first, with paid
// placements sorted ahead of standard ones.
func (r *GORMRepository) SearchVisible(ctx context.Context, query PublicListingsQuery) ([]Listing, *common.Pagination, error) {
	var listings []Listing
	var total int64

	base := r.db.WithContext(ctx).Model(&Listing{}).
		Where("is_approved = ? AND is_published = ?", true, true)
	if query.Kind != "" {
		base = base.Where("kind = ?", query.Kind)
	}
	if query.Category != "" {
		base = base.Where("category = ?", query.Category)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		base = base.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting visible listings failed: %w", err)
	}
	pagination := common.NewPagination(total, query.Page, query.PageSize)

	err := base.Preload("Owner").
		Order("CASE WHEN tier <> 'standard' AND (featured_until IS NULL OR featured_until > NOW()) THEN 0 ELSE 1 END").
		Order("created_at DESC").
		Limit(query.PageSize).
		Offset((query.Page - 1) * query.PageSize).
		Find(&listings).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching visible listings failed: %w", err)
	}
	return listings, pagination, nil
}

// FindVisibleByIDs retrieves the visible listings among the given IDs,
// preserving the input order. Backs search-engine result hydration.
func (r *GORMRepository) FindVisibleByIDs(ctx context.Context, ids []uuid.UUID) ([]Listing, error) {
	if len(ids) == 0 {
		return []Listing{}, nil
	}
	var listings []Listing
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("id IN ? AND is_approved = ? AND is_published = ?", ids, true, true).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("fetching listings by ids failed: %w", err)
	}

	byID := make(map[uuid.UUID]*Listing, len(listings))
	for i := range listings {
		byID[listings[i].ID] = &listings[i]
	}
	ordered := make([]Listing, 0, len(listings))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			ordered = append(ordered, *l)
		}
	}
	return ordered, nil
}

// FindByOwner returns all of an owner's listings, newest first, including
// pending and rejected ones.
func (r *GORMRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Listing, *common.Pagination, error) {
	var listings []Listing
	var total int64

	base := r.db.WithContext(ctx).Model(&Listing{}).Where("owner_id = ?", ownerID)
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting listings for owner %s failed: %w", ownerID, err)
	}
	pagination := common.NewPagination(total, page, pageSize)

	err := base.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&listings).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching listings for owner %s failed: %w", ownerID, err)
	}
	return listings, pagination, nil
}

// ModerationList returns listings for the back office, newest first for
// every status filter. Pending is anything not yet approved, rejected
// submissions included, so moderators can revisit them.
func (r *GORMRepository) ModerationList(ctx context.Context, query ModerationQueueQuery) ([]Listing, *common.Pagination, error) {
	var listings []Listing
	var total int64

	base := r.db.WithContext(ctx).Model(&Listing{})
	switch query.Status {
	case "approved":
		base = base.Where("is_approved = ?", true)
	case "all":
		// no status filter
	default: // "pending" and the zero value
		base = base.Where("is_approved = ?", false)
	}
	if query.Kind != "" {
		base = base.Where("kind = ?", query.Kind)
	}

	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting moderation listings failed: %w", err)
	}
	pagination := common.NewPagination(total, query.Page, query.PageSize)

	err := base.Preload("Owner").
		Order("created_at DESC").
		Limit(query.PageSize).
		Offset((query.Page - 1) * query.PageSize).
		Find(&listings).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching moderation listings failed: %w", err)
	}
	return listings, pagination, nil
}

// SetApproved records a moderator's approval. Any earlier rejection reason
// is left untouched on purpose, matching how the back office audits
// re-reviewed items.
func (r *GORMRepository) SetApproved(ctx context.Context, id, moderatorID uuid.UUID, approvedAt, featuredUntil *time.Time) error {
	updates := map[string]interface{}{
		"is_approved": true,
		"approved_by": moderatorID,
		"approved_at": approvedAt,
	}
	if featuredUntil != nil {
		updates["featured_until"] = featuredUntil
	}
	result := r.db.WithContext(ctx).Model(&Listing{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to approve listing %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Listing not found.")
	}
	return nil
}

// SetRejected records a moderation rejection and clears any earlier
// approval bookkeeping.
func (r *GORMRepository) SetRejected(ctx context.Context, id uuid.UUID, reason string) error {
	result := r.db.WithContext(ctx).Model(&Listing{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_approved":      false,
		"approved_by":      nil,
		"approved_at":      nil,
		"rejection_reason": reason,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to reject listing %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Listing not found.")
	}
	return nil
}

// IncrementViews bumps the view counter atomically in the database, so
// concurrent page views never lose counts.
func (r *GORMRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&Listing{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to increment views for listing %s: %w", id, err)
	}
	return nil
}

// ClearExpiredPlacements reverts paid tiers whose placement window has
// passed back to standard. Returns the downgraded listings so callers can
// notify the owners.
func (r *GORMRepository) ClearExpiredPlacements(ctx context.Context, now time.Time) ([]Listing, error) {
	var expired []Listing
	result := r.db.WithContext(ctx).Model(&expired).
		Clauses(clause.Returning{}).
		Where("tier <> ? AND featured_until IS NOT NULL AND featured_until <= ?", TierStandard, now).
		Updates(map[string]interface{}{
			"tier":           TierStandard,
			"featured_until": nil,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to clear expired placements: %w", result.Error)
	}
	return expired, nil
}

// FindBatch pages through all listings in primary key order. Used by the
// search index sync command.
func (r *GORMRepository) FindBatch(ctx context.Context, offset, limit int) ([]Listing, error) {
	var listings []Listing
	err := r.db.WithContext(ctx).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("fetching listing batch failed: %w", err)
	}
	return listings, nil
}
