// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"kuwait_portal_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error
	List(ctx context.Context, query AdminProfilesQuery) ([]Profile, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new profile record into the database.
func (r *gormRepository) Create(ctx context.Context, profile *Profile) error {
	if profile.Email != nil {
		*profile.Email = strings.ToLower(strings.TrimSpace(*profile.Email))
	}
	err := r.db.WithContext(ctx).Create(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A profile already exists for this account.")
		}
		return err
	}
	return nil
}

// FindByID retrieves a profile by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found with this ID.")
		}
		return nil, err
	}
	return &profile, nil
}

// FindByFirebaseUID retrieves a profile by its Firebase UID.
func (r *gormRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found for this account.")
		}
		return nil, err
	}
	return &profile, nil
}

// Update modifies an existing profile record.
func (r *gormRepository) Update(ctx context.Context, profile *Profile) error {
	if profile.Email != nil {
		*profile.Email = strings.ToLower(strings.TrimSpace(*profile.Email))
	}
	err := r.db.WithContext(ctx).Save(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("Update failed due to a conflict with another profile.")
		}
		return err
	}
	return nil
}

// SetStripeCustomerID persists the payment provider customer reference
// without touching the rest of the row.
func (r *gormRepository) SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	result := r.db.WithContext(ctx).
		Model(&Profile{}).
		Where("id = ?", id).
		Update("stripe_customer_id", customerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Profile not found with this ID.")
	}
	return nil
}

// List retrieves profiles for the admin back office, newest first.
func (r *gormRepository) List(ctx context.Context, query AdminProfilesQuery) ([]Profile, *common.Pagination, error) {
	var profiles []Profile
	var total int64

	tx := r.db.WithContext(ctx).Model(&Profile{})
	if query.Role != "" {
		tx = tx.Where("role = ?", query.Role)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	err := tx.Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&profiles).Error
	if err != nil {
		return nil, nil, err
	}

	return profiles, common.NewPagination(total, query.Page, query.PageSize), nil
}
