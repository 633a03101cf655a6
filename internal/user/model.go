// File: internal/user/model.go
package user

import (
	"time"

	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/shared"

	"github.com/google/uuid"
)

// Profile represents a portal member in the database. The row is created
// lazily the first time an authenticated user performs a content action.
type Profile struct {
	common.BaseModel
	FirebaseUID      string  `gorm:"type:varchar(128);not null;uniqueIndex"`
	Email            *string `gorm:"type:varchar(255);uniqueIndex"`
	DisplayName      *string `gorm:"type:varchar(150)"`
	Role             string  `gorm:"type:varchar(50);not null;default:'user'"`
	StripeCustomerID *string `gorm:"column:stripe_customer_id;type:varchar(255);uniqueIndex"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// ToShared converts the GORM model to the shared representation used by
// middleware and other modules.
func ToShared(p *Profile) *shared.Profile {
	if p == nil {
		return nil
	}
	return &shared.Profile{
		ID:               p.ID,
		FirebaseUID:      p.FirebaseUID,
		Email:            p.Email,
		DisplayName:      p.DisplayName,
		Role:             p.Role,
		StripeCustomerID: p.StripeCustomerID,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// --- DTOs ---

// ProfileResponse defines the structure for profile data in API responses.
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       *string   `json:"email,omitempty"`
	DisplayName *string   `json:"display_name,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProfileResponse converts a shared.Profile to a ProfileResponse DTO.
// The Stripe customer reference is internal and never exposed.
func ToProfileResponse(p *shared.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// UpdateRoleRequest is the admin request to change a member's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user moderator admin"`
}

// AdminProfilesQuery holds filters for the admin profile list.
type AdminProfilesQuery struct {
	common.PaginationQuery
	Role string `form:"role" binding:"omitempty,oneof=user moderator admin"`
}
