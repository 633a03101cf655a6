// File: internal/notification/model.go
package notification

import (
	"time"

	"kuwait_portal_backend/internal/common"

	"github.com/google/uuid"
)

// Type enumerates the notification kinds the portal emits.
type Type string

const (
	TypeListingSubmitted Type = "listing_submitted"
	TypeListingApproved  Type = "listing_approved"
	TypeListingRejected  Type = "listing_rejected"
	TypePlacementExpired Type = "placement_expired"
)

// Notification is an in-app message addressed to a single member.
type Notification struct {
	common.BaseModel
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type             Type       `gorm:"type:varchar(50);not null" json:"type"`
	Message          string     `gorm:"type:text;not null" json:"message"`
	RelatedListingID *uuid.UUID `gorm:"type:uuid" json:"related_listing_id,omitempty"`
	IsRead           bool       `gorm:"default:false;index" json:"is_read"`
}

// TableName specifies the table name for the Notification model.
func (Notification) TableName() string {
	return "notifications"
}

// Response is the API shape of a notification.
type Response struct {
	ID               uuid.UUID  `json:"id"`
	Type             Type       `json:"type"`
	Message          string     `json:"message"`
	RelatedListingID *uuid.UUID `json:"related_listing_id,omitempty"`
	IsRead           bool       `json:"is_read"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToResponse converts a Notification model to its API representation.
func ToResponse(n *Notification) Response {
	return Response{
		ID:               n.ID,
		Type:             n.Type,
		Message:          n.Message,
		RelatedListingID: n.RelatedListingID,
		IsRead:           n.IsRead,
		CreatedAt:        n.CreatedAt,
	}
}
