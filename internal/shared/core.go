// File: internal/shared/core.go
package shared

import (
	"context"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// Profile represents a portal member as seen by the rest of the system.
// The FirebaseUID ties it to the external auth provider's user id.
type Profile struct {
	ID               uuid.UUID
	FirebaseUID      string
	Email            *string
	DisplayName      *string
	Role             string
	StripeCustomerID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Service defines the profile lookups required by middleware and other
// modules. Profiles are created lazily on first authenticated action.
type Service interface {
	GetProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*Profile, error)
	GetOrCreateProfileFromFirebaseClaims(ctx context.Context, token *firebaseauth.Token) (profile *Profile, wasCreated bool, err error)
}
