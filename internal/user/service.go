// File: internal/user/service.go
package user

import (
	"context"
	"errors"

	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/shared"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service interface plus the
// admin-facing profile operations.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, logger: logger}
}

// GetProfileByID retrieves a profile by its portal ID.
func (s *ServiceImplementation) GetProfileByID(ctx context.Context, id uuid.UUID) (*shared.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToShared(profile), nil
}

// GetProfileByFirebaseUID retrieves a profile by the auth provider's user id.
func (s *ServiceImplementation) GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.Profile, error) {
	profile, err := s.repo.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	return ToShared(profile), nil
}

// GetOrCreateProfileFromFirebaseClaims resolves the local profile for a
// verified Firebase token, creating it on first contact.
func (s *ServiceImplementation) GetOrCreateProfileFromFirebaseClaims(ctx context.Context, token *firebaseauth.Token) (*shared.Profile, bool, error) {
	existing, err := s.repo.FindByFirebaseUID(ctx, token.UID)
	if err == nil {
		return ToShared(existing), false, nil
	}
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != common.ErrNotFound.StatusCode {
		return nil, false, err
	}

	profile := &Profile{
		FirebaseUID: token.UID,
		Role:        common.RoleUser,
	}
	if email, ok := token.Claims["email"].(string); ok && email != "" {
		profile.Email = &email
	}
	if name, ok := token.Claims["name"].(string); ok && name != "" {
		profile.DisplayName = &name
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		// A concurrent first request may have created the row already.
		if conflict, ok := common.IsAPIError(err); ok && conflict.StatusCode == common.ErrConflict.StatusCode {
			raced, findErr := s.repo.FindByFirebaseUID(ctx, token.UID)
			if findErr == nil {
				return ToShared(raced), false, nil
			}
		}
		s.logger.Error("Failed to lazily create profile", zap.String("firebaseUID", token.UID), zap.Error(err))
		return nil, false, err
	}

	s.logger.Info("Profile created on first authenticated action",
		zap.String("profileID", profile.ID.String()),
		zap.String("firebaseUID", token.UID),
	)
	return ToShared(profile), true, nil
}

// ListProfiles returns profiles for the admin back office.
func (s *ServiceImplementation) ListProfiles(ctx context.Context, query AdminProfilesQuery) ([]ProfileResponse, *common.Pagination, error) {
	profiles, pagination, err := s.repo.List(ctx, query)
	if err != nil {
		s.logger.Error("Failed to list profiles", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve profiles.")
	}

	responses := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = ToProfileResponse(ToShared(&profiles[i]))
	}
	return responses, pagination, nil
}

// UpdateRole changes a member's role. Admins cannot demote themselves, which
// keeps at least one admin reachable.
func (s *ServiceImplementation) UpdateRole(ctx context.Context, actingAdminID, profileID uuid.UUID, role string) (*shared.Profile, error) {
	if actingAdminID == profileID && role != common.RoleAdmin {
		return nil, common.ErrBadRequest.WithDetails("You cannot remove your own admin role.")
	}

	profile, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.Role = role
	if err := s.repo.Update(ctx, profile); err != nil {
		s.logger.Error("Failed to update profile role",
			zap.String("profileID", profileID.String()),
			zap.String("role", role),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Profile role updated",
		zap.String("profileID", profileID.String()),
		zap.String("role", role),
		zap.String("actingAdminID", actingAdminID.String()),
	)
	return ToShared(profile), nil
}
