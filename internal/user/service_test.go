// File: internal/user/service_test.go
package user

import (
	"context"
	"encoding/json"
	"testing"

	"kuwait_portal_backend/internal/common"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock type for user.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, profile *Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*Profile, error) {
	args := m.Called(ctx, firebaseUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, profile *Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockRepository) SetStripeCustomerID(ctx context.Context, id uuid.UUID, stripeCustomerID string) error {
	args := m.Called(ctx, id, stripeCustomerID)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, query AdminProfilesQuery) ([]Profile, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Profile), args.Get(1).(*common.Pagination), args.Error(2)
}

func firebaseToken(uid, email, name string) *firebaseauth.Token {
	claims := map[string]interface{}{}
	if email != "" {
		claims["email"] = email
	}
	if name != "" {
		claims["name"] = name
	}
	return &firebaseauth.Token{UID: uid, Claims: claims}
}

func TestService_GetOrCreate_ExistingProfile(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	existing := &Profile{FirebaseUID: "fb-123", Role: common.RoleUser}
	repo.On("FindByFirebaseUID", mock.Anything, "fb-123").Return(existing, nil)

	profile, wasCreated, err := svc.GetOrCreateProfileFromFirebaseClaims(context.Background(), firebaseToken("fb-123", "", ""))

	assert.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, "fb-123", profile.FirebaseUID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_GetOrCreate_CreatesOnFirstContact(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("FindByFirebaseUID", mock.Anything, "fb-new").
		Return(nil, common.ErrNotFound.WithDetails("Profile not found."))
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.Profile")).Return(nil)

	profile, wasCreated, err := svc.GetOrCreateProfileFromFirebaseClaims(
		context.Background(), firebaseToken("fb-new", "new@example.com", "New Member"))

	assert.NoError(t, err)
	assert.True(t, wasCreated)
	assert.Equal(t, common.RoleUser, profile.Role)
	assert.NotNil(t, profile.Email)
	assert.Equal(t, "new@example.com", *profile.Email)
	assert.NotNil(t, profile.DisplayName)
	assert.Equal(t, "New Member", *profile.DisplayName)
}

func TestService_GetOrCreate_RecoversFromCreateRace(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	raced := &Profile{FirebaseUID: "fb-race", Role: common.RoleUser}
	repo.On("FindByFirebaseUID", mock.Anything, "fb-race").
		Return(nil, common.ErrNotFound.WithDetails("Profile not found.")).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.Profile")).
		Return(common.ErrConflict.WithDetails("Profile already exists."))
	repo.On("FindByFirebaseUID", mock.Anything, "fb-race").Return(raced, nil).Once()

	profile, wasCreated, err := svc.GetOrCreateProfileFromFirebaseClaims(context.Background(), firebaseToken("fb-race", "", ""))

	assert.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, "fb-race", profile.FirebaseUID)
}

func TestService_UpdateRole_BlocksSelfDemotion(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	adminID := uuid.New()
	updated, err := svc.UpdateRole(context.Background(), adminID, adminID, common.RoleUser)

	assert.Nil(t, updated)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrBadRequest.StatusCode, apiErr.StatusCode)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestToProfileResponse_HidesStripeCustomer(t *testing.T) {
	stripeID := "cus_123"
	profile := &Profile{FirebaseUID: "fb-1", Role: common.RoleUser, StripeCustomerID: &stripeID}

	body, err := json.Marshal(ToProfileResponse(ToShared(profile)))

	assert.NoError(t, err)
	// The Stripe customer id is internal billing state and never leaves the API.
	assert.NotContains(t, string(body), "cus_123")
	assert.NotContains(t, string(body), "stripe")
}
