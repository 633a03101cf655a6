// File: internal/notification/service_test.go
package notification

import (
	"context"
	"errors"
	"testing"

	"kuwait_portal_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock type for notification.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, n *Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Notification), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockRepository) FindByID(ctx context.Context, notificationID, userID uuid.UUID) (*Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *MockRepository) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_GetNotification(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	notificationID := uuid.New()
	userID := uuid.New()
	repo.On("FindByID", mock.Anything, notificationID, userID).Return(&Notification{
		UserID:  userID,
		Type:    TypeListingApproved,
		Message: "Your listing was approved.",
	}, nil)

	resp, err := svc.GetNotification(context.Background(), notificationID, userID)

	assert.NoError(t, err)
	assert.Equal(t, TypeListingApproved, resp.Type)
	assert.Equal(t, "Your listing was approved.", resp.Message)
	repo.AssertExpectations(t)
}

func TestService_GetNotification_OtherMembersRecordIsNotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	notificationID := uuid.New()
	userID := uuid.New()
	repo.On("FindByID", mock.Anything, notificationID, userID).
		Return(nil, common.ErrNotFound.WithDetails("Notification not found."))

	_, err := svc.GetNotification(context.Background(), notificationID, userID)

	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrNotFound.StatusCode, apiErr.StatusCode)
}

func TestService_Notify_SwallowsRepositoryErrors(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("Create", mock.Anything, mock.AnythingOfType("*notification.Notification")).
		Return(errors.New("insert failed"))

	// Notify never surfaces the failure to the triggering request.
	svc.Notify(context.Background(), uuid.New(), TypeListingSubmitted, "Listing received.", nil)
	repo.AssertExpectations(t)
}
