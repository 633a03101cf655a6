// File: internal/notification/service.go
package notification

import (
	"context"

	"kuwait_portal_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the notification operations used by the rest of the
// application. Notify is fire-and-forget from the caller's perspective: a
// failed insert is logged, never surfaced to the triggering request.
type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType Type, message string, relatedListingID *uuid.UUID)
	GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Response, *common.Pagination, error)
	GetNotification(ctx context.Context, notificationID, userID uuid.UUID) (*Response, error)
	MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ServiceImplementation implements the Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImplementation{repo: repo, logger: logger}
}

// Notify records an in-app notification for a member.
func (s *ServiceImplementation) Notify(ctx context.Context, userID uuid.UUID, notifType Type, message string, relatedListingID *uuid.UUID) {
	n := &Notification{
		UserID:           userID,
		Type:             notifType,
		Message:          message,
		RelatedListingID: relatedListingID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to record notification",
			zap.String("userID", userID.String()),
			zap.String("type", string(notifType)),
			zap.Error(err),
		)
	}
}

// GetNotificationsForUser returns a member's notifications, newest first.
func (s *ServiceImplementation) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Response, *common.Pagination, error) {
	notifications, pagination, err := s.repo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to fetch notifications", zap.String("userID", userID.String()), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve notifications.")
	}
	responses := make([]Response, len(notifications))
	for i := range notifications {
		responses[i] = ToResponse(&notifications[i])
	}
	return responses, pagination, nil
}

// GetNotification returns one of the member's notifications. Records
// belonging to other members come back as not found.
func (s *ServiceImplementation) GetNotification(ctx context.Context, notificationID, userID uuid.UUID) (*Response, error) {
	n, err := s.repo.FindByID(ctx, notificationID, userID)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(n)
	return &resp, nil
}

// MarkNotificationAsRead marks one of the member's notifications as read.
func (s *ServiceImplementation) MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

// MarkAllUserNotificationsAsRead marks all of the member's notifications as read.
func (s *ServiceImplementation) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to mark all notifications read", zap.String("userID", userID.String()), zap.Error(err))
		return 0, common.ErrInternalServer.WithDetails("Could not update notifications.")
	}
	return count, nil
}
