// File: internal/notification/handler.go
package notification

import (
	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies for notification handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new notification handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for notification operations. The whole
// group requires authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := router.Group("/notifications")
	group.Use(authMW)
	{
		group.GET("", h.getNotifications)
		group.GET("/:id", h.getNotification)
		group.POST("/:id/mark-read", h.markNotificationAsRead)
		group.POST("/mark-all-read", h.markAllNotificationsAsRead)
	}
}

func (h *Handler) getNotifications(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated profile."))
		return
	}

	page, pageSize := common.GetPaginationParams(c)
	notifications, pagination, err := h.service.GetNotificationsForUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Notifications retrieved successfully.", notifications, pagination)
}

func (h *Handler) getNotification(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated profile."))
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid notification ID format."))
		return
	}

	n, err := h.service.GetNotification(c.Request.Context(), notificationID, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Notification retrieved successfully.", n)
}

func (h *Handler) markNotificationAsRead(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated profile."))
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid notification ID format."))
		return
	}

	if err := h.service.MarkNotificationAsRead(c.Request.Context(), notificationID, userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Notification marked as read.", nil)
}

func (h *Handler) markAllNotificationsAsRead(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated profile."))
		return
	}

	count, err := h.service.MarkAllUserNotificationsAsRead(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "All notifications marked as read.", gin.H{"updated": count})
}
