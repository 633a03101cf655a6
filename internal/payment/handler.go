// File: internal/payment/handler.go
package payment

import (
	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies for payment handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new payment handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for payment operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	payments := router.Group("/payments")
	payments.Use(authMW)
	{
		payments.POST("/checkout-session", h.createCheckoutSession)
	}
}

func (h *Handler) createCheckoutSession(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated profile."))
		return
	}

	// Invalid payment requests answer 400 across the board; the frontend
	// shows the details string verbatim.
	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request body: "+err.Error()))
		return
	}

	session, err := h.service.CreateCheckoutSession(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Checkout session created.", session)
}
