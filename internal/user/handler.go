// File: internal/user/handler.go
package user

import (
	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies for profile handlers.
type Handler struct {
	service *ServiceImplementation
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service *ServiceImplementation, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for profile operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	router.GET("/me", authMW, h.getMe)

	adminGroup := router.Group("/users/admin")
	adminGroup.Use(authMW)
	adminGroup.Use(adminRoleMW)
	{
		adminGroup.GET("", h.adminListProfiles)
		adminGroup.PATCH("/:id/role", h.adminUpdateRole)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	profile := middleware.GetProfileFromContext(c)
	if profile == nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated profile."))
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", ToProfileResponse(profile))
}

func (h *Handler) adminListProfiles(c *gin.Context) {
	var query AdminProfilesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters: "+err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	profiles, pagination, err := h.service.ListProfiles(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Profiles retrieved successfully.", profiles, pagination)
}

func (h *Handler) adminUpdateRole(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid profile ID format."))
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request body: "+err.Error()))
		return
	}

	actingAdminID := middleware.GetUserIDFromContext(c)
	updated, err := h.service.UpdateRole(c.Request.Context(), actingAdminID, profileID, req.Role)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Role updated successfully.", ToProfileResponse(updated))
}
