// File: internal/listing/handler.go
package listing

import (
	"errors"

	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies for listing handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new listing handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for listing operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, moderatorRoleMW gin.HandlerFunc) {
	listings := router.Group("/listings")
	{
		listings.GET("", h.browseListings)
		listings.GET("/my", authMW, h.getMyListings)
		listings.POST("", authMW, h.submitListing)

		adminGroup := listings.Group("/admin")
		adminGroup.Use(authMW)
		adminGroup.Use(moderatorRoleMW)
		{
			adminGroup.GET("", h.moderationQueue)
			adminGroup.POST("/:id/approve", h.approveListing)
			adminGroup.POST("/:id/reject", h.rejectListing)
		}

		listings.GET("/:id", h.getListing)
		listings.PATCH("/:id", authMW, h.updateListing)
		listings.DELETE("/:id", authMW, h.deleteListing)
	}
}

func (h *Handler) browseListings(c *gin.Context) {
	var query PublicListingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters: "+err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	listings, pagination, err := h.service.BrowsePublicListings(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Listings retrieved successfully.", ToListingResponses(listings, false), pagination)
}

func (h *Handler) getListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	listing, err := h.service.GetPublicListing(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing retrieved successfully.", ToListingResponse(listing, false))
}

func (h *Handler) submitListing(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated profile."))
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid form data: "+err.Error()))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid multipart form: "+err.Error()))
		return
	}
	images := form.File["images"]

	listing, err := h.service.SubmitListing(c.Request.Context(), userID, req, images)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Listing submitted and awaiting review.", ToListingResponse(listing, true))
}

func (h *Handler) getMyListings(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated profile."))
		return
	}

	page, pageSize := common.GetPaginationParams(c)
	listings, pagination, err := h.service.GetOwnerListings(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Your listings retrieved successfully.", ToListingResponses(listings, true), pagination)
}

func (h *Handler) updateListing(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated profile."))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request body: "+err.Error()))
		return
	}

	listing, err := h.service.UpdateListing(c.Request.Context(), userID, id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing updated successfully.", ToListingResponse(listing, true))
}

func (h *Handler) deleteListing(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated profile."))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	role := middleware.GetUserRoleFromContext(c)
	if err := h.service.DeleteListing(c.Request.Context(), userID, role, id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) moderationQueue(c *gin.Context) {
	var query ModerationQueueQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters: "+err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	listings, pagination, err := h.service.ModerationQueue(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Moderation queue retrieved successfully.", ToListingResponses(listings, true), pagination)
}

func (h *Handler) approveListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	moderatorID := middleware.GetUserIDFromContext(c)
	listing, err := h.service.ApproveListing(c.Request.Context(), id, moderatorID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing approved.", ToListingResponse(listing, true))
}

func (h *Handler) rejectListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	// The reason body is optional; rejections without one get a default.
	var req RejectListingRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request body: "+err.Error()))
			return
		}
	}

	listing, err := h.service.RejectListing(c.Request.Context(), id, req.Reason)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing rejected.", ToListingResponse(listing, true))
}
