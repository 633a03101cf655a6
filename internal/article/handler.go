// File: internal/article/handler.go
package article

import (
	"errors"

	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies for article handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new article handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for article operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	articles := router.Group("/articles")
	{
		articles.GET("", h.listPublished)

		adminGroup := articles.Group("/admin")
		adminGroup.Use(authMW)
		adminGroup.Use(adminRoleMW)
		{
			adminGroup.GET("", h.adminList)
			adminGroup.POST("", h.create)
			adminGroup.PATCH("/:id", h.update)
			adminGroup.POST("/:id/publish", h.publish)
			adminGroup.POST("/:id/unpublish", h.unpublish)
			adminGroup.DELETE("/:id", h.delete)
		}

		articles.GET("/:slug", h.getBySlug)
	}
}

func (h *Handler) listPublished(c *gin.Context) {
	var query PublicArticlesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters: "+err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	articles, pagination, err := h.service.ListPublished(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Articles retrieved successfully.", ToResponses(articles), pagination)
}

func (h *Handler) getBySlug(c *gin.Context) {
	article, err := h.service.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Article retrieved successfully.", ToResponse(article))
}

func (h *Handler) adminList(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	articles, pagination, err := h.service.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Articles retrieved successfully.", ToResponses(articles), pagination)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request body: "+err.Error()))
		return
	}

	authorID := middleware.GetUserIDFromContext(c)
	article, err := h.service.CreateArticle(c.Request.Context(), authorID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Article created successfully.", ToResponse(article))
}

func (h *Handler) update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid article ID format."))
		return
	}

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request body: "+err.Error()))
		return
	}

	article, err := h.service.UpdateArticle(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Article updated successfully.", ToResponse(article))
}

func (h *Handler) publish(c *gin.Context) {
	h.setPublished(c, true, "Article published.")
}

func (h *Handler) unpublish(c *gin.Context) {
	h.setPublished(c, false, "Article unpublished.")
}

func (h *Handler) setPublished(c *gin.Context, published bool, message string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid article ID format."))
		return
	}

	article, err := h.service.SetPublished(c.Request.Context(), id, published)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, message, ToResponse(article))
}

func (h *Handler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid article ID format."))
		return
	}

	if err := h.service.DeleteArticle(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
