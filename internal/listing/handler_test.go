// File: internal/listing/handler_test.go
package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockService is a mock type for listing.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) SubmitListing(ctx context.Context, ownerID uuid.UUID, req CreateListingRequest, images []*multipart.FileHeader) (*Listing, error) {
	args := m.Called(ctx, ownerID, req, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockService) GetPublicListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockService) BrowsePublicListings(ctx context.Context, query PublicListingsQuery) ([]Listing, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Listing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockService) GetOwnerListings(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Listing, *common.Pagination, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Listing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockService) UpdateListing(ctx context.Context, ownerID, id uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	args := m.Called(ctx, ownerID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockService) DeleteListing(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error {
	args := m.Called(ctx, actorID, actorRole, id)
	return args.Error(0)
}

func (m *MockService) ModerationQueue(ctx context.Context, query ModerationQueueQuery) ([]Listing, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Listing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockService) ApproveListing(ctx context.Context, id, moderatorID uuid.UUID) (*Listing, error) {
	args := m.Called(ctx, id, moderatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockService) RejectListing(ctx context.Context, id uuid.UUID, reason string) (*Listing, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockService) ExpirePaidPlacements(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) SyncSearchIndex(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func setupRouter(svc Service, userID uuid.UUID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	stubAuth := func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UserRoleKey, role)
		c.Next()
	}
	stubModerator := middleware.RoleAuthMiddleware(common.RoleModerator, common.RoleAdmin)

	handler := NewHandler(svc, zap.NewNop())
	handler.RegisterRoutes(router.Group("/api/v1"), stubAuth, stubModerator)
	return router
}

func TestHandler_ApproveListing(t *testing.T) {
	svc := new(MockService)
	moderatorID := uuid.New()
	router := setupRouter(svc, moderatorID, common.RoleModerator)

	id := uuid.New()
	now := time.Now()
	svc.On("ApproveListing", mock.Anything, id, moderatorID).Return(&Listing{
		IsApproved:  true,
		IsPublished: true,
		ApprovedBy:  &moderatorID,
		ApprovedAt:  &now,
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/listings/admin/"+id.String()+"/approve", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data ListingResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotNil(t, body.Data.IsApproved)
	assert.True(t, *body.Data.IsApproved)
	svc.AssertExpectations(t)
}

func TestHandler_ApproveListing_ForbiddenForMembers(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, uuid.New(), common.RoleUser)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/listings/admin/"+uuid.NewString()+"/approve", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "ApproveListing", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_RejectListing_PassesReason(t *testing.T) {
	svc := new(MockService)
	moderatorID := uuid.New()
	router := setupRouter(svc, moderatorID, common.RoleAdmin)

	id := uuid.New()
	reason := "Duplicate listing"
	svc.On("RejectListing", mock.Anything, id, reason).Return(&Listing{RejectionReason: &reason}, nil)

	payload, _ := json.Marshal(RejectListingRequest{Reason: reason})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/listings/admin/"+id.String()+"/reject", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_RejectListing_EmptyBodyAllowed(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, uuid.New(), common.RoleModerator)

	id := uuid.New()
	svc.On("RejectListing", mock.Anything, id, "").Return(&Listing{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/listings/admin/"+id.String()+"/reject", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_BrowseListings_InvalidKind(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, uuid.Nil, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/listings?kind=bogus", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "BrowsePublicListings", mock.Anything, mock.Anything)
}

func TestHandler_GetListing_NotFound(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, uuid.Nil, "")

	id := uuid.New()
	svc.On("GetPublicListing", mock.Anything, id).Return(nil, common.ErrNotFound.WithDetails("Listing not found."))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/listings/"+id.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
