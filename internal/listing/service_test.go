// File: internal/listing/service_test.go
package listing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/config"
	"kuwait_portal_backend/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock type for listing.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, listing *Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, listing *Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) SearchVisible(ctx context.Context, query PublicListingsQuery) ([]Listing, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Listing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockRepository) FindVisibleByIDs(ctx context.Context, ids []uuid.UUID) ([]Listing, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Listing), args.Error(1)
}

func (m *MockRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Listing, *common.Pagination, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Listing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockRepository) ModerationList(ctx context.Context, query ModerationQueueQuery) ([]Listing, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Listing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockRepository) SetApproved(ctx context.Context, id, moderatorID uuid.UUID, approvedAt, featuredUntil *time.Time) error {
	args := m.Called(ctx, id, moderatorID, approvedAt, featuredUntil)
	return args.Error(0)
}

func (m *MockRepository) SetRejected(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ClearExpiredPlacements(ctx context.Context, now time.Time) ([]Listing, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Listing), args.Error(1)
}

func (m *MockRepository) FindBatch(ctx context.Context, offset, limit int) ([]Listing, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Listing), args.Error(1)
}

// MockStorageService is a mock type for storage.Service
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, prefix, fileName, contentType string, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, prefix, fileName, contentType, file, size)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockStorageService) DeleteByURL(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// MockNotificationService is a mock type for notification.Service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, userID uuid.UUID, notifType notification.Type, message string, relatedListingID *uuid.UUID) {
	m.Called(ctx, userID, notifType, message, relatedListingID)
}

func (m *MockNotificationService) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]notification.Response, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]notification.Response), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockNotificationService) GetNotification(ctx context.Context, notificationID, userID uuid.UUID) (*notification.Response, error) {
	args := m.Called(ctx, notificationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Response), args.Error(1)
}

func (m *MockNotificationService) MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		MaxListingImages:     5,
		MaxListingImageBytes: 5 * 1024 * 1024,
		PaidPlacementDays:    30,
	}
}

func newTestService(repo *MockRepository, store *MockStorageService, notifier *MockNotificationService) Service {
	return NewService(repo, store, notifier, nil, testConfig(), zap.NewNop())
}

// makeFileHeaders builds real multipart file headers so fileHeader.Open works
// in tests. sizes maps file names to content lengths; contentTypes to MIME types.
func makeFileHeaders(t *testing.T, files []struct {
	name        string
	contentType string
	size        int
}) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, f.name))
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		assert.NoError(t, err)
		_, err = part.Write(make([]byte, f.size))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	assert.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func validCreateRequest() CreateListingRequest {
	price := 120.0
	return CreateListingRequest{
		Kind:         KindClassified,
		Title:        "Used road bike",
		Description:  "Aluminium frame, recently serviced.",
		Category:     "sports",
		Price:        &price,
		Location:     "Salmiya",
		ContactPhone: "+96550000000",
	}
}

func TestService_SubmitListing_TooManyImages_NoUploads(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockStorageService)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, store, notifier)

	files := make([]struct {
		name        string
		contentType string
		size        int
	}, 6)
	for i := range files {
		files[i] = struct {
			name        string
			contentType string
			size        int
		}{fmt.Sprintf("photo%d.jpg", i), "image/jpeg", 128}
	}
	headers := makeFileHeaders(t, files)

	listing, err := svc.SubmitListing(context.Background(), uuid.New(), validCreateRequest(), headers)

	assert.Nil(t, listing)
	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrBadRequest.StatusCode, apiErr.StatusCode)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_SubmitListing_OversizedImageSkipped(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockStorageService)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, store, notifier)

	headers := makeFileHeaders(t, []struct {
		name        string
		contentType string
		size        int
	}{
		{"huge.jpg", "image/jpeg", 5*1024*1024 + 1},
		{"ok.jpg", "image/jpeg", 1024},
	})

	store.On("Upload", mock.Anything, "classified-images", "ok.jpg", "image/jpeg", mock.Anything, int64(1024)).
		Return("http://cdn.local/images/classified-images/ok.jpg", nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil)
	notifier.On("Notify", mock.Anything, mock.Anything, notification.TypeListingSubmitted, mock.Anything, mock.Anything).Return()

	listing, err := svc.SubmitListing(context.Background(), uuid.New(), validCreateRequest(), headers)

	assert.NoError(t, err)
	assert.NotNil(t, listing)
	assert.Len(t, listing.Images, 1)
	assert.Equal(t, "http://cdn.local/images/classified-images/ok.jpg", listing.Images[0])
	store.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestService_SubmitListing_NonImageSkipped(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockStorageService)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, store, notifier)

	headers := makeFileHeaders(t, []struct {
		name        string
		contentType string
		size        int
	}{
		{"malware.exe", "application/octet-stream", 512},
	})

	repo.On("Create", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil)
	notifier.On("Notify", mock.Anything, mock.Anything, notification.TypeListingSubmitted, mock.Anything, mock.Anything).Return()

	listing, err := svc.SubmitListing(context.Background(), uuid.New(), validCreateRequest(), headers)

	assert.NoError(t, err)
	assert.Empty(t, listing.Images)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SubmitListing_StartsPendingAndPublished(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockStorageService)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, store, notifier)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil)
	notifier.On("Notify", mock.Anything, mock.Anything, notification.TypeListingSubmitted, mock.Anything, mock.Anything).Return()

	listing, err := svc.SubmitListing(context.Background(), uuid.New(), validCreateRequest(), nil)

	assert.NoError(t, err)
	assert.False(t, listing.IsApproved)
	assert.True(t, listing.IsPublished)
	assert.False(t, listing.IsVisible())
	assert.Equal(t, TierStandard, listing.Tier)
}

func TestService_GetPublicListing_HiddenWhenNotApproved(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockStorageService), new(MockNotificationService))

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(&Listing{
		IsApproved:  false,
		IsPublished: true,
	}, nil)

	listing, err := svc.GetPublicListing(context.Background(), id)

	assert.Nil(t, listing)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrNotFound.StatusCode, apiErr.StatusCode)
	repo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestService_GetPublicListing_HiddenWhenUnpublished(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockStorageService), new(MockNotificationService))

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(&Listing{
		IsApproved:  true,
		IsPublished: false,
	}, nil)

	listing, err := svc.GetPublicListing(context.Background(), id)

	assert.Nil(t, listing)
	assert.Error(t, err)
}

func TestService_GetPublicListing_CountsView(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockStorageService), new(MockNotificationService))

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(&Listing{
		IsApproved:  true,
		IsPublished: true,
		Views:       7,
	}, nil)
	repo.On("IncrementViews", mock.Anything, id).Return(nil).Once()

	listing, err := svc.GetPublicListing(context.Background(), id)

	assert.NoError(t, err)
	assert.NotNil(t, listing)
	repo.AssertExpectations(t)
}

func TestService_ApproveListing_SetsModerationFields(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, new(MockStorageService), notifier)

	id := uuid.New()
	moderatorID := uuid.New()
	ownerID := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(&Listing{
		OwnerID:     ownerID,
		Title:       "Used road bike",
		IsPublished: true,
		Tier:        TierStandard,
	}, nil)
	repo.On("SetApproved", mock.Anything, id, moderatorID, mock.AnythingOfType("*time.Time"), (*time.Time)(nil)).Return(nil).Once()
	notifier.On("Notify", mock.Anything, ownerID, notification.TypeListingApproved, mock.Anything, mock.Anything).Return().Once()

	listing, err := svc.ApproveListing(context.Background(), id, moderatorID)

	assert.NoError(t, err)
	assert.True(t, listing.IsApproved)
	assert.NotNil(t, listing.ApprovedBy)
	assert.Equal(t, moderatorID, *listing.ApprovedBy)
	assert.NotNil(t, listing.ApprovedAt)
	assert.Nil(t, listing.FeaturedUntil)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_ApproveListing_Idempotent(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, new(MockStorageService), notifier)

	id := uuid.New()
	moderatorID := uuid.New()
	firstModerator := uuid.New()
	approvedAt := time.Now().Add(-time.Hour)
	repo.On("FindByID", mock.Anything, id).Return(&Listing{
		IsApproved:  true,
		IsPublished: true,
		ApprovedBy:  &firstModerator,
		ApprovedAt:  &approvedAt,
	}, nil)

	listing, err := svc.ApproveListing(context.Background(), id, moderatorID)

	assert.NoError(t, err)
	assert.True(t, listing.IsApproved)
	assert.Equal(t, firstModerator, *listing.ApprovedBy)
	repo.AssertNotCalled(t, "SetApproved", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ApproveListing_KeepsPriorRejectionReason(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, new(MockStorageService), notifier)

	id := uuid.New()
	reason := "Blurry photos"
	repo.On("FindByID", mock.Anything, id).Return(&Listing{
		Title:           "Used road bike",
		IsPublished:     true,
		Tier:            TierStandard,
		RejectionReason: &reason,
	}, nil)
	repo.On("SetApproved", mock.Anything, id, mock.Anything, mock.AnythingOfType("*time.Time"), (*time.Time)(nil)).Return(nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything, notification.TypeListingApproved, mock.Anything, mock.Anything).Return()

	listing, err := svc.ApproveListing(context.Background(), id, uuid.New())

	// Approval does not clear an earlier rejection reason; moderation history
	// stays on the row.
	assert.NoError(t, err)
	assert.True(t, listing.IsApproved)
	assert.NotNil(t, listing.RejectionReason)
	assert.Equal(t, reason, *listing.RejectionReason)
	repo.AssertExpectations(t)
}

func TestService_ApproveListing_PaidTierStartsPlacementWindow(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, new(MockStorageService), notifier)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(&Listing{
		IsPublished: true,
		Tier:        TierFeatured,
	}, nil)
	repo.On("SetApproved", mock.Anything, id, mock.Anything, mock.AnythingOfType("*time.Time"), mock.AnythingOfType("*time.Time")).Return(nil)
	notifier.On("Notify", mock.Anything, mock.Anything, notification.TypeListingApproved, mock.Anything, mock.Anything).Return()

	listing, err := svc.ApproveListing(context.Background(), id, uuid.New())

	assert.NoError(t, err)
	assert.NotNil(t, listing.FeaturedUntil)
	expected := time.Now().UTC().Add(30 * 24 * time.Hour)
	assert.WithinDuration(t, expected, *listing.FeaturedUntil, time.Minute)
}

func TestService_RejectListing_DefaultReason(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, new(MockStorageService), notifier)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(&Listing{Title: "Used road bike", IsPublished: true}, nil)
	repo.On("SetRejected", mock.Anything, id, "No reason provided").Return(nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything, notification.TypeListingRejected, mock.Anything, mock.Anything).Return()

	listing, err := svc.RejectListing(context.Background(), id, "   ")

	assert.NoError(t, err)
	assert.NotNil(t, listing.RejectionReason)
	assert.Equal(t, "No reason provided", *listing.RejectionReason)
	repo.AssertExpectations(t)
}

func TestService_RejectListing_ClearsApprovalFields(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, new(MockStorageService), notifier)

	id := uuid.New()
	moderatorID := uuid.New()
	approvedAt := time.Now().Add(-time.Hour)
	repo.On("FindByID", mock.Anything, id).Return(&Listing{
		IsApproved:  true,
		IsPublished: true,
		ApprovedBy:  &moderatorID,
		ApprovedAt:  &approvedAt,
	}, nil)
	repo.On("SetRejected", mock.Anything, id, "Spam").Return(nil)
	notifier.On("Notify", mock.Anything, mock.Anything, notification.TypeListingRejected, mock.Anything, mock.Anything).Return()

	listing, err := svc.RejectListing(context.Background(), id, "Spam")

	assert.NoError(t, err)
	assert.False(t, listing.IsApproved)
	assert.Nil(t, listing.ApprovedBy)
	assert.Nil(t, listing.ApprovedAt)
	assert.Equal(t, "Spam", *listing.RejectionReason)
	assert.False(t, listing.IsVisible())
}

func TestService_UpdateListing_RejectedIsFinal(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockStorageService), new(MockNotificationService))

	id := uuid.New()
	ownerID := uuid.New()
	reason := "Spam"
	repo.On("FindByID", mock.Anything, id).Return(&Listing{
		OwnerID:         ownerID,
		IsApproved:      false,
		RejectionReason: &reason,
	}, nil)

	newTitle := "Another title"
	updated, err := svc.UpdateListing(context.Background(), ownerID, id, UpdateListingRequest{Title: &newTitle})

	assert.Nil(t, updated)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrBadRequest.StatusCode, apiErr.StatusCode)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_UpdateListing_ContentChangeResetsApproval(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockStorageService), new(MockNotificationService))

	id := uuid.New()
	ownerID := uuid.New()
	moderatorID := uuid.New()
	approvedAt := time.Now()
	repo.On("FindByID", mock.Anything, id).Return(&Listing{
		OwnerID:     ownerID,
		Title:       "Used road bike",
		IsApproved:  true,
		IsPublished: true,
		ApprovedBy:  &moderatorID,
		ApprovedAt:  &approvedAt,
	}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil)

	newTitle := "Used mountain bike"
	updated, err := svc.UpdateListing(context.Background(), ownerID, id, UpdateListingRequest{Title: &newTitle})

	assert.NoError(t, err)
	assert.False(t, updated.IsApproved)
	assert.Nil(t, updated.ApprovedBy)
	assert.Nil(t, updated.ApprovedAt)
}

func TestService_UpdateListing_NotOwner(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockStorageService), new(MockNotificationService))

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(&Listing{OwnerID: uuid.New()}, nil)

	newTitle := "Hijacked"
	updated, err := svc.UpdateListing(context.Background(), uuid.New(), id, UpdateListingRequest{Title: &newTitle})

	assert.Nil(t, updated)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrForbidden.StatusCode, apiErr.StatusCode)
}

func TestService_ExpirePaidPlacements_NotifiesOwners(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, new(MockStorageService), notifier)

	ownerA := uuid.New()
	ownerB := uuid.New()
	expired := []Listing{
		{OwnerID: ownerA, Title: "Used road bike", IsApproved: true, IsPublished: true, Tier: TierStandard},
		{OwnerID: ownerB, Title: "Cafe Bloom", IsApproved: true, IsPublished: true, Tier: TierStandard},
	}
	repo.On("ClearExpiredPlacements", mock.Anything, mock.AnythingOfType("time.Time")).Return(expired, nil)
	notifier.On("Notify", mock.Anything, ownerA, notification.TypePlacementExpired, mock.Anything, mock.Anything).Return().Once()
	notifier.On("Notify", mock.Anything, ownerB, notification.TypePlacementExpired, mock.Anything, mock.Anything).Return().Once()

	count, err := svc.ExpirePaidPlacements(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	notifier.AssertExpectations(t)
}

func TestService_ExpirePaidPlacements_NothingExpired(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotificationService)
	svc := newTestService(repo, new(MockStorageService), notifier)

	repo.On("ClearExpiredPlacements", mock.Anything, mock.AnythingOfType("time.Time")).Return([]Listing{}, nil)

	count, err := svc.ExpirePaidPlacements(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestToListingResponse_PublicHidesModeration(t *testing.T) {
	moderatorID := uuid.New()
	reason := "Spam"
	l := &Listing{
		Title:           "Used road bike",
		IsApproved:      true,
		IsPublished:     true,
		ApprovedBy:      &moderatorID,
		RejectionReason: &reason,
	}

	public := ToListingResponse(l, false)
	assert.Nil(t, public.IsApproved)
	assert.Nil(t, public.ApprovedBy)
	assert.Nil(t, public.RejectionReason)

	moderation := ToListingResponse(l, true)
	assert.NotNil(t, moderation.IsApproved)
	assert.True(t, *moderation.IsApproved)
	assert.Equal(t, moderatorID, *moderation.ApprovedBy)
	assert.Equal(t, "Spam", *moderation.RejectionReason)
}

func TestService_BrowsePublicListings_DatabaseFallback(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockStorageService), new(MockNotificationService))

	query := PublicListingsQuery{Search: "bike", Page: 1, PageSize: 12}
	expected := []Listing{{Title: "Used road bike"}}
	repo.On("SearchVisible", mock.Anything, query).
		Return(expected, common.NewPagination(1, 1, 12), nil)

	listings, pagination, err := svc.BrowsePublicListings(context.Background(), query)

	assert.NoError(t, err)
	assert.Equal(t, expected, listings)
	assert.NotNil(t, pagination)
}
