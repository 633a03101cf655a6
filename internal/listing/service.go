// File: internal/listing/service.go
package listing

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/config"
	"kuwait_portal_backend/internal/notification"
	"kuwait_portal_backend/internal/platform/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultRejectionReason = "No reason provided"

// Service defines the listing lifecycle operations.
type Service interface {
	SubmitListing(ctx context.Context, ownerID uuid.UUID, req CreateListingRequest, images []*multipart.FileHeader) (*Listing, error)
	GetPublicListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	BrowsePublicListings(ctx context.Context, query PublicListingsQuery) ([]Listing, *common.Pagination, error)
	GetOwnerListings(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Listing, *common.Pagination, error)
	UpdateListing(ctx context.Context, ownerID, id uuid.UUID, req UpdateListingRequest) (*Listing, error)
	DeleteListing(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error
	ModerationQueue(ctx context.Context, query ModerationQueueQuery) ([]Listing, *common.Pagination, error)
	ApproveListing(ctx context.Context, id, moderatorID uuid.UUID) (*Listing, error)
	RejectListing(ctx context.Context, id uuid.UUID, reason string) (*Listing, error)
	ExpirePaidPlacements(ctx context.Context) (int64, error)
	SyncSearchIndex(ctx context.Context) (int, error)
}

// ServiceImplementation implements the Service interface.
type ServiceImplementation struct {
	repo     Repository
	storage  storage.Service
	notifier notification.Service
	indexer  *SearchIndexer
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new listing service.
func NewService(
	repo Repository,
	storageService storage.Service,
	notifier notification.Service,
	indexer *SearchIndexer,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &ServiceImplementation{
		repo:     repo,
		storage:  storageService,
		notifier: notifier,
		indexer:  indexer,
		cfg:      cfg,
		logger:   logger,
	}
}

// SubmitListing validates a submission, uploads its images and stores the
// listing as pending moderation. The image count is checked before anything
// is uploaded; individual files that are oversized or not images are skipped
// with a log line while the rest of the submission proceeds.
func (s *ServiceImplementation) SubmitListing(ctx context.Context, ownerID uuid.UUID, req CreateListingRequest, images []*multipart.FileHeader) (*Listing, error) {
	if len(images) > s.cfg.MaxListingImages {
		return nil, common.ErrBadRequest.WithDetails(
			fmt.Sprintf("A listing can include at most %d images.", s.cfg.MaxListingImages))
	}

	urls := s.uploadImages(ctx, req.Kind, images)

	tier := req.Tier
	if tier == "" {
		tier = TierStandard
	}

	listing := &Listing{
		Kind:              req.Kind,
		OwnerID:           ownerID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Price:             req.Price,
		IsPriceNegotiable: req.IsPriceNegotiable,
		Location:          req.Location,
		ContactPhone:      req.ContactPhone,
		ContactEmail:      req.ContactEmail,
		Images:            urls,
		IsApproved:        false,
		IsPublished:       true,
		Tier:              tier,
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		s.logger.Error("Failed to create listing", zap.String("ownerID", ownerID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create the listing.")
	}

	s.logger.Info("Listing submitted",
		zap.String("listingID", listing.ID.String()),
		zap.String("kind", string(listing.Kind)),
		zap.Int("images", len(urls)),
	)
	s.notifier.Notify(ctx, ownerID, notification.TypeListingSubmitted,
		fmt.Sprintf("Your listing %q was submitted and is awaiting review.", listing.Title), &listing.ID)

	return listing, nil
}

// uploadImages uploads acceptable files in submission order and returns
// their public URLs. Unacceptable or failing files are skipped.
func (s *ServiceImplementation) uploadImages(ctx context.Context, kind Kind, images []*multipart.FileHeader) []string {
	prefix := "classified-images"
	if kind == KindDirectory {
		prefix = "directory-images"
	}

	urls := make([]string, 0, len(images))
	for _, fileHeader := range images {
		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			s.logger.Warn("Skipping non-image upload",
				zap.String("filename", fileHeader.Filename),
				zap.String("contentType", contentType),
			)
			continue
		}
		if fileHeader.Size > s.cfg.MaxListingImageBytes {
			s.logger.Warn("Skipping oversized image",
				zap.String("filename", fileHeader.Filename),
				zap.Int64("size", fileHeader.Size),
				zap.Int64("limit", s.cfg.MaxListingImageBytes),
			)
			continue
		}

		file, err := fileHeader.Open()
		if err != nil {
			s.logger.Warn("Skipping unreadable image", zap.String("filename", fileHeader.Filename), zap.Error(err))
			continue
		}
		url, err := s.storage.Upload(ctx, prefix, fileHeader.Filename, contentType, file, fileHeader.Size)
		file.Close()
		if err != nil {
			s.logger.Warn("Skipping image after failed upload", zap.String("filename", fileHeader.Filename), zap.Error(err))
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

// GetPublicListing returns a visible listing and counts the view. Listings
// that are pending, rejected or unpublished answer 404 so their existence
// is not leaked.
func (s *ServiceImplementation) GetPublicListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.IsVisible() {
		return nil, common.ErrNotFound.WithDetails("Listing not found.")
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		// A lost count must not fail the page view.
		s.logger.Warn("Failed to increment listing views", zap.String("listingID", id.String()), zap.Error(err))
	}
	return listing, nil
}

// BrowsePublicListings returns visible listings. Full-text queries go to the
// search cluster when one is configured; any search failure falls back to
// the database so browsing never breaks.
func (s *ServiceImplementation) BrowsePublicListings(ctx context.Context, query PublicListingsQuery) ([]Listing, *common.Pagination, error) {
	if query.Search != "" && s.indexer.Enabled() {
		ids, total, err := s.indexer.Search(ctx, query)
		if err == nil {
			listings, findErr := s.repo.FindVisibleByIDs(ctx, ids)
			if findErr == nil {
				return listings, common.NewPagination(total, query.Page, query.PageSize), nil
			}
			err = findErr
		}
		s.logger.Warn("Search cluster query failed, falling back to database", zap.Error(err))
	}

	listings, pagination, err := s.repo.SearchVisible(ctx, query)
	if err != nil {
		s.logger.Error("Failed to browse listings", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve listings.")
	}
	return listings, pagination, nil
}

// GetOwnerListings returns all of a member's own listings, including
// pending and rejected ones.
func (s *ServiceImplementation) GetOwnerListings(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Listing, *common.Pagination, error) {
	listings, pagination, err := s.repo.FindByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to fetch owner listings", zap.String("ownerID", ownerID.String()), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve your listings.")
	}
	return listings, pagination, nil
}

// UpdateListing applies owner edits. Rejected listings are final and cannot
// be edited back into the queue. Content changes on an approved listing
// clear the approval so the listing is reviewed again.
func (s *ServiceImplementation) UpdateListing(ctx context.Context, ownerID, id uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != ownerID {
		return nil, common.ErrForbidden.WithDetails("You can only edit your own listings.")
	}
	if listing.RejectionReason != nil && !listing.IsApproved {
		return nil, common.ErrBadRequest.WithDetails("Rejected listings cannot be edited. Please submit a new listing.")
	}

	contentChanged := false
	applyString := func(dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			contentChanged = true
		}
	}
	applyString(&listing.Title, req.Title)
	applyString(&listing.Description, req.Description)
	applyString(&listing.Category, req.Category)
	applyString(&listing.Location, req.Location)
	applyString(&listing.ContactPhone, req.ContactPhone)
	if req.Price != nil {
		listing.Price = req.Price
		contentChanged = true
	}
	if req.IsPriceNegotiable != nil {
		listing.IsPriceNegotiable = *req.IsPriceNegotiable
		contentChanged = true
	}
	if req.ContactEmail != nil {
		listing.ContactEmail = req.ContactEmail
		contentChanged = true
	}
	if req.IsPublished != nil {
		listing.IsPublished = *req.IsPublished
	}

	if contentChanged && listing.IsApproved {
		listing.IsApproved = false
		listing.ApprovedBy = nil
		listing.ApprovedAt = nil
	}

	if err := s.repo.Update(ctx, listing); err != nil {
		s.logger.Error("Failed to update listing", zap.String("listingID", id.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update the listing.")
	}

	s.syncIndexFor(ctx, listing)
	return listing, nil
}

// DeleteListing removes a listing and its stored images. Owners may delete
// their own listings; admins may delete any.
func (s *ServiceImplementation) DeleteListing(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.OwnerID != actorID && actorRole != common.RoleAdmin {
		return common.ErrForbidden.WithDetails("You can only delete your own listings.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete listing", zap.String("listingID", id.String()), zap.Error(err))
		return err
	}

	for _, url := range listing.Images {
		if objErr := s.storage.DeleteByURL(ctx, url); objErr != nil {
			s.logger.Warn("Failed to delete listing image",
				zap.String("listingID", id.String()),
				zap.String("url", url),
				zap.Error(objErr),
			)
		}
	}
	if err := s.indexer.Delete(ctx, id); err != nil {
		s.logger.Warn("Failed to remove listing from search index", zap.String("listingID", id.String()), zap.Error(err))
	}

	s.logger.Info("Listing deleted", zap.String("listingID", id.String()), zap.String("actorID", actorID.String()))
	return nil
}

// ModerationQueue returns listings for the back office.
func (s *ServiceImplementation) ModerationQueue(ctx context.Context, query ModerationQueueQuery) ([]Listing, *common.Pagination, error) {
	listings, pagination, err := s.repo.ModerationList(ctx, query)
	if err != nil {
		s.logger.Error("Failed to fetch moderation queue", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve the moderation queue.")
	}
	return listings, pagination, nil
}

// ApproveListing records a moderator's approval. Approving an already
// approved listing is a no-op that returns the current state. A paid tier
// gets its placement window started on first approval.
func (s *ServiceImplementation) ApproveListing(ctx context.Context, id, moderatorID uuid.UUID) (*Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.IsApproved {
		return listing, nil
	}

	now := time.Now().UTC()
	var featuredUntil *time.Time
	if listing.Tier != TierStandard && listing.FeaturedUntil == nil {
		until := now.Add(time.Duration(s.cfg.PaidPlacementDays) * 24 * time.Hour)
		featuredUntil = &until
	}

	if err := s.repo.SetApproved(ctx, id, moderatorID, &now, featuredUntil); err != nil {
		s.logger.Error("Failed to approve listing", zap.String("listingID", id.String()), zap.Error(err))
		return nil, err
	}

	listing.IsApproved = true
	listing.ApprovedBy = &moderatorID
	listing.ApprovedAt = &now
	if featuredUntil != nil {
		listing.FeaturedUntil = featuredUntil
	}

	s.logger.Info("Listing approved",
		zap.String("listingID", id.String()),
		zap.String("moderatorID", moderatorID.String()),
	)
	s.notifier.Notify(ctx, listing.OwnerID, notification.TypeListingApproved,
		fmt.Sprintf("Your listing %q was approved and is now live.", listing.Title), &listing.ID)
	s.syncIndexFor(ctx, listing)

	return listing, nil
}

// RejectListing records a moderation rejection. The reason defaults when the
// moderator gives none, and any earlier approval bookkeeping is cleared.
func (s *ServiceImplementation) RejectListing(ctx context.Context, id uuid.UUID, reason string) (*Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		trimmed = defaultRejectionReason
	}

	if err := s.repo.SetRejected(ctx, id, trimmed); err != nil {
		s.logger.Error("Failed to reject listing", zap.String("listingID", id.String()), zap.Error(err))
		return nil, err
	}

	listing.IsApproved = false
	listing.ApprovedBy = nil
	listing.ApprovedAt = nil
	listing.RejectionReason = &trimmed

	s.logger.Info("Listing rejected", zap.String("listingID", id.String()), zap.String("reason", trimmed))
	s.notifier.Notify(ctx, listing.OwnerID, notification.TypeListingRejected,
		fmt.Sprintf("Your listing %q was rejected: %s", listing.Title, trimmed), &listing.ID)
	if err := s.indexer.Delete(ctx, id); err != nil {
		s.logger.Warn("Failed to remove rejected listing from search index", zap.String("listingID", id.String()), zap.Error(err))
	}

	return listing, nil
}

// ExpirePaidPlacements downgrades listings whose paid placement window has
// ended, telling each owner and refreshing the search index. Called by the
// scheduled job.
func (s *ServiceImplementation) ExpirePaidPlacements(ctx context.Context) (int64, error) {
	expired, err := s.repo.ClearExpiredPlacements(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("Failed to expire paid placements", zap.Error(err))
		return 0, err
	}

	for i := range expired {
		l := &expired[i]
		s.notifier.Notify(ctx, l.OwnerID, notification.TypePlacementExpired,
			fmt.Sprintf("The paid placement for %q has ended.", l.Title), &l.ID)
		s.syncIndexFor(ctx, l)
	}

	if len(expired) > 0 {
		s.logger.Info("Expired paid placements downgraded", zap.Int("count", len(expired)))
	}
	return int64(len(expired)), nil
}

// SyncSearchIndex walks every listing and reindexes the visible ones,
// removing the rest from the index. Returns the number indexed.
func (s *ServiceImplementation) SyncSearchIndex(ctx context.Context) (int, error) {
	if !s.indexer.Enabled() {
		return 0, fmt.Errorf("search index not configured")
	}

	const batchSize = 500
	indexed := 0
	for offset := 0; ; offset += batchSize {
		batch, err := s.repo.FindBatch(ctx, offset, batchSize)
		if err != nil {
			return indexed, err
		}
		if len(batch) == 0 {
			break
		}
		for i := range batch {
			l := &batch[i]
			if l.IsVisible() {
				if err := s.indexer.Index(ctx, l); err != nil {
					s.logger.Warn("Failed to index listing during sync", zap.String("listingID", l.ID.String()), zap.Error(err))
					continue
				}
				indexed++
			} else if err := s.indexer.Delete(ctx, l.ID); err != nil {
				s.logger.Warn("Failed to deindex listing during sync", zap.String("listingID", l.ID.String()), zap.Error(err))
			}
		}
		if len(batch) < batchSize {
			break
		}
	}
	return indexed, nil
}

// syncIndexFor indexes or removes one listing based on its visibility.
func (s *ServiceImplementation) syncIndexFor(ctx context.Context, l *Listing) {
	if !s.indexer.Enabled() {
		return
	}
	var err error
	if l.IsVisible() {
		err = s.indexer.Index(ctx, l)
	} else {
		err = s.indexer.Delete(ctx, l.ID)
	}
	if err != nil {
		s.logger.Warn("Failed to sync listing into search index", zap.String("listingID", l.ID.String()), zap.Error(err))
	}
}
