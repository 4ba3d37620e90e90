package service

import (
	"context"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/logger"
	"peerrent-backend/internal/repository"
)

type listingService struct {
	listingRepo repository.ListingRepository
}

func NewListingService(listingRepo repository.ListingRepository) ListingService {
	return &listingService{listingRepo: listingRepo}
}

func (s *listingService) CreateListing(ctx context.Context, hostID int64, listing *domain.Listing) error {
	listing.HostID = hostID
	listing.Status = domain.ListingStatusActive
	if err := listing.Validate(); err != nil {
		return err
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Listing created", "listing_id", listing.ID, "host_id", hostID)
	return nil
}

func (s *listingService) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	return s.listingRepo.GetByID(ctx, id)
}

func (s *listingService) UpdateListing(ctx context.Context, hostID int64, listing *domain.Listing) error {
	existing, err := s.listingRepo.GetByID(ctx, listing.ID)
	if err != nil {
		return err
	}
	if existing.HostID != hostID {
		return domain.ErrUnauthorized
	}
	listing.HostID = existing.HostID
	listing.Status = existing.Status
	if err := listing.Validate(); err != nil {
		return err
	}
	return s.listingRepo.Update(ctx, listing)
}

// ArchiveListing soft-deletes a listing. Existing reservations keep
// referencing it; only new bookings are blocked.
func (s *listingService) ArchiveListing(ctx context.Context, hostID, listingID int64) error {
	existing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if existing.HostID != hostID {
		return domain.ErrUnauthorized
	}
	if err := s.listingRepo.Archive(ctx, listingID); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Listing archived", "listing_id", listingID, "host_id", hostID)
	return nil
}

func (s *listingService) ListMyListings(ctx context.Context, hostID int64, page, pageSize int32) ([]domain.Listing, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.listingRepo.ListByHost(ctx, hostID, page, pageSize)
}
