package service

import (
	"context"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/metrics"
	"peerrent-backend/internal/pricing"
	"peerrent-backend/internal/repository"
)

// maxWindowScanSteps bounds the forward scan for alternative windows so a
// densely booked listing cannot turn a check into an unbounded walk.
const maxWindowScanSteps = 32

type availabilityService struct {
	listingRepo     repository.ListingRepository
	reservationRepo repository.ReservationRepository
	leadTime        time.Duration
	maxWindows      int
	now             func() time.Time
}

func NewAvailabilityService(listingRepo repository.ListingRepository, reservationRepo repository.ReservationRepository, leadTimeHours, maxWindows int) AvailabilityService {
	return &availabilityService{
		listingRepo:     listingRepo,
		reservationRepo: reservationRepo,
		leadTime:        time.Duration(leadTimeHours) * time.Hour,
		maxWindows:      maxWindows,
		now:             time.Now,
	}
}

func (s *availabilityService) Check(ctx context.Context, listingID int64, start, end time.Time, qty int32) (*domain.AvailabilityResult, error) {
	if qty < 1 {
		return nil, domain.NewInvalidArgument("qty must be at least 1")
	}
	if !start.Before(end) {
		return nil, domain.NewInvalidArgument("start must be before end")
	}
	if start.Before(s.now().Add(s.leadTime)) {
		return nil, domain.NewInvalidArgument("start is inside the booking lead time")
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.ListingStatusActive {
		return nil, domain.ErrNotFound
	}

	availableQty, err := s.freeQuantity(ctx, listing, start, end)
	if err != nil {
		return nil, err
	}

	result := &domain.AvailabilityResult{
		Available:    availableQty >= qty,
		AvailableQty: availableQty,
	}
	if result.Available {
		metrics.AvailabilityChecksTotal.WithLabelValues("available").Inc()
		return result, nil
	}
	metrics.AvailabilityChecksTotal.WithLabelValues("unavailable").Inc()

	result.NextAvailable, err = s.proposeWindows(ctx, listing, start, end, qty)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// freeQuantity returns totalQuantity minus the committed quantity overlapping
// [start, end).
func (s *availabilityService) freeQuantity(ctx context.Context, listing *domain.Listing, start, end time.Time) (int32, error) {
	overlapping, err := s.reservationRepo.QueryOverlapping(ctx, listing.ID, start, end, domain.HoldingStatuses)
	if err != nil {
		return 0, err
	}
	var committed int32
	for _, res := range overlapping {
		committed += res.Qty
	}
	return listing.TotalQuantity - committed, nil
}

// proposeWindows scans forward from the requested window's end for up to
// maxWindows alternatives of the same duration with enough free units. The
// scan jumps to the earliest conflicting reservation's end when a candidate
// window does not fit. Proposals are best effort: a concurrent booking can
// claim one before the caller commits.
func (s *availabilityService) proposeWindows(ctx context.Context, listing *domain.Listing, start, end time.Time, qty int32) ([]domain.Window, error) {
	if qty > listing.TotalQuantity {
		// No window can ever satisfy the request.
		return nil, nil
	}
	duration := end.Sub(start)
	unit := pricing.UnitDuration(listing.UnitType)

	cursor := start
	var windows []domain.Window
	for step := 0; step < maxWindowScanSteps && len(windows) < s.maxWindows; step++ {
		candidateEnd := cursor.Add(duration)
		overlapping, err := s.reservationRepo.QueryOverlapping(ctx, listing.ID, cursor, candidateEnd, domain.HoldingStatuses)
		if err != nil {
			return nil, err
		}

		var committed int32
		nextJump := candidateEnd
		for _, res := range overlapping {
			committed += res.Qty
			if res.EndAt.Before(nextJump) {
				nextJump = res.EndAt
			}
		}

		if listing.TotalQuantity-committed >= qty && !cursor.Equal(start) {
			windows = append(windows, domain.Window{Start: cursor, End: candidateEnd})
			cursor = candidateEnd
			continue
		}

		// Step past the earliest blocker, at least one billing unit forward.
		if nextJump.Sub(cursor) < unit {
			cursor = cursor.Add(unit)
		} else {
			cursor = nextJump
		}
	}
	return windows, nil
}
