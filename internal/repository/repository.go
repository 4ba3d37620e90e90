package repository

import (
	"context"
	"time"

	"peerrent-backend/internal/domain"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	// Archive soft-deletes a listing. Listings are never physically removed
	// while reservations reference them.
	Archive(ctx context.Context, id int64) error
	ListByHost(ctx context.Context, hostID int64, page, pageSize int32) ([]domain.Listing, int32, error)
}

// ReservationRepository is the reservation ledger: a dumb, append-only-per-
// lifecycle store. It does not enforce the capacity invariant; that happens
// inside OrderRepository.CreateWithReservations.
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	// QueryOverlapping returns reservations on listingID whose half-open
	// interval intersects [start, end) and whose status is in statuses.
	// Backed by the (listing_id, start_at, end_at) index.
	QueryOverlapping(ctx context.Context, listingID int64, start, end time.Time, statuses []domain.ReservationStatus) ([]domain.Reservation, error)
	// Cancel is idempotent: cancelling an already-cancelled reservation is a
	// no-op, not an error. Order-driven lifecycle changes do not call this;
	// they release reservations inside OrderRepository.UpdateStatus so the
	// order row and its reservations change in one transaction. GetByID and
	// Cancel remain the ledger's standalone contract for single entries.
	Cancel(ctx context.Context, id int64) error
}

type OrderRepository interface {
	// CreateWithReservations atomically re-verifies availability for every
	// line and inserts the order, its lines, and one reservation per line.
	// Returns *domain.AvailabilityConflict when a line no longer fits and
	// domain.ErrConcurrencyConflict when the storage layer asks for a retry.
	CreateWithReservations(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// UpdateStatus persists a status change together with its reservation
	// side effects (activate, return, or release units) in one transaction.
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, notes string) error
	MarkPaid(ctx context.Context, id int64) error
	// Cancel sets the order cancelled and releases all of its reservations
	// atomically. Idempotent.
	Cancel(ctx context.Context, id int64) error

	ListQuotesCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
	ListConfirmedStartingBy(ctx context.Context, t time.Time) ([]domain.Order, error)
	ListInProgressEndedBy(ctx context.Context, t time.Time) ([]domain.Order, error)
	ListInProgressEndingWithin(ctx context.Context, from, to time.Time) ([]domain.Order, error)
}
