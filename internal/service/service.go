package service

import (
	"context"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/pricing"
)

type ListingService interface {
	CreateListing(ctx context.Context, hostID int64, listing *domain.Listing) error
	GetListing(ctx context.Context, id int64) (*domain.Listing, error)
	UpdateListing(ctx context.Context, hostID int64, listing *domain.Listing) error
	ArchiveListing(ctx context.Context, hostID, listingID int64) error
	ListMyListings(ctx context.Context, hostID int64, page, pageSize int32) ([]domain.Listing, int32, error)
}

type AvailabilityService interface {
	// Check is advisory for callers; the authoritative check runs again
	// inside the order commit path.
	Check(ctx context.Context, listingID int64, start, end time.Time, qty int32) (*domain.AvailabilityResult, error)
}

// CreateOrderLine is one requested booking in a createOrder call.
type CreateOrderLine struct {
	ListingID int64     `json:"listing_id"`
	Qty       int32     `json:"qty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

type OrderService interface {
	// CreateOrder validates every line, prices them, and commits the order
	// with its reservations atomically: either all lines book or none do.
	CreateOrder(ctx context.Context, renterID int64, renterEmail string, lines []CreateOrderLine, option domain.PaymentOption) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	// CancelOrder is idempotent and only legal from quote or confirmed.
	CancelOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus, notes string) (*domain.Order, error)
	ResolveDispute(ctx context.Context, orderID int64, resolution domain.DisputeResolution, notes string) (*domain.Order, error)
	MarkPaid(ctx context.Context, orderID int64) (*domain.Order, error)
	// QuoteOrder prices the requested lines without committing anything.
	QuoteOrder(ctx context.Context, lines []CreateOrderLine, option domain.PaymentOption) (*pricing.Quote, error)
}

type EmailService interface {
	SendOrderConfirmedNotification(ctx context.Context, email, reference string, totalDueCents int64) error
	SendOrderCancelledNotification(ctx context.Context, email, reference string) error
	SendReturnReminderNotification(ctx context.Context, email, reference string, returnBy time.Time) error
}
