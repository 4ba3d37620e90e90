package service

import (
	"context"
	"errors"
	"fmt"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/logger"
	"peerrent-backend/internal/metrics"
	"peerrent-backend/internal/pricing"
	"peerrent-backend/internal/repository"

	"github.com/google/uuid"
)

type orderService struct {
	orderRepo    repository.OrderRepository
	listingRepo  repository.ListingRepository
	availability AvailabilityService
	emailSvc     EmailService

	commissionPercent int64
	commitRetries     int
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	listingRepo repository.ListingRepository,
	availability AvailabilityService,
	emailSvc EmailService,
	commissionPercent int64,
	commitRetries int,
) OrderService {
	return &orderService{
		orderRepo:         orderRepo,
		listingRepo:       listingRepo,
		availability:      availability,
		emailSvc:          emailSvc,
		commissionPercent: commissionPercent,
		commitRetries:     commitRetries,
	}
}

// priceLines loads and prices every requested line, returning the built order
// lines plus the summed quote. Fails fast on the first invalid line.
func (s *orderService) priceLines(ctx context.Context, lines []CreateOrderLine, option domain.PaymentOption) ([]domain.OrderLine, pricing.Quote, error) {
	var total pricing.Quote
	built := make([]domain.OrderLine, 0, len(lines))

	for i, ln := range lines {
		listing, err := s.listingRepo.GetByID(ctx, ln.ListingID)
		if err != nil {
			return nil, total, fmt.Errorf("line %d: %w", i, err)
		}
		if listing.Status != domain.ListingStatusActive {
			return nil, total, fmt.Errorf("line %d: %w", i, domain.ErrNotFound)
		}

		q, err := pricing.Compute(listing, ln.Qty, ln.Start, ln.End, option, s.commissionPercent)
		if err != nil {
			return nil, total, fmt.Errorf("line %d: %w", i, err)
		}

		built = append(built, domain.OrderLine{
			ListingID:     ln.ListingID,
			Qty:           ln.Qty,
			StartAt:       ln.Start,
			EndAt:         ln.End,
			SubtotalCents: q.SubtotalCents,
			DepositCents:  q.DepositCents,
		})
		total.SubtotalCents += q.SubtotalCents
		total.DepositCents += q.DepositCents
		total.CommissionCents += q.CommissionCents
		total.TotalDueNowCents += q.TotalDueNowCents
	}
	return built, total, nil
}

func (s *orderService) CreateOrder(ctx context.Context, renterID int64, renterEmail string, lines []CreateOrderLine, option domain.PaymentOption) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, domain.NewInvalidArgument("order must contain at least one line")
	}
	if option == "" {
		option = domain.PaymentOptionFull
	}
	if option != domain.PaymentOptionFull && option != domain.PaymentOptionDeposit {
		return nil, domain.NewInvalidArgument("unknown payment option")
	}

	// Advisory pre-check per line. The authoritative check runs again inside
	// the commit transaction; this one exists to fail fast and to report the
	// conflicting window before any work is done.
	for _, ln := range lines {
		result, err := s.availability.Check(ctx, ln.ListingID, ln.Start, ln.End, ln.Qty)
		if err != nil {
			return nil, err
		}
		if !result.Available {
			metrics.BookingConflictsTotal.Inc()
			return nil, &domain.AvailabilityConflict{
				ListingID:    ln.ListingID,
				Start:        ln.Start,
				End:          ln.End,
				RequestedQty: ln.Qty,
				AvailableQty: result.AvailableQty,
			}
		}
	}

	builtLines, total, err := s.priceLines(ctx, lines, option)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		Reference:               uuid.New().String(),
		RenterID:                renterID,
		RenterEmail:             renterEmail,
		Lines:                   builtLines,
		Status:                  domain.OrderStatusQuote,
		PaymentStatus:           domain.PaymentStatusPending,
		PaymentOption:           option,
		SubtotalCents:           total.SubtotalCents,
		DepositCents:            total.DepositCents,
		PlatformCommissionCents: total.CommissionCents,
		TotalDueCents:           total.TotalDueNowCents,
	}

	if err := s.commitWithRetry(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	logger.InfoContext(ctx, "Order created",
		"order_id", order.ID, "reference", order.Reference,
		"renter_id", renterID, "lines", len(order.Lines), "total_due_cents", order.TotalDueCents)
	return order, nil
}

// commitWithRetry runs the atomic commit, retrying on storage-level
// concurrency conflicts a bounded number of times. Exhausted retries surface
// as InsufficientAvailability: to the caller both mean "try different dates
// or quantity".
func (s *orderService) commitWithRetry(ctx context.Context, order *domain.Order) error {
	var err error
	for attempt := 0; attempt <= s.commitRetries; attempt++ {
		err = s.orderRepo.CreateWithReservations(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			if errors.Is(err, domain.ErrInsufficientAvailability) {
				metrics.BookingConflictsTotal.Inc()
			}
			return err
		}
		metrics.CommitRetriesTotal.Inc()
		logger.WarnContext(ctx, "Order commit hit a concurrency conflict, retrying",
			"reference", order.Reference, "attempt", attempt+1)
	}
	metrics.BookingConflictsTotal.Inc()
	return fmt.Errorf("commit retries exhausted: %w", domain.ErrInsufficientAvailability)
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RenterID != userID {
		return nil, domain.ErrUnauthorized
	}
	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RenterID != userID {
		return nil, domain.ErrUnauthorized
	}
	// Cancelling twice is a no-op, not an error.
	if order.Status == domain.OrderStatusCancelled {
		return order, nil
	}
	if !order.Status.CanTransitionTo(domain.OrderStatusCancelled) ||
		order.Status == domain.OrderStatusDisputed {
		return nil, fmt.Errorf("cannot cancel order in status %s: %w", order.Status, domain.ErrInvalidState)
	}

	if err := s.orderRepo.Cancel(ctx, orderID); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatusCancelled

	metrics.OrdersCancelledTotal.Inc()
	if order.RenterEmail != "" {
		if err := s.emailSvc.SendOrderCancelledNotification(ctx, order.RenterEmail, order.Reference); err != nil {
			logger.WarnContext(ctx, "Failed to send cancellation email", "order_id", orderID, "error", err)
		}
	}
	logger.InfoContext(ctx, "Order cancelled", "order_id", orderID, "reference", order.Reference)
	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus, notes string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.NewInvalidArgument("unknown order status")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("transition %s -> %s: %w", order.Status, status, domain.ErrInvalidState)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status, notes); err != nil {
		return nil, err
	}
	order.Status = status
	order.Notes = notes
	logger.InfoContext(ctx, "Order status updated", "order_id", orderID, "status", status)
	return order, nil
}

// ResolveDispute settles a disputed order with an admin decision. Every
// resolution is terminal; the financial split is handled by settlement.
func (s *orderService) ResolveDispute(ctx context.Context, orderID int64, resolution domain.DisputeResolution, notes string) (*domain.Order, error) {
	if !resolution.Valid() {
		return nil, domain.NewInvalidArgument("unknown dispute resolution")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusDisputed {
		return nil, fmt.Errorf("order %d is not disputed: %w", orderID, domain.ErrInvalidState)
	}

	outcome := resolution.Outcome()
	note := fmt.Sprintf("dispute resolved (%s)", resolution)
	if notes != "" {
		note = note + ": " + notes
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, outcome, note); err != nil {
		return nil, err
	}
	order.Status = outcome
	order.Notes = note
	logger.InfoContext(ctx, "Dispute resolved", "order_id", orderID, "resolution", resolution, "outcome", outcome)
	return order, nil
}

func (s *orderService) MarkPaid(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentStatusPaid {
		return order, nil
	}
	if order.Status != domain.OrderStatusQuote && order.Status != domain.OrderStatusConfirmed {
		return nil, fmt.Errorf("cannot record payment for order in status %s: %w", order.Status, domain.ErrInvalidState)
	}

	if err := s.orderRepo.MarkPaid(ctx, orderID); err != nil {
		return nil, err
	}
	order.PaymentStatus = domain.PaymentStatusPaid

	if order.Status == domain.OrderStatusQuote {
		if err := s.orderRepo.UpdateStatus(ctx, orderID, domain.OrderStatusConfirmed, order.Notes); err != nil {
			return nil, err
		}
		order.Status = domain.OrderStatusConfirmed
	}

	if order.RenterEmail != "" {
		if err := s.emailSvc.SendOrderConfirmedNotification(ctx, order.RenterEmail, order.Reference, order.TotalDueCents); err != nil {
			logger.WarnContext(ctx, "Failed to send confirmation email", "order_id", orderID, "error", err)
		}
	}
	logger.InfoContext(ctx, "Order paid", "order_id", orderID, "reference", order.Reference)
	return order, nil
}

func (s *orderService) QuoteOrder(ctx context.Context, lines []CreateOrderLine, option domain.PaymentOption) (*pricing.Quote, error) {
	if len(lines) == 0 {
		return nil, domain.NewInvalidArgument("quote must contain at least one line")
	}
	if option == "" {
		option = domain.PaymentOptionFull
	}
	_, total, err := s.priceLines(ctx, lines, option)
	if err != nil {
		return nil, err
	}
	return &total, nil
}
