package service

import (
	"context"
	"errors"
	"testing"

	"peerrent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders       *MockOrderRepo
	listings     *MockListingRepo
	availability *MockAvailabilityService
	email        *MockEmailService
	svc          *orderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:       new(MockOrderRepo),
		listings:     new(MockListingRepo),
		availability: new(MockAvailabilityService),
		email:        new(MockEmailService),
	}
	f.svc = &orderService{
		orderRepo:         f.orders,
		listingRepo:       f.listings,
		availability:      f.availability,
		emailSvc:          f.email,
		commissionPercent: 10,
		commitRetries:     2,
	}
	return f
}

func TestCreateOrder_Success(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.availability.On("Check", ctx, int64(7), day(10), day(12), int32(1)).
		Return(&domain.AvailabilityResult{Available: true, AvailableQty: 2}, nil)
	f.listings.On("GetByID", ctx, int64(7)).Return(testListing(), nil)
	f.orders.On("CreateWithReservations", ctx, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 42
		}).Return(nil).Once()

	lines := []CreateOrderLine{{ListingID: 7, Qty: 1, Start: day(10), End: day(12)}}
	order, err := f.svc.CreateOrder(ctx, 5, "renter@test.com", lines, domain.PaymentOptionFull)
	require.NoError(t, err)

	assert.Equal(t, int64(42), order.ID)
	assert.NotEmpty(t, order.Reference)
	assert.Equal(t, domain.OrderStatusQuote, order.Status)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	// 2 days at 4000 cents: subtotal 8000, 20% deposit 1600, 10% commission 800.
	assert.Equal(t, int64(8000), order.SubtotalCents)
	assert.Equal(t, int64(1600), order.DepositCents)
	assert.Equal(t, int64(800), order.PlatformCommissionCents)
	assert.Equal(t, int64(8000), order.TotalDueCents)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, int64(8000), order.Lines[0].SubtotalCents)
	f.orders.AssertExpectations(t)
}

func TestCreateOrder_DepositOption(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.availability.On("Check", ctx, int64(7), day(10), day(12), int32(1)).
		Return(&domain.AvailabilityResult{Available: true, AvailableQty: 3}, nil)
	f.listings.On("GetByID", ctx, int64(7)).Return(testListing(), nil)
	f.orders.On("CreateWithReservations", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)

	lines := []CreateOrderLine{{ListingID: 7, Qty: 1, Start: day(10), End: day(12)}}
	order, err := f.svc.CreateOrder(ctx, 5, "renter@test.com", lines, domain.PaymentOptionDeposit)
	require.NoError(t, err)
	assert.Equal(t, int64(1600), order.TotalDueCents)
}

func TestCreateOrder_AdvisoryConflict(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.availability.On("Check", ctx, int64(7), day(10), day(12), int32(2)).
		Return(&domain.AvailabilityResult{Available: false, AvailableQty: 1}, nil)

	lines := []CreateOrderLine{{ListingID: 7, Qty: 2, Start: day(10), End: day(12)}}
	_, err := f.svc.CreateOrder(ctx, 5, "renter@test.com", lines, domain.PaymentOptionFull)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientAvailability))

	var conflict *domain.AvailabilityConflict
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(7), conflict.ListingID)
	assert.Equal(t, int32(1), conflict.AvailableQty)
	f.orders.AssertNotCalled(t, "CreateWithReservations", mock.Anything, mock.Anything)
}

func TestCreateOrder_CommitConflictWins(t *testing.T) {
	// The advisory check passes but a concurrent booking claims the window
	// before the commit; the authoritative check inside the transaction loses.
	f := newOrderFixture()
	ctx := context.Background()

	f.availability.On("Check", ctx, int64(7), day(10), day(12), int32(1)).
		Return(&domain.AvailabilityResult{Available: true, AvailableQty: 1}, nil)
	f.listings.On("GetByID", ctx, int64(7)).Return(testListing(), nil)
	f.orders.On("CreateWithReservations", ctx, mock.AnythingOfType("*domain.Order")).
		Return(&domain.AvailabilityConflict{ListingID: 7, Start: day(10), End: day(12), RequestedQty: 1, AvailableQty: 0}).Once()

	lines := []CreateOrderLine{{ListingID: 7, Qty: 1, Start: day(10), End: day(12)}}
	_, err := f.svc.CreateOrder(ctx, 5, "renter@test.com", lines, domain.PaymentOptionFull)
	assert.True(t, errors.Is(err, domain.ErrInsufficientAvailability))
	f.orders.AssertExpectations(t)
}

func TestCreateOrder_RetriesExhausted(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.availability.On("Check", ctx, int64(7), day(10), day(12), int32(1)).
		Return(&domain.AvailabilityResult{Available: true, AvailableQty: 1}, nil)
	f.listings.On("GetByID", ctx, int64(7)).Return(testListing(), nil)
	// commitRetries is 2, so the commit runs three times before giving up.
	f.orders.On("CreateWithReservations", ctx, mock.AnythingOfType("*domain.Order")).
		Return(domain.ErrConcurrencyConflict).Times(3)

	lines := []CreateOrderLine{{ListingID: 7, Qty: 1, Start: day(10), End: day(12)}}
	_, err := f.svc.CreateOrder(ctx, 5, "renter@test.com", lines, domain.PaymentOptionFull)
	assert.True(t, errors.Is(err, domain.ErrInsufficientAvailability))
	f.orders.AssertExpectations(t)
}

func TestCreateOrder_RetrySucceeds(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.availability.On("Check", ctx, int64(7), day(10), day(12), int32(1)).
		Return(&domain.AvailabilityResult{Available: true, AvailableQty: 1}, nil)
	f.listings.On("GetByID", ctx, int64(7)).Return(testListing(), nil)
	f.orders.On("CreateWithReservations", ctx, mock.AnythingOfType("*domain.Order")).
		Return(domain.ErrConcurrencyConflict).Once()
	f.orders.On("CreateWithReservations", ctx, mock.AnythingOfType("*domain.Order")).
		Return(nil).Once()

	lines := []CreateOrderLine{{ListingID: 7, Qty: 1, Start: day(10), End: day(12)}}
	_, err := f.svc.CreateOrder(ctx, 5, "renter@test.com", lines, domain.PaymentOptionFull)
	assert.NoError(t, err)
	f.orders.AssertExpectations(t)
}

func TestCreateOrder_InvalidArguments(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, 5, "renter@test.com", nil, domain.PaymentOptionFull)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	lines := []CreateOrderLine{{ListingID: 7, Qty: 1, Start: day(10), End: day(12)}}
	_, err = f.svc.CreateOrder(ctx, 5, "renter@test.com", lines, "barter")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestGetOrder_Authorization(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.orders.On("GetByID", ctx, int64(42)).Return(&domain.Order{ID: 42, RenterID: 5}, nil)

	order, err := f.svc.GetOrder(ctx, 5, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)

	_, err = f.svc.GetOrder(ctx, 6, 42)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestCancelOrder_Success(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.orders.On("GetByID", ctx, int64(42)).
		Return(&domain.Order{ID: 42, RenterID: 5, RenterEmail: "renter@test.com", Reference: "ref-1", Status: domain.OrderStatusConfirmed}, nil)
	f.orders.On("Cancel", ctx, int64(42)).Return(nil).Once()
	f.email.On("SendOrderCancelledNotification", ctx, "renter@test.com", "ref-1").Return(nil).Once()

	order, err := f.svc.CancelOrder(ctx, 5, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	f.orders.AssertExpectations(t)
	f.email.AssertExpectations(t)
}

func TestCancelOrder_Idempotent(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.orders.On("GetByID", ctx, int64(42)).
		Return(&domain.Order{ID: 42, RenterID: 5, Status: domain.OrderStatusCancelled}, nil)

	order, err := f.svc.CancelOrder(ctx, 5, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	f.orders.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestCancelOrder_IllegalStates(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	for _, status := range []domain.OrderStatus{domain.OrderStatusInProgress, domain.OrderStatusCompleted, domain.OrderStatusDisputed} {
		f.orders.On("GetByID", ctx, int64(42)).
			Return(&domain.Order{ID: 42, RenterID: 5, Status: status}, nil).Once()
		_, err := f.svc.CancelOrder(ctx, 5, 42)
		assert.True(t, errors.Is(err, domain.ErrInvalidState), "status %s", status)
	}
	f.orders.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.orders.On("GetByID", ctx, int64(42)).
		Return(&domain.Order{ID: 42, Status: domain.OrderStatusQuote}, nil)

	_, err := f.svc.UpdateStatus(ctx, 42, domain.OrderStatusCompleted, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	_, err = f.svc.UpdateStatus(ctx, 42, "SHIPPED", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestUpdateStatus_Success(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.orders.On("GetByID", ctx, int64(42)).
		Return(&domain.Order{ID: 42, Status: domain.OrderStatusConfirmed}, nil)
	f.orders.On("UpdateStatus", ctx, int64(42), domain.OrderStatusInProgress, "picked up").Return(nil).Once()

	order, err := f.svc.UpdateStatus(ctx, 42, domain.OrderStatusInProgress, "picked up")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInProgress, order.Status)
	f.orders.AssertExpectations(t)
}

func TestResolveDispute(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	t.Run("favor customer cancels", func(t *testing.T) {
		f.orders.On("GetByID", ctx, int64(42)).
			Return(&domain.Order{ID: 42, Status: domain.OrderStatusDisputed}, nil).Once()
		f.orders.On("UpdateStatus", ctx, int64(42), domain.OrderStatusCancelled, "dispute resolved (favor_customer): item damaged").
			Return(nil).Once()

		order, err := f.svc.ResolveDispute(ctx, 42, domain.ResolutionFavorCustomer, "item damaged")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	})

	t.Run("favor host completes", func(t *testing.T) {
		f.orders.On("GetByID", ctx, int64(42)).
			Return(&domain.Order{ID: 42, Status: domain.OrderStatusDisputed}, nil).Once()
		f.orders.On("UpdateStatus", ctx, int64(42), domain.OrderStatusCompleted, "dispute resolved (favor_host)").
			Return(nil).Once()

		order, err := f.svc.ResolveDispute(ctx, 42, domain.ResolutionFavorHost, "")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	})

	t.Run("not disputed", func(t *testing.T) {
		f.orders.On("GetByID", ctx, int64(42)).
			Return(&domain.Order{ID: 42, Status: domain.OrderStatusConfirmed}, nil).Once()

		_, err := f.svc.ResolveDispute(ctx, 42, domain.ResolutionFavorHost, "")
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
	})

	t.Run("unknown resolution", func(t *testing.T) {
		_, err := f.svc.ResolveDispute(ctx, 42, "coin_flip", "")
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	})

	f.orders.AssertExpectations(t)
}

func TestMarkPaid_ConfirmsQuote(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.orders.On("GetByID", ctx, int64(42)).
		Return(&domain.Order{ID: 42, RenterEmail: "renter@test.com", Reference: "ref-1", Status: domain.OrderStatusQuote, PaymentStatus: domain.PaymentStatusPending, TotalDueCents: 8000}, nil)
	f.orders.On("MarkPaid", ctx, int64(42)).Return(nil).Once()
	f.orders.On("UpdateStatus", ctx, int64(42), domain.OrderStatusConfirmed, "").Return(nil).Once()
	f.email.On("SendOrderConfirmedNotification", ctx, "renter@test.com", "ref-1", int64(8000)).Return(nil).Once()

	order, err := f.svc.MarkPaid(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
	f.orders.AssertExpectations(t)
	f.email.AssertExpectations(t)
}

func TestMarkPaid_Idempotent(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.orders.On("GetByID", ctx, int64(42)).
		Return(&domain.Order{ID: 42, Status: domain.OrderStatusConfirmed, PaymentStatus: domain.PaymentStatusPaid}, nil)

	order, err := f.svc.MarkPaid(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
	f.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
}

func TestQuoteOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.listings.On("GetByID", ctx, int64(7)).Return(testListing(), nil)

	lines := []CreateOrderLine{
		{ListingID: 7, Qty: 1, Start: day(10), End: day(12)},
		{ListingID: 7, Qty: 2, Start: day(14), End: day(15)},
	}
	quote, err := f.svc.QuoteOrder(ctx, lines, domain.PaymentOptionFull)
	require.NoError(t, err)
	// Line one: 2 days x 4000 = 8000. Line two: 1 day x 4000 x 2 = 8000.
	assert.Equal(t, int64(16000), quote.SubtotalCents)
	assert.Equal(t, int64(3200), quote.DepositCents)
	assert.Equal(t, int64(1600), quote.CommissionCents)
	assert.Equal(t, int64(16000), quote.TotalDueNowCents)
	f.orders.AssertNotCalled(t, "CreateWithReservations", mock.Anything, mock.Anything)
}
