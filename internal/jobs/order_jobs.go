package jobs

import (
	"context"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/logger"
)

// ExpireStaleQuotes cancels quotes that were never paid within the TTL,
// releasing their reservations back to the pool.
func (jr *JobRunner) ExpireStaleQuotes() {
	jr.runWithRecovery("expire_stale_quotes", func() {
		ctx := context.Background()
		ttl := time.Duration(jr.config.Booking.QuoteTTLMinutes) * time.Minute
		cutoff := time.Now().UTC().Add(-ttl)

		orders, err := jr.store.OrderRepository.ListQuotesCreatedBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale quotes", "error", err)
			return
		}

		for _, order := range orders {
			if err := jr.store.OrderRepository.Cancel(ctx, order.ID); err != nil {
				logger.Error("Failed to expire quote", "order_id", order.ID, "error", err)
				continue
			}
			logger.Info("Expired stale quote", "order_id", order.ID, "reference", order.Reference)
		}
	})
}

// ActivateStartedOrders moves confirmed orders whose rental period has begun
// into IN_PROGRESS, marking their reservations active.
func (jr *JobRunner) ActivateStartedOrders() {
	jr.runWithRecovery("activate_started_orders", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		orders, err := jr.store.OrderRepository.ListConfirmedStartingBy(ctx, now)
		if err != nil {
			logger.Error("Failed to list confirmed orders", "error", err)
			return
		}

		for _, order := range orders {
			if _, err := jr.orderSvc.UpdateStatus(ctx, order.ID, domain.OrderStatusInProgress, "rental period started"); err != nil {
				logger.Error("Failed to activate order", "order_id", order.ID, "error", err)
				continue
			}
			logger.Info("Activated order", "order_id", order.ID, "reference", order.Reference)
		}
	})
}

// CompleteFinishedOrders completes in-progress orders whose rental period has
// ended, returning their units to the pool.
func (jr *JobRunner) CompleteFinishedOrders() {
	jr.runWithRecovery("complete_finished_orders", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		orders, err := jr.store.OrderRepository.ListInProgressEndedBy(ctx, now)
		if err != nil {
			logger.Error("Failed to list in-progress orders", "error", err)
			return
		}

		for _, order := range orders {
			if _, err := jr.orderSvc.UpdateStatus(ctx, order.ID, domain.OrderStatusCompleted, "rental period ended"); err != nil {
				logger.Error("Failed to complete order", "order_id", order.ID, "error", err)
				continue
			}
			logger.Info("Completed order", "order_id", order.ID, "reference", order.Reference)
		}
	})
}

// SendReturnReminders emails renters whose rentals end within the next day.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("send_return_reminders", func() {
		ctx := context.Background()
		now := time.Now().UTC()
		window := now.Add(24 * time.Hour)

		orders, err := jr.store.OrderRepository.ListInProgressEndingWithin(ctx, now, window)
		if err != nil {
			logger.Error("Failed to list orders ending soon", "error", err)
			return
		}

		for _, order := range orders {
			if err := jr.emailSvc.SendReturnReminderNotification(ctx, order.RenterEmail, order.Reference, order.LatestEnd()); err != nil {
				logger.Error("Failed to send return reminder", "order_id", order.ID, "error", err)
				continue
			}
			logger.Info("Sent return reminder", "order_id", order.ID, "reference", order.Reference)
		}
	})
}
