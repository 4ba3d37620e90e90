package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithReservations is the authoritative commit path for bookings. It
// locks the affected listing rows, re-reads the committed quantity for every
// line's window, and only then inserts the order, its lines, and their
// reservations. Two concurrent commits against overlapping intervals on the
// same listing serialize on the listing row lock; the loser re-reads the
// winner's reservation and fails with an AvailabilityConflict instead of
// overbooking.
func (r *orderRepository) CreateWithReservations(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translateError(err)
	}
	defer tx.Rollback()

	// Lock listing rows in ascending id order to avoid lock-order deadlocks
	// between concurrent multi-line orders.
	capacities := make(map[int64]int32)
	for _, id := range sortedListingIDs(o.Lines) {
		var totalQty int32
		err := tx.QueryRowContext(ctx,
			`SELECT total_quantity FROM listings WHERE id = $1 AND status = 'ACTIVE' FOR UPDATE`,
			id).Scan(&totalQty)
		if err != nil {
			return translateError(err)
		}
		capacities[id] = totalQty
	}

	for i, ln := range o.Lines {
		var committed int32
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(qty), 0) FROM reservations
			 WHERE listing_id = $1 AND status IN ('CONFIRMED', 'ACTIVE')
			   AND start_at < $2 AND end_at > $3`,
			ln.ListingID, ln.EndAt, ln.StartAt).Scan(&committed)
		if err != nil {
			return translateError(err)
		}
		// Sibling lines of this order are not in the ledger yet; count the
		// already-verified ones that overlap this line's window.
		for _, prev := range o.Lines[:i] {
			if prev.ListingID == ln.ListingID &&
				prev.StartAt.Before(ln.EndAt) && prev.EndAt.After(ln.StartAt) {
				committed += prev.Qty
			}
		}
		if committed+ln.Qty > capacities[ln.ListingID] {
			return &domain.AvailabilityConflict{
				ListingID:    ln.ListingID,
				Start:        ln.StartAt,
				End:          ln.EndAt,
				RequestedQty: ln.Qty,
				AvailableQty: capacities[ln.ListingID] - committed,
			}
		}
	}

	now := time.Now()
	o.CreatedOn = now
	o.UpdatedOn = now
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (reference, renter_id, renter_email, status, payment_status, payment_option, subtotal_cents, deposit_cents, platform_commission_cents, total_due_cents, notes, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
		o.Reference, o.RenterID, o.RenterEmail, o.Status, o.PaymentStatus, o.PaymentOption,
		o.SubtotalCents, o.DepositCents, o.PlatformCommissionCents, o.TotalDueCents, o.Notes, now, now).Scan(&o.ID)
	if err != nil {
		return translateError(err)
	}

	for i := range o.Lines {
		ln := &o.Lines[i]
		ln.OrderID = o.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO reservations (listing_id, order_id, qty, start_at, end_at, status, created_on)
			 VALUES ($1, $2, $3, $4, $5, 'CONFIRMED', $6) RETURNING id`,
			ln.ListingID, o.ID, ln.Qty, ln.StartAt, ln.EndAt, now).Scan(&ln.ReservationID)
		if err != nil {
			return translateError(err)
		}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_lines (order_id, listing_id, reservation_id, qty, start_at, end_at, subtotal_cents, deposit_cents)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			o.ID, ln.ListingID, ln.ReservationID, ln.Qty, ln.StartAt, ln.EndAt, ln.SubtotalCents, ln.DepositCents).Scan(&ln.ID)
		if err != nil {
			return translateError(err)
		}
	}

	return translateError(tx.Commit())
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o := &domain.Order{}
	query := `SELECT id, reference, renter_id, renter_email, status, payment_status, payment_option, subtotal_cents, deposit_cents, platform_commission_cents, total_due_cents, notes, created_on, updated_on
	          FROM orders WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Reference, &o.RenterID, &o.RenterEmail, &o.Status, &o.PaymentStatus, &o.PaymentOption,
		&o.SubtotalCents, &o.DepositCents, &o.PlatformCommissionCents, &o.TotalDueCents, &o.Notes, &o.CreatedOn, &o.UpdatedOn)
	if err != nil {
		return nil, translateError(err)
	}
	if o.Lines, err = r.loadLines(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	query := `SELECT id, order_id, listing_id, reservation_id, qty, start_at, end_at, subtotal_cents, deposit_cents
	          FROM order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var ln domain.OrderLine
		if err := rows.Scan(&ln.ID, &ln.OrderID, &ln.ListingID, &ln.ReservationID, &ln.Qty,
			&ln.StartAt, &ln.EndAt, &ln.SubtotalCents, &ln.DepositCents); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

// UpdateStatus writes the new order status and the matching reservation
// transition in one transaction: in_progress activates confirmed
// reservations, completed returns active ones, cancelled releases anything
// still holding units.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, notes string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translateError(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status=$1, notes=$2, updated_on=$3 WHERE id=$4`,
		status, notes, time.Now(), id)
	if err != nil {
		return translateError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	var resQuery string
	switch status {
	case domain.OrderStatusInProgress:
		resQuery = `UPDATE reservations SET status='ACTIVE' WHERE order_id=$1 AND status='CONFIRMED'`
	case domain.OrderStatusCompleted:
		resQuery = `UPDATE reservations SET status='RETURNED' WHERE order_id=$1 AND status IN ('CONFIRMED','ACTIVE')`
	case domain.OrderStatusCancelled:
		resQuery = `UPDATE reservations SET status='CANCELLED' WHERE order_id=$1 AND status IN ('CONFIRMED','ACTIVE')`
	}
	if resQuery != "" {
		if _, err := tx.ExecContext(ctx, resQuery, id); err != nil {
			return translateError(err)
		}
	}

	return translateError(tx.Commit())
}

func (r *orderRepository) MarkPaid(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status='PAID', updated_on=$1 WHERE id=$2`, time.Now(), id)
	if err != nil {
		return translateError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Cancel(ctx context.Context, id int64) error {
	return r.UpdateStatus(ctx, id, domain.OrderStatusCancelled, "")
}

func (r *orderRepository) ListQuotesCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	return r.listByStatus(ctx,
		`SELECT id FROM orders WHERE status='QUOTE' AND created_on < $1`, cutoff)
}

func (r *orderRepository) ListConfirmedStartingBy(ctx context.Context, t time.Time) ([]domain.Order, error) {
	return r.listByStatus(ctx,
		`SELECT DISTINCT o.id FROM orders o
		 JOIN order_lines ol ON ol.order_id = o.id
		 WHERE o.status='CONFIRMED' AND o.payment_status='PAID' AND ol.start_at <= $1`, t)
}

func (r *orderRepository) ListInProgressEndedBy(ctx context.Context, t time.Time) ([]domain.Order, error) {
	return r.listByStatus(ctx,
		`SELECT o.id FROM orders o
		 WHERE o.status='IN_PROGRESS'
		   AND NOT EXISTS (SELECT 1 FROM order_lines ol WHERE ol.order_id = o.id AND ol.end_at > $1)`, t)
}

func (r *orderRepository) ListInProgressEndingWithin(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	query := `SELECT DISTINCT o.id FROM orders o
	          JOIN order_lines ol ON ol.order_id = o.id
	          WHERE o.status='IN_PROGRESS' AND ol.end_at > $1 AND ol.end_at <= $2`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, translateError(err)
	}
	return r.collect(ctx, rows)
}

func (r *orderRepository) listByStatus(ctx context.Context, query string, arg any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, translateError(err)
	}
	return r.collect(ctx, rows)
}

func (r *orderRepository) collect(ctx context.Context, rows *sql.Rows) ([]domain.Order, error) {
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var orders []domain.Order
	for _, id := range ids {
		o, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load order %d: %w", id, err)
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func sortedListingIDs(lines []domain.OrderLine) []int64 {
	seen := make(map[int64]bool, len(lines))
	var ids []int64
	for _, ln := range lines {
		if !seen[ln.ListingID] {
			seen[ln.ListingID] = true
			ids = append(ids, ln.ListingID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
