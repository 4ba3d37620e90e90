package postgres

import (
	"context"
	"database/sql"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"

	"github.com/lib/pq"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	query := `SELECT id, listing_id, order_id, qty, start_at, end_at, status, created_on FROM reservations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.ListingID, &res.OrderID, &res.Qty, &res.StartAt, &res.EndAt, &res.Status, &res.CreatedOn)
	if err != nil {
		return nil, translateError(err)
	}
	return res, nil
}

func (r *reservationRepository) QueryOverlapping(ctx context.Context, listingID int64, start, end time.Time, statuses []domain.ReservationStatus) ([]domain.Reservation, error) {
	// Half-open interval overlap: res.start_at < end AND res.end_at > start.
	// The (listing_id, start_at, end_at) index serves this query.
	query := `SELECT id, listing_id, order_id, qty, start_at, end_at, status, created_on
	          FROM reservations
	          WHERE listing_id = $1 AND start_at < $2 AND end_at > $3 AND status = ANY($4)
	          ORDER BY start_at`
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	rows, err := r.db.QueryContext(ctx, query, listingID, end, start, pq.Array(ss))
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.ListingID, &res.OrderID, &res.Qty, &res.StartAt, &res.EndAt, &res.Status, &res.CreatedOn); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Cancel releases a reservation's units. The WHERE clause skips reservations
// that are already cancelled, which makes a second call a no-op.
func (r *reservationRepository) Cancel(ctx context.Context, id int64) error {
	query := `UPDATE reservations SET status='CANCELLED' WHERE id=$1 AND status <> 'CANCELLED'`
	_, err := r.db.ExecContext(ctx, query, id)
	return translateError(err)
}
