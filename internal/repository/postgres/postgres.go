package postgres

import (
	"database/sql"
	"errors"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ListingRepository
	repository.ReservationRepository
	repository.OrderRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		ListingRepository:     NewListingRepository(db),
		ReservationRepository: NewReservationRepository(db),
		OrderRepository:       NewOrderRepository(db),
	}
}

// translateError maps driver-level failures onto the domain taxonomy.
// Serialization failures and deadlocks are retryable concurrency conflicts;
// a missing row is NotFound.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return domain.ErrConcurrencyConflict
		}
	}
	return err
}
