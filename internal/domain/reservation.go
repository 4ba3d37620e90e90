package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusReturned  ReservationStatus = "RETURNED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// HoldingStatuses are the reservation statuses that count against listing
// capacity. Cancelled and returned reservations release their units.
var HoldingStatuses = []ReservationStatus{ReservationStatusConfirmed, ReservationStatusActive}

// Reservation commits qty units of a listing over the half-open interval
// [StartAt, EndAt). It is created only inside an order's atomic commit and is
// owned by exactly one order.
type Reservation struct {
	ID        int64             `json:"id"`
	ListingID int64             `json:"listing_id"`
	OrderID   int64             `json:"order_id"`
	Qty       int32             `json:"qty"`
	StartAt   time.Time         `json:"start_at"`
	EndAt     time.Time         `json:"end_at"`
	Status    ReservationStatus `json:"status"`
	CreatedOn time.Time         `json:"created_on"`
}

// Overlaps reports whether the reservation's interval intersects [start, end).
// Intervals are half-open, so [10:00, 12:00) and [12:00, 14:00) do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartAt.Before(end) && r.EndAt.After(start)
}

// Holding reports whether the reservation currently counts against capacity.
func (r *Reservation) Holding() bool {
	return r.Status == ReservationStatusConfirmed || r.Status == ReservationStatusActive
}

// Window is a proposed alternative rental period.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailabilityResult is the outcome of an availability check. NextAvailable is
// a best-effort suggestion; a concurrent booking can still claim a proposed
// window before the caller commits.
type AvailabilityResult struct {
	Available     bool     `json:"available"`
	AvailableQty  int32    `json:"available_qty"`
	NextAvailable []Window `json:"next_available,omitempty"`
}
