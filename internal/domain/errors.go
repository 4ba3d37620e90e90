package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidArgument          = errors.New("invalid argument")
	ErrNotFound                 = errors.New("not found")
	ErrInsufficientAvailability = errors.New("insufficient availability")
	ErrInvalidState             = errors.New("invalid state transition")
	ErrConcurrencyConflict      = errors.New("concurrency conflict")
	ErrUnauthorized             = errors.New("unauthorized")
)

// NewInvalidArgument wraps ErrInvalidArgument with a reason so callers can
// still match it with errors.Is.
func NewInvalidArgument(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, reason)
}

// AvailabilityConflict reports the window that could not be satisfied.
// It unwraps to ErrInsufficientAvailability.
type AvailabilityConflict struct {
	ListingID    int64     `json:"listing_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	RequestedQty int32     `json:"requested_qty"`
	AvailableQty int32     `json:"available_qty"`
}

func (c *AvailabilityConflict) Error() string {
	return fmt.Sprintf("insufficient availability for listing %d: requested %d, only %d free in [%s, %s)",
		c.ListingID, c.RequestedQty, c.AvailableQty,
		c.Start.Format(time.RFC3339), c.End.Format(time.RFC3339))
}

func (c *AvailabilityConflict) Unwrap() error {
	return ErrInsufficientAvailability
}
