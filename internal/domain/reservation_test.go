package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func TestReservationOverlaps(t *testing.T) {
	r := &Reservation{StartAt: date(10), EndAt: date(12)}

	assert.True(t, r.Overlaps(date(11), date(13)))
	assert.True(t, r.Overlaps(date(9), date(11)))
	assert.True(t, r.Overlaps(date(9), date(13)))
	assert.True(t, r.Overlaps(date(10), date(12)))

	// Half-open intervals: touching endpoints do not overlap.
	assert.False(t, r.Overlaps(date(12), date(14)))
	assert.False(t, r.Overlaps(date(8), date(10)))
}

func TestReservationHolding(t *testing.T) {
	assert.True(t, (&Reservation{Status: ReservationStatusConfirmed}).Holding())
	assert.True(t, (&Reservation{Status: ReservationStatusActive}).Holding())
	assert.False(t, (&Reservation{Status: ReservationStatusReturned}).Holding())
	assert.False(t, (&Reservation{Status: ReservationStatusCancelled}).Holding())
}
