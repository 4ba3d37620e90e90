package pricing

import (
	"time"

	"peerrent-backend/internal/domain"
)

// DefaultCommissionPercent is the platform's cut of the subtotal when the
// deployment does not configure one.
const DefaultCommissionPercent = 10

// Quote is the computed price for one booking line or a whole order.
// All amounts are in cents; rounding happens once per derived amount.
type Quote struct {
	DurationUnits    int64 `json:"duration_units"`
	SubtotalCents    int64 `json:"subtotal_cents"`
	DepositCents     int64 `json:"deposit_cents"`
	CommissionCents  int64 `json:"commission_cents"`
	TotalDueNowCents int64 `json:"total_due_now_cents"`
}

// UnitDuration maps a billing unit to its fixed span. A month is billed as 30
// days regardless of calendar month length.
func UnitDuration(u domain.UnitType) time.Duration {
	switch u {
	case domain.UnitTypeHour:
		return time.Hour
	case domain.UnitTypeWeek:
		return 7 * 24 * time.Hour
	case domain.UnitTypeMonth:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// DurationUnits returns ceil((end-start)/unit). A partial unit is billed as a
// full unit; this round-up policy is deliberate.
func DurationUnits(start, end time.Time, unit domain.UnitType) (int64, error) {
	if !end.After(start) {
		return 0, domain.NewInvalidArgument("end must be after start")
	}
	span := end.Sub(start)
	u := UnitDuration(unit)
	units := int64(span / u)
	if span%u > 0 {
		units++
	}
	return units, nil
}

// Compute prices qty units of listing over [start, end). It is a pure
// function: same inputs always produce the same quote.
func Compute(listing *domain.Listing, qty int32, start, end time.Time, option domain.PaymentOption, commissionPercent int64) (Quote, error) {
	if qty < 1 {
		return Quote{}, domain.NewInvalidArgument("qty must be at least 1")
	}
	units, err := DurationUnits(start, end, listing.UnitType)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{DurationUnits: units}
	q.SubtotalCents = listing.BasePriceCents * units * int64(qty)

	switch listing.DepositType {
	case domain.DepositTypePercent:
		q.DepositCents = roundHalfUpPercent(q.SubtotalCents, listing.DepositValue)
	case domain.DepositTypeFlat:
		q.DepositCents = listing.DepositValue * int64(qty)
	default:
		return Quote{}, domain.NewInvalidArgument("unknown deposit type")
	}

	q.CommissionCents = roundHalfUpPercent(q.SubtotalCents, commissionPercent)

	if option == domain.PaymentOptionDeposit {
		q.TotalDueNowCents = q.DepositCents
	} else {
		q.TotalDueNowCents = q.SubtotalCents
	}
	return q, nil
}

// roundHalfUpPercent computes amount*percent/100 in integer cents, rounding
// half up.
func roundHalfUpPercent(amountCents, percent int64) int64 {
	return (amountCents*percent + 50) / 100
}
