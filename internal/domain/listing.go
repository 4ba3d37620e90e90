package domain

import "time"

type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "ACTIVE"
	ListingStatusArchived ListingStatus = "ARCHIVED"
)

type UnitType string

const (
	UnitTypeHour  UnitType = "hour"
	UnitTypeDay   UnitType = "day"
	UnitTypeWeek  UnitType = "week"
	UnitTypeMonth UnitType = "month"
)

type DepositType string

const (
	DepositTypePercent DepositType = "percent"
	DepositTypeFlat    DepositType = "flat"
)

// Listing is a rentable item with a finite number of interchangeable units.
type Listing struct {
	ID             int64         `json:"id"`
	HostID         int64         `json:"host_id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	TotalQuantity  int32         `json:"total_quantity"`
	BasePriceCents int64         `json:"base_price_cents"`
	UnitType       UnitType      `json:"unit_type"`
	DepositType    DepositType   `json:"deposit_type"`
	// DepositValue is a whole percentage of the subtotal when DepositType is
	// percent, or an absolute amount in cents per unit when flat.
	DepositValue int64         `json:"deposit_value"`
	Status       ListingStatus `json:"status"`
	CreatedOn    time.Time     `json:"created_on"`
	UpdatedOn    time.Time     `json:"updated_on"`
}

func (u UnitType) Valid() bool {
	switch u {
	case UnitTypeHour, UnitTypeDay, UnitTypeWeek, UnitTypeMonth:
		return true
	}
	return false
}

func (d DepositType) Valid() bool {
	return d == DepositTypePercent || d == DepositTypeFlat
}

// Validate checks the listing invariants before it is persisted.
func (l *Listing) Validate() error {
	if l.Name == "" {
		return NewInvalidArgument("listing name is required")
	}
	if l.TotalQuantity < 1 {
		return NewInvalidArgument("total quantity must be at least 1")
	}
	if l.BasePriceCents < 0 {
		return NewInvalidArgument("base price must not be negative")
	}
	if !l.UnitType.Valid() {
		return NewInvalidArgument("unknown unit type")
	}
	if !l.DepositType.Valid() {
		return NewInvalidArgument("unknown deposit type")
	}
	if l.DepositValue < 0 {
		return NewInvalidArgument("deposit value must not be negative")
	}
	if l.DepositType == DepositTypePercent && l.DepositValue > 100 {
		return NewInvalidArgument("percent deposit must not exceed 100")
	}
	return nil
}
