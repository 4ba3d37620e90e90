package domain

import "time"

type OrderStatus string

const (
	OrderStatusQuote      OrderStatus = "QUOTE"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusDisputed   OrderStatus = "DISPUTED"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

type PaymentOption string

const (
	PaymentOptionFull    PaymentOption = "full"
	PaymentOptionDeposit PaymentOption = "deposit"
)

type DisputeResolution string

const (
	ResolutionFavorCustomer DisputeResolution = "favor_customer"
	ResolutionFavorHost     DisputeResolution = "favor_host"
	ResolutionSplitDecision DisputeResolution = "split_decision"
)

// orderTransitions is the order state machine. Quote moves forward through
// confirmed and in_progress to completed; cancellation is possible while the
// rental has not started, disputes while it is underway.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusQuote:      {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusInProgress, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusInProgress: {OrderStatusCompleted, OrderStatusDisputed},
	OrderStatusDisputed:   {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusQuote, OrderStatusConfirmed, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusDisputed:
		return true
	}
	return false
}

func (r DisputeResolution) Valid() bool {
	switch r {
	case ResolutionFavorCustomer, ResolutionFavorHost, ResolutionSplitDecision:
		return true
	}
	return false
}

// Outcome is the terminal order status a dispute resolution settles to.
// favor_customer voids the order; favor_host and split_decision complete it,
// with the financial split handled by the settlement side.
func (r DisputeResolution) Outcome() OrderStatus {
	if r == ResolutionFavorCustomer {
		return OrderStatusCancelled
	}
	return OrderStatusCompleted
}

// OrderLine books one listing for one period. Each line owns exactly one
// reservation.
type OrderLine struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"order_id"`
	ListingID     int64     `json:"listing_id"`
	ReservationID int64     `json:"reservation_id"`
	Qty           int32     `json:"qty"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	SubtotalCents int64     `json:"subtotal_cents"`
	DepositCents  int64     `json:"deposit_cents"`
}

// Order aggregates one or more lines. All monetary fields are derived by the
// pricing calculator at creation time and never hand-edited afterwards.
type Order struct {
	ID                      int64         `json:"id"`
	Reference               string        `json:"reference"`
	RenterID                int64         `json:"renter_id"`
	RenterEmail             string        `json:"renter_email"`
	Lines                   []OrderLine   `json:"lines"`
	Status                  OrderStatus   `json:"status"`
	PaymentStatus           PaymentStatus `json:"payment_status"`
	PaymentOption           PaymentOption `json:"payment_option"`
	SubtotalCents           int64         `json:"subtotal_cents"`
	DepositCents            int64         `json:"deposit_cents"`
	PlatformCommissionCents int64         `json:"platform_commission_cents"`
	TotalDueCents           int64         `json:"total_due_cents"`
	Notes                   string        `json:"notes"`
	CreatedOn               time.Time     `json:"created_on"`
	UpdatedOn               time.Time     `json:"updated_on"`
}

// EarliestStart returns the earliest line start, or the zero time for an
// order without lines.
func (o *Order) EarliestStart() time.Time {
	var t time.Time
	for _, ln := range o.Lines {
		if t.IsZero() || ln.StartAt.Before(t) {
			t = ln.StartAt
		}
	}
	return t
}

// LatestEnd returns the latest line end, or the zero time for an order
// without lines.
func (o *Order) LatestEnd() time.Time {
	var t time.Time
	for _, ln := range o.Lines {
		if ln.EndAt.After(t) {
			t = ln.EndAt
		}
	}
	return t
}
