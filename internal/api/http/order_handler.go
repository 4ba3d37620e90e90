package http

import (
	"encoding/json"
	"net/http"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/service"
)

type OrderHandler struct {
	orderSvc service.OrderService
}

func NewOrderHandler(orderSvc service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

type orderLineRequest struct {
	ListingID int64     `json:"listing_id"`
	Qty       int32     `json:"qty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

type createOrderRequest struct {
	Lines         []orderLineRequest `json:"lines"`
	PaymentOption string             `json:"payment_option"`
}

func (req *createOrderRequest) toLines() []service.CreateOrderLine {
	lines := make([]service.CreateOrderLine, 0, len(req.Lines))
	for _, ln := range req.Lines {
		lines = append(lines, service.CreateOrderLine{
			ListingID: ln.ListingID,
			Qty:       ln.Qty,
			Start:     ln.Start,
			End:       ln.End,
		})
	}
	return lines
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewInvalidArgument("malformed request body"))
		return
	}

	order, err := h.orderSvc.CreateOrder(r.Context(), claims.UserID, claims.Email,
		req.toLines(), domain.PaymentOption(req.PaymentOption))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, order)
}

func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewInvalidArgument("malformed request body"))
		return
	}
	quote, err := h.orderSvc.QuoteOrder(r.Context(), req.toLines(), domain.PaymentOption(req.PaymentOption))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, quote)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	order, err := h.orderSvc.GetOrder(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status     string `json:"status"`
	Notes      string `json:"notes"`
	Resolution string `json:"resolution"`
}

// UpdateStatus advances the order state machine. When the body carries a
// resolution the transition is treated as a dispute settlement.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewInvalidArgument("malformed request body"))
		return
	}

	var order *domain.Order
	if req.Resolution != "" {
		order, err = h.orderSvc.ResolveDispute(r.Context(), id, domain.DisputeResolution(req.Resolution), req.Notes)
	} else {
		order, err = h.orderSvc.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status), req.Notes)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	order, err := h.orderSvc.CancelOrder(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, order)
}

// MarkPaid is the callback surface for the payment collaborator: it flips
// payment status to paid and confirms the quote.
func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	order, err := h.orderSvc.MarkPaid(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, order)
}
