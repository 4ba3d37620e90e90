package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/service"

	"github.com/gorilla/mux"
)

type ListingHandler struct {
	listingSvc      service.ListingService
	availabilitySvc service.AvailabilityService
}

func NewListingHandler(listingSvc service.ListingService, availabilitySvc service.AvailabilityService) *ListingHandler {
	return &ListingHandler{listingSvc: listingSvc, availabilitySvc: availabilitySvc}
}

type listingRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	TotalQuantity  int32  `json:"total_quantity"`
	BasePriceCents int64  `json:"base_price_cents"`
	UnitType       string `json:"unit_type"`
	DepositType    string `json:"deposit_type"`
	DepositValue   int64  `json:"deposit_value"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewInvalidArgument("malformed request body"))
		return
	}

	listing := &domain.Listing{
		Name:           req.Name,
		Description:    req.Description,
		TotalQuantity:  req.TotalQuantity,
		BasePriceCents: req.BasePriceCents,
		UnitType:       domain.UnitType(req.UnitType),
		DepositType:    domain.DepositType(req.DepositType),
		DepositValue:   req.DepositValue,
	}
	if err := h.listingSvc.CreateListing(r.Context(), claims.UserID, listing); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, listing)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	listing, err := h.listingSvc.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, listing)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewInvalidArgument("malformed request body"))
		return
	}

	listing := &domain.Listing{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		TotalQuantity:  req.TotalQuantity,
		BasePriceCents: req.BasePriceCents,
		UnitType:       domain.UnitType(req.UnitType),
		DepositType:    domain.DepositType(req.DepositType),
		DepositValue:   req.DepositValue,
	}
	if err := h.listingSvc.UpdateListing(r.Context(), claims.UserID, listing); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, listing)
}

func (h *ListingHandler) Archive(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.listingSvc.ArchiveListing(r.Context(), claims.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (h *ListingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)
	listings, total, err := h.listingSvc.ListMyListings(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"listings": listings, "total": total})
}

// Availability serves GET /listings/{id}/availability?start&end&qty.
// Timestamps are RFC 3339.
func (h *ListingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, domain.NewInvalidArgument("start must be an RFC 3339 timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, domain.NewInvalidArgument("end must be an RFC 3339 timestamp"))
		return
	}
	qty := int32(1)
	if raw := r.URL.Query().Get("qty"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v < 1 {
			writeError(w, domain.NewInvalidArgument("qty must be a positive integer"))
			return
		}
		qty = int32(v)
	}

	result, err := h.availabilitySvc.Check(r.Context(), id, start, end, qty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewInvalidArgument("invalid id")
	}
	return id, nil
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(v)
}
