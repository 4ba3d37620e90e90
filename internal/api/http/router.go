package http

import (
	"net/http"

	"peerrent-backend/internal/security"
	"peerrent-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires all HTTP routes. Authenticated routes sit behind the JWT
// middleware; health and metrics do not.
func NewRouter(
	tokens security.TokenManager,
	listingSvc service.ListingService,
	availabilitySvc service.AvailabilityService,
	orderSvc service.OrderService,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogger)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	listingHandler := NewListingHandler(listingSvc, availabilitySvc)
	orderHandler := NewOrderHandler(orderSvc)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/listings", listingHandler.Create).Methods("POST")
	api.HandleFunc("/listings/mine", listingHandler.ListMine).Methods("GET")
	api.HandleFunc("/listings/{id}", listingHandler.Get).Methods("GET")
	api.HandleFunc("/listings/{id}", listingHandler.Update).Methods("PATCH")
	api.HandleFunc("/listings/{id}", listingHandler.Archive).Methods("DELETE")
	api.HandleFunc("/listings/{id}/availability", listingHandler.Availability).Methods("GET")

	api.HandleFunc("/orders", orderHandler.Create).Methods("POST")
	api.HandleFunc("/orders/quote", orderHandler.Quote).Methods("POST")
	api.HandleFunc("/orders/{id}", orderHandler.Get).Methods("GET")
	api.HandleFunc("/orders/{id}/status", orderHandler.UpdateStatus).Methods("PATCH")
	api.HandleFunc("/orders/{id}/cancel", orderHandler.Cancel).Methods("POST")
	api.HandleFunc("/orders/{id}/payment", orderHandler.MarkPaid).Methods("POST")

	return router
}
