package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/logger"
)

// Envelope is the single response shape for every endpoint. Clients never
// have to branch on nesting: payloads live under data, human-readable
// context under message.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// writeError maps the domain error taxonomy onto HTTP status codes. The
// conflicting window of an availability failure is returned under data so
// clients can render alternatives.
func writeError(w http.ResponseWriter, err error) {
	var conflict *domain.AvailabilityConflict
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, Envelope{Success: false, Data: conflict, Message: conflict.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInsufficientAvailability),
		errors.Is(err, domain.ErrConcurrencyConflict):
		status = http.StatusConflict
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Internal error", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, Envelope{Success: false, Message: msg})
}
