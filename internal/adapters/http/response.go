package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("encode response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorEnvelope{Error: message, Details: details})
}

// writeDomainError maps an error's kind to a status code so handlers never
// leak transport or provider internals in the status choice.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
	case domain.IsKind(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", err.Error())
	case domain.IsKind(err, domain.ErrRateLimited):
		w.Header().Set("Retry-After", "30")
		writeError(w, http.StatusTooManyRequests, "model provider throttled", err.Error())
	case domain.IsKind(err, domain.ErrTemporary):
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable", err.Error())
	case domain.IsKind(err, domain.ErrUpstream), domain.IsKind(err, domain.ErrUpload):
		writeError(w, http.StatusBadGateway, "model provider error", err.Error())
	case domain.IsKind(err, domain.ErrEmptyResponse), domain.IsKind(err, domain.ErrMalformedResponse):
		writeError(w, http.StatusBadGateway, "unusable model response", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
