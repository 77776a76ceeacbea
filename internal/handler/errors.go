package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/ski-weather/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v with the given status. Encoding errors are ignored:
// the header is already sent and the client sees a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error to a status and a client-safe body.
// Only validation errors carry detail; every 5xx message is static and the
// cause is logged instead.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		body   ErrorResponse
	)
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
		body = ErrorResponse{Code: "validation_error", Message: unwrapMessage(err)}
	case errors.Is(err, domain.ErrSearchFailed), errors.Is(err, domain.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
		body = ErrorResponse{Code: "upstream_unavailable", Message: "weather service unavailable"}
	case errors.Is(err, domain.ErrCacheDisabled):
		status = http.StatusServiceUnavailable
		body = ErrorResponse{Code: "cache_disabled", Message: "resort cache is not configured"}
	default:
		status = http.StatusInternalServerError
		body = ErrorResponse{Code: "internal_error", Message: "internal server error"}
	}

	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

// badRequest writes a 400 for input rejected before reaching a service.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: message})
}

// unwrapMessage extracts the human-readable part from a wrapped validation error.
// e.g. "service.WeatherService.Forecast: validation error: latitude failed lte=90" → "latitude failed lte=90"
func unwrapMessage(err error) string {
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
