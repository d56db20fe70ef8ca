package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/autoprime/backend/internal/domain"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps a domain error to its HTTP status and error code.
// Unrecognized errors become opaque 500s; the detail stays in the server log,
// not the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		code   string
	)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidRange):
		status, code = http.StatusUnprocessableEntity, "invalid_range"
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, domain.ErrVehicleUnavailable):
		status, code = http.StatusConflict, "vehicle_unavailable"
	case errors.Is(err, domain.ErrDateConflict):
		status, code = http.StatusConflict, "date_conflict"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrDuplicatePayment):
		status, code = http.StatusConflict, "duplicate_payment"
	default:
		slog.ErrorContext(r.Context(), "internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "internal", Message: "internal server error"},
		})
		return
	}

	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: trimWrapPrefixes(err.Error())}})
}

// badRequest writes a 400 for requests rejected before reaching the service
// layer (malformed JSON, bad UUID, bad date).
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{Code: "bad_request", Message: message},
	})
}

// trimWrapPrefixes strips the internal call-site prefixes from a wrapped
// error, e.g. "service.ReservationService.Create: repo.BookingRepo.GetByID:
// not found" → "not found". Clients get the human-readable tail; the full
// chain stays in the log.
func trimWrapPrefixes(msg string) string {
	for {
		i := strings.Index(msg, ": ")
		if i < 0 {
			return msg
		}
		prefix := msg[:i]
		if !strings.HasPrefix(prefix, "service.") && !strings.HasPrefix(prefix, "repo.") && !strings.HasPrefix(prefix, "pricing.") {
			return msg
		}
		msg = msg[i+2:]
	}
}
