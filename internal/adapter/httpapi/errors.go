package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mcardoso/trading-platform/internal/domain"
)

// statusForKind maps the domain error taxonomy onto HTTP status codes.
// Rejections (caller's fault or business-rule violations) are 4xx;
// retriable failures are 409/503 so clients know to retry the use case.
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidState, domain.KindConcurrencyConflict:
		return http.StatusConflict
	case domain.KindInsufficientFunds, domain.KindInsufficientQuantity:
		return http.StatusUnprocessableEntity
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForKind(domain.KindOf(err))

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak storage internals to clients.
		message = "an unexpected error occurred"
	}

	writeErrorMessage(w, status, message)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
