package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"imagebind/internal/viewmodel"
	"imagebind/pkg/types"
)

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusForStartError maps view model admission errors to HTTP status codes.
func statusForStartError(err error) int {
	switch {
	case errors.Is(err, viewmodel.ErrDownloadInFlight):
		return http.StatusConflict
	case errors.Is(err, viewmodel.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logError(err, "encode response")
	}
}
