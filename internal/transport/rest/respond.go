package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleError maps domain errors to HTTP status codes. Slug collisions map
// to 400, not 409, because the admin UI treats them as form validation
// failures.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "term not found")
	case errors.Is(err, domain.ErrNotConfigured),
		errors.Is(err, domain.ErrGeneration),
		errors.Is(err, domain.ErrImport):
		log.ErrorContext(r.Context(), "operation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
