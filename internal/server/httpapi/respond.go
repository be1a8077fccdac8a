package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recordvault/recordvault/internal/common"
	"github.com/recordvault/recordvault/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a storage or programming fault: logged with
// detail, reported without.
func writeServiceError(ctx context.Context, w http.ResponseWriter, logger logging.Logger, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, common.ErrorMissingPayload):
		writeError(w, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, common.ErrorInvalidOrExpiredToken):
		writeError(w, http.StatusNotFound, "Invalid or expired token")
	default:
		logger.Error(ctx, "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
