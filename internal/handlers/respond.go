// Package handlers contains the HTTP endpoints of the prediction API.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/wahdanz1/taxipred/internal/errors"
	"github.com/wahdanz1/taxipred/internal/middleware"
)

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError maps an application error onto its HTTP form. Unknown error
// types become opaque 500s so internals never leak.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := err.(*apperrors.Error)
	if !ok {
		appErr = apperrors.NewInternalError("Internal server error", nil)
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	respondJSON(w, appErr.StatusCode, apperrors.NewErrorResponse(appErr, requestID))
}
