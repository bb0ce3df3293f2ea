package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/logger"
)

type errorResponse struct {
	Error        string `json:"error"`
	Code         string `json:"code,omitempty"`
	CurrentState string `json:"current_state,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the application error taxonomy onto HTTP status codes so
// each failure surfaces as a distinct, named condition.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logger.Error("unhandled error at HTTP boundary", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindState:
		status = http.StatusUnprocessableEntity
	case apperr.KindAuthorization:
		status = http.StatusForbidden
	case apperr.KindCompliance:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	}

	writeJSON(w, status, errorResponse{
		Error:        appErr.Message,
		Code:         appErr.Code,
		CurrentState: appErr.CurrentState,
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
