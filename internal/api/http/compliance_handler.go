package http

import (
	"net/http"

	"rentloop-backend/internal/service"
)

type ComplianceHandler struct {
	compliance service.ComplianceService
}

func NewComplianceHandler(compliance service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{compliance: compliance}
}

func (h *ComplianceHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state, events, err := h.compliance.GetState(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": state, "events": events})
}

func (h *ComplianceHandler) ResetScore(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.compliance.ResetScore(r.Context(), claimsFrom(r).UserID, userID, req.Note); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
