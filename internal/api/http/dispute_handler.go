package http

import (
	"net/http"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/service"
)

type DisputeHandler struct {
	disputes service.DisputeService
}

func NewDisputeHandler(disputes service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

func (h *DisputeHandler) Raise(w http.ResponseWriter, r *http.Request) {
	fineID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	dispute, err := h.disputes.RaiseDispute(r.Context(), claimsFrom(r).UserID, fineID, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dispute)
}

func (h *DisputeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Outcome string `json:"outcome"`
		Notes   string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	outcome := domain.DisputeStatus(req.Outcome)
	if outcome != domain.DisputeStatusResolved && outcome != domain.DisputeStatusRejected {
		writeError(w, apperr.Validation("outcome must be RESOLVED or REJECTED"))
		return
	}
	dispute, err := h.disputes.ResolveDispute(r.Context(), claimsFrom(r).UserID, id, outcome, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}
