package http

import (
	"net/http"
	"strconv"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
	"rentloop-backend/internal/service"
)

type PenaltyHandler struct {
	penalties service.PenaltyService
}

func NewPenaltyHandler(penalties service.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{penalties: penalties}
}

func (h *PenaltyHandler) ListFines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.FineFilter{
		Status:      domain.FineStatus(q.Get("status")),
		Reason:      domain.FineReason(q.Get("reason")),
		Collectable: q.Get("collectable") == "true",
	}
	if bookingID, err := strconv.ParseInt(q.Get("booking_id"), 10, 64); err == nil {
		filter.BookingID = bookingID
	}
	if page, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil {
		filter.Page = int32(page)
	}
	if pageSize, err := strconv.ParseInt(q.Get("page_size"), 10, 32); err == nil {
		filter.PageSize = int32(pageSize)
	}

	fines, total, err := h.penalties.ListFines(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fines": fines, "total": total})
}

type reportDamageRequest struct {
	BookingID   int64    `json:"booking_id"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"image_urls"`
}

func (h *PenaltyHandler) ReportDamage(w http.ResponseWriter, r *http.Request) {
	var req reportDamageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	report, err := h.penalties.ReportDamage(r.Context(), claimsFrom(r).UserID, req.BookingID, req.Description, req.ImageURLs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (h *PenaltyHandler) ApproveDamage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		FineAmountCents int64  `json:"fine_amount_cents"`
		Notes           string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	report, err := h.penalties.ApproveDamage(r.Context(), claimsFrom(r).UserID, id, req.FineAmountCents, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *PenaltyHandler) RejectDamage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	report, err := h.penalties.RejectDamage(r.Context(), claimsFrom(r).UserID, id, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
