package http

import (
	"net/http"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/service"
)

type ReviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookingID int64  `json:"booking_id"`
		Rating    int32  `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	review, err := h.reviews.SubmitReview(r.Context(), claimsFrom(r).UserID, req.BookingID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Status  string `json:"status"`
		Flagged bool   `json:"flagged"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	status := domain.ModerationStatus(req.Status)
	if status != domain.ModerationStatusVisible && status != domain.ModerationStatusHidden {
		writeError(w, apperr.Validation("status must be VISIBLE or HIDDEN"))
		return
	}
	review, err := h.reviews.ModerateReview(r.Context(), claimsFrom(r).UserID, id, status, req.Flagged)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}
