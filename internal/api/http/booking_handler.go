package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
	"rentloop-backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid id")
	}
	return id, nil
}

func parseDate(s, field string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.Validation(field + " must be a YYYY-MM-DD date")
	}
	return t, nil
}

type createBookingRequest struct {
	UnitID           int64  `json:"unit_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	DeliveryMethod   string `json:"delivery_method"`
	DeliveryFeeCents int64  `json:"delivery_fee_cents"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		writeError(w, err)
		return
	}

	method := domain.DeliveryMethod(req.DeliveryMethod)
	if method == "" {
		method = domain.DeliveryMethodPickup
	}

	booking, err := h.bookings.Create(r.Context(), service.CreateBookingRequest{
		RenterID:         claimsFrom(r).UserID,
		UnitID:           req.UnitID,
		StartDate:        start,
		EndDate:          end,
		TotalAmountCents: req.TotalAmountCents,
		DeliveryMethod:   method,
		DeliveryFeeCents: req.DeliveryFeeCents,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookings.Get(r.Context(), claimsFrom(r).UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.BookingFilter{
		RenterID: claimsFrom(r).UserID,
		Status:   domain.BookingStatus(q.Get("status")),
	}
	if page, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil {
		filter.Page = int32(page)
	}
	if pageSize, err := strconv.ParseInt(q.Get("page_size"), 10, 32); err == nil {
		filter.PageSize = int32(pageSize)
	}

	bookings, total, err := h.bookings.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings, "total": total})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookings.Cancel(r.Context(), claimsFrom(r).UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Extend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		NewEndDate string `json:"new_end_date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	newEnd, err := parseDate(req.NewEndDate, "new_end_date")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookings.Extend(r.Context(), claimsFrom(r).UserID, id, newEnd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookings.Return(r.Context(), claimsFrom(r).UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookings.Approve(r.Context(), claimsFrom(r).UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookings.Reject(r.Context(), claimsFrom(r).UserID, id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookings.Start(r.Context(), claimsFrom(r).UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
