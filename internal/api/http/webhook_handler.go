package http

import (
	"net/http"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/service"
)

// WebhookHandler ingests payment gateway callbacks. The gateway is the source
// of truth for money movement; this endpoint only reacts to its signals.
type WebhookHandler struct {
	bookings service.BookingService
}

func NewWebhookHandler(bookings service.BookingService) *WebhookHandler {
	return &WebhookHandler{bookings: bookings}
}

func (h *WebhookHandler) PaymentEvent(w http.ResponseWriter, r *http.Request) {
	var event domain.PaymentEvent
	if err := decodeJSON(r, &event); err != nil {
		writeError(w, err)
		return
	}
	switch event.Kind {
	case domain.PaymentEventCaptured, domain.PaymentEventFailed, domain.PaymentEventRefund:
	default:
		writeError(w, apperr.Validation("unknown payment event kind"))
		return
	}
	booking, err := h.bookings.HandlePaymentEvent(r.Context(), event)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
