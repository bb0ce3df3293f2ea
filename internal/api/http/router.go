package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentloop-backend/internal/security"
	"rentloop-backend/internal/service"
	"rentloop-backend/internal/storage"
)

type RouterConfig struct {
	Bookings      service.BookingService
	Penalties     service.PenaltyService
	Compliance    service.ComplianceService
	Disputes      service.DisputeService
	Reviews       service.ReviewService
	Notifications service.NotificationService
	Evidence      storage.Storage
	Tokens        security.TokenManager
}

// NewRouter wires every HTTP route. The payment webhook sits outside the auth
// middleware since the gateway authenticates with a shared secret at the
// ingress, not a user token.
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	webhooks := NewWebhookHandler(cfg.Bookings)
	r.HandleFunc("/webhooks/payment", webhooks.PaymentEvent).Methods(http.MethodPost)

	evidence := NewEvidenceHandler(cfg.Evidence)
	r.HandleFunc("/evidence/{key}", evidence.Download).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(cfg.Tokens))

	bookings := NewBookingHandler(cfg.Bookings)
	api.HandleFunc("/bookings", bookings.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings", bookings.List).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", bookings.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/cancel", bookings.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/extend", bookings.Extend).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/return", bookings.Return).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/approve", bookings.Approve).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/reject", bookings.Reject).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/start", bookings.Start).Methods(http.MethodPost)

	penalties := NewPenaltyHandler(cfg.Penalties)
	api.HandleFunc("/fines", penalties.ListFines).Methods(http.MethodGet)
	api.HandleFunc("/damage-reports", penalties.ReportDamage).Methods(http.MethodPost)
	api.HandleFunc("/damage-evidence", evidence.Upload).Methods(http.MethodPost)
	api.HandleFunc("/damage-reports/{id}/approve", penalties.ApproveDamage).Methods(http.MethodPost)
	api.HandleFunc("/damage-reports/{id}/reject", penalties.RejectDamage).Methods(http.MethodPost)

	disputes := NewDisputeHandler(cfg.Disputes)
	api.HandleFunc("/fines/{id}/dispute", disputes.Raise).Methods(http.MethodPost)
	api.HandleFunc("/disputes/{id}/resolve", disputes.Resolve).Methods(http.MethodPost)

	reviews := NewReviewHandler(cfg.Reviews)
	api.HandleFunc("/reviews", reviews.Submit).Methods(http.MethodPost)
	api.HandleFunc("/reviews/{id}/moderate", reviews.Moderate).Methods(http.MethodPost)

	compliance := NewComplianceHandler(cfg.Compliance)
	api.HandleFunc("/users/{id}/compliance", compliance.GetState).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/compliance/reset", compliance.ResetScore).Methods(http.MethodPost)

	notifications := NewNotificationHandler(cfg.Notifications)
	api.HandleFunc("/notifications", notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", notifications.MarkAsRead).Methods(http.MethodPost)

	return r
}
