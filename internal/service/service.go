package service

import (
	"context"
	"time"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

// BookingService owns the booking lifecycle: every status change goes through
// one of these operations, inside a single transaction per operation.
type BookingService interface {
	Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error)
	Cancel(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error)
	Extend(ctx context.Context, actorID, bookingID int64, newEndDate time.Time) (*domain.Booking, error)
	Return(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error)
	Approve(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error)
	Reject(ctx context.Context, actorID, bookingID int64, reason string) (*domain.Booking, error)
	Start(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error)
	Get(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error)
	List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, int32, error)

	// HandlePaymentEvent reacts to gateway signals; it never calls the
	// gateway itself.
	HandlePaymentEvent(ctx context.Context, event domain.PaymentEvent) (*domain.Booking, error)

	// ExpireStale sweeps bookings stuck awaiting payment or vendor approval
	// past their staleness windows. Invoked by the external scheduler.
	ExpireStale(ctx context.Context) (int, error)
}

type CreateBookingRequest struct {
	RenterID         int64
	UnitID           int64
	StartDate        time.Time
	EndDate          time.Time
	TotalAmountCents int64
	DeliveryMethod   domain.DeliveryMethod
	DeliveryFeeCents int64
}

// PenaltyService derives fines from booking state and posts them as ledger
// entries.
type PenaltyService interface {
	// CalculateLateFine returns the late-return fine for the booking,
	// creating it if the grace period is exceeded. A nil fine means the
	// return is within grace. Idempotent per booking.
	CalculateLateFine(ctx context.Context, bookingID int64) (*domain.Fine, error)

	ReportDamage(ctx context.Context, reporterID, bookingID int64, description string, imageURLs []string) (*domain.DamageReport, error)
	ApproveDamage(ctx context.Context, reviewerID, reportID int64, fineAmountCents int64, notes string) (*domain.DamageReport, error)
	RejectDamage(ctx context.Context, reviewerID, reportID int64, notes string) (*domain.DamageReport, error)

	ListFines(ctx context.Context, filter repository.FineFilter) ([]domain.Fine, int32, error)

	// ProcessLateBookings sweeps active bookings past their end date and
	// posts late fines. Invoked by the external scheduler; safe to run
	// concurrently with user-triggered returns.
	ProcessLateBookings(ctx context.Context) (int, error)
}

// ComplianceService maintains per-user fraud scores and gates new bookings.
type ComplianceService interface {
	// CheckGate fails for blocked users and signals verification for users
	// at or above the verification threshold.
	CheckGate(ctx context.Context, userID int64) error
	RecordEvent(ctx context.Context, userID int64, kind domain.ComplianceEventKind, note string) (*domain.ComplianceState, error)
	ResetScore(ctx context.Context, adminID, userID int64, note string) error
	GetState(ctx context.Context, userID int64) (*domain.ComplianceState, []domain.ComplianceEvent, error)
}

type DisputeService interface {
	RaiseDispute(ctx context.Context, userID, fineID int64, description string) (*domain.DisputeReport, error)
	ResolveDispute(ctx context.Context, adminID, disputeID int64, outcome domain.DisputeStatus, notes string) (*domain.DisputeReport, error)
}

type ReviewService interface {
	SubmitReview(ctx context.Context, userID, bookingID int64, rating int32, comment string) (*domain.Review, error)
	ModerateReview(ctx context.Context, adminID, reviewID int64, status domain.ModerationStatus, flagged bool) (*domain.Review, error)
}

// EmailService delivers outbound mail. All calls are best-effort: failures
// are logged by callers and never block a core transaction.
type EmailService interface {
	SendBookingRequested(ctx context.Context, to, renterName, unitName string, start, end time.Time) error
	SendBookingConfirmed(ctx context.Context, to, unitName string) error
	SendBookingCancelled(ctx context.Context, to, unitName, reason string) error
	SendLateFineNotice(ctx context.Context, to, unitName string, amountCents int64) error
	SendDamageFineNotice(ctx context.Context, to, unitName string, amountCents int64) error
	SendDisputeOutcome(ctx context.Context, to string, outcome, notes string) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}
