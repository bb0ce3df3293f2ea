package repository

import (
	"context"
	"time"

	"rentloop-backend/internal/domain"
)

// Store bundles all repositories behind one handle and owns transaction
// boundaries. WithinTx runs fn against a Store whose repositories share a
// single transaction; fn returning an error rolls everything back.
type Store interface {
	Bookings() BookingRepository
	Units() UnitRepository
	Fines() FineRepository
	DamageReports() DamageReportRepository
	Disputes() DisputeRepository
	Reviews() ReviewRepository
	Users() UserRepository
	Compliance() ComplianceRepository
	Notifications() NotificationRepository

	WithinTx(ctx context.Context, fn func(Store) error) error
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	RenterID int64
	UnitID   int64
	Status   domain.BookingStatus
	From     *time.Time
	To       *time.Time
	Page     int32
	PageSize int32
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref string) (*domain.Booking, error)
	// GetForUpdate locks the booking row so a status guard and the update
	// that follows it see the same committed state. Must run inside a tx.
	GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, int32, error)

	// HasOverlap reports whether any occupancy-holding booking for the unit
	// intersects [start, end). excludeBookingID, when non-zero, ignores the
	// booking's own row during extension checks.
	HasOverlap(ctx context.Context, unitID int64, start, end time.Time, excludeBookingID int64) (bool, error)

	// ExpireStale moves bookings stuck in fromStatus since before cutoff to
	// toStatus and returns the affected rows.
	ExpireStale(ctx context.Context, fromStatus, toStatus domain.BookingStatus, cutoff time.Time) ([]domain.Booking, error)

	// ListOverdueActive returns ACTIVE bookings whose end date is before asOf.
	ListOverdueActive(ctx context.Context, asOf time.Time) ([]domain.Booking, error)
}

type UnitRepository interface {
	Create(ctx context.Context, u *domain.Unit) error
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
	// GetForUpdate takes a row-level exclusive lock on the unit, serializing
	// concurrent booking attempts for the same unit. Only meaningful inside
	// WithinTx.
	GetForUpdate(ctx context.Context, id int64) (*domain.Unit, error)
}

type FineFilter struct {
	BookingID int64
	Status    domain.FineStatus
	Reason    domain.FineReason
	// Collectable restricts to unpaid, undisputed charges.
	Collectable bool
	Page        int32
	PageSize    int32
}

type FineRepository interface {
	Create(ctx context.Context, f *domain.Fine) error
	GetByID(ctx context.Context, id int64) (*domain.Fine, error)
	GetByBookingAndReason(ctx context.Context, bookingID int64, reason domain.FineReason) (*domain.Fine, error)
	UpdateStatus(ctx context.Context, id int64, status domain.FineStatus) error
	MarkPaid(ctx context.Context, id int64) error
	List(ctx context.Context, filter FineFilter) ([]domain.Fine, int32, error)
}

type DamageReportRepository interface {
	Create(ctx context.Context, r *domain.DamageReport) error
	GetByID(ctx context.Context, id int64) (*domain.DamageReport, error)
	Update(ctx context.Context, r *domain.DamageReport) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.DamageReport, error)
}

type DisputeRepository interface {
	Create(ctx context.Context, d *domain.DisputeReport) error
	GetByID(ctx context.Context, id int64) (*domain.DisputeReport, error)
	GetOpenByFine(ctx context.Context, fineID int64) (*domain.DisputeReport, error)
	Update(ctx context.Context, d *domain.DisputeReport) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	GetByBooking(ctx context.Context, bookingID int64) (*domain.Review, error)
	UpdateModeration(ctx context.Context, id int64, status domain.ModerationStatus, flagged bool) error
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ComplianceRepository interface {
	// InsertEvent appends one row to the behaviour ledger.
	InsertEvent(ctx context.Context, e *domain.ComplianceEvent) error
	// ApplyScoreDelta adjusts the cached projection on the user row and flips
	// blocked when the new score reaches blockThreshold, all in one UPDATE.
	ApplyScoreDelta(ctx context.Context, userID int64, delta, blockThreshold int32) (*domain.ComplianceState, error)
	// ResetScore zeroes the projection and clears the blocked flag.
	ResetScore(ctx context.Context, userID int64) error
	ListEvents(ctx context.Context, userID int64) ([]domain.ComplianceEvent, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}
