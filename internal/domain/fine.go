package domain

import "time"

type FineReason string

const (
	FineReasonLateReturn FineReason = "LATE_RETURN"
	FineReasonDamage     FineReason = "DAMAGE"
	FineReasonRefund     FineReason = "REFUND"
)

type FineStatus string

const (
	FineStatusPending  FineStatus = "PENDING"
	FineStatusDisputed FineStatus = "DISPUTED"
	FineStatusResolved FineStatus = "RESOLVED"
)

// Fine is an immutable ledger entry attached to a booking. Amounts are
// positive for charges and negative for refunds. At most one LATE_RETURN
// fine may exist per booking, enforced by a partial unique index.
type Fine struct {
	ID          int64      `json:"id"`
	BookingID   int64      `json:"booking_id"`
	AmountCents int64      `json:"amount_cents"`
	Reason      FineReason `json:"reason"`
	Paid        bool       `json:"paid"`
	Status      FineStatus `json:"status"`
	CreatedOn   time.Time  `json:"created_on"`
}
