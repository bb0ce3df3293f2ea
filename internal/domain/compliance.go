package domain

import "time"

type ComplianceEventKind string

const (
	ComplianceEventLateReturn      ComplianceEventKind = "LATE_RETURN"
	ComplianceEventDamageConfirmed ComplianceEventKind = "DAMAGE_CONFIRMED"
	ComplianceEventDisputeRejected ComplianceEventKind = "DISPUTE_REJECTED"
	ComplianceEventAdminReset      ComplianceEventKind = "ADMIN_RESET"
)

// ComplianceEvent is one row of the append-only behaviour ledger. The
// fraud_score column on users is a cached projection of the event deltas,
// recomputed transactionally with every insert.
type ComplianceEvent struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	Kind      ComplianceEventKind `json:"kind"`
	Delta     int32               `json:"delta"`
	Note      string              `json:"note"`
	CreatedOn time.Time           `json:"created_on"`
}

// ComplianceState is the current projection for one user.
type ComplianceState struct {
	UserID     int64 `json:"user_id"`
	FraudScore int32 `json:"fraud_score"`
	Blocked    bool  `json:"blocked"`
}
