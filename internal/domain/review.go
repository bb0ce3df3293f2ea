package domain

import "time"

type ModerationStatus string

const (
	ModerationStatusVisible ModerationStatus = "VISIBLE"
	ModerationStatusHidden  ModerationStatus = "HIDDEN"
)

// Review is a rating tied to one completed booking. unique(booking_id) is the
// authoritative guard against duplicate submissions.
type Review struct {
	ID               int64            `json:"id"`
	BookingID        int64            `json:"booking_id"`
	UnitID           int64            `json:"unit_id"`
	UserID           int64            `json:"user_id"`
	Rating           int32            `json:"rating"` // 1-5
	Comment          string           `json:"comment"`
	ModerationStatus ModerationStatus `json:"moderation_status"`
	IsFlagged        bool             `json:"is_flagged"`
	CreatedOn        time.Time        `json:"created_on"`
}
