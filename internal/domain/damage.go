package domain

import "time"

type DamageReportStatus string

const (
	DamageReportStatusPending  DamageReportStatus = "PENDING"
	DamageReportStatusApproved DamageReportStatus = "APPROVED"
	DamageReportStatusRejected DamageReportStatus = "REJECTED"
)

type DamageReport struct {
	ID              int64              `json:"id"`
	BookingID       int64              `json:"booking_id"`
	ReporterID      int64              `json:"reporter_id"`
	Description     string             `json:"description"`
	ImageURLs       []string           `json:"image_urls"`
	Status          DamageReportStatus `json:"status"`
	FineAmountCents *int64             `json:"fine_amount_cents,omitempty"` // set on approval
	AdminNotes      string             `json:"admin_notes"`
	CreatedOn       time.Time          `json:"created_on"`
	UpdatedOn       time.Time          `json:"updated_on"`
}
