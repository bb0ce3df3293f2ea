package domain

import "time"

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "OPEN"
	DisputeStatusResolved DisputeStatus = "RESOLVED"
	DisputeStatusRejected DisputeStatus = "REJECTED"
)

type DisputeKind string

const (
	DisputeKindFine    DisputeKind = "FINE"
	DisputeKindBooking DisputeKind = "BOOKING"
)

// DisputeReport is a contested claim against a fine. While a dispute is open
// the referenced fine is excluded from collectable views; a rejected dispute
// reverts the fine to PENDING and collection resumes.
type DisputeReport struct {
	ID              int64         `json:"id"`
	FineID          int64         `json:"fine_id"`
	BookingID       int64         `json:"booking_id"`
	RaisedBy        int64         `json:"raised_by"`
	Kind            DisputeKind   `json:"kind"`
	Description     string        `json:"description"`
	Status          DisputeStatus `json:"status"`
	ResolutionNotes string        `json:"resolution_notes"`
	CreatedOn       time.Time     `json:"created_on"`
	UpdatedOn       time.Time     `json:"updated_on"`
}
