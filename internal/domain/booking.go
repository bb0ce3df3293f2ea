package domain

import "time"

type BookingStatus string

const (
	BookingStatusPendingPayment      BookingStatus = "PENDING_PAYMENT"
	BookingStatusPendingConfirmation BookingStatus = "PENDING_VENDOR_CONFIRMATION"
	BookingStatusConfirmed           BookingStatus = "CONFIRMED"
	BookingStatusActive              BookingStatus = "ACTIVE"
	BookingStatusCompleted           BookingStatus = "COMPLETED"
	BookingStatusCompletedDamages    BookingStatus = "COMPLETED_WITH_DAMAGES"
	BookingStatusCancelled           BookingStatus = "CANCELLED"
	BookingStatusPaymentFailed       BookingStatus = "PAYMENT_FAILED"
	BookingStatusExpired             BookingStatus = "EXPIRED"
)

// OccupancyStatuses are the statuses that hold the unit against other
// bookings. Cancelled, completed and expired rows never block a date range.
var OccupancyStatuses = []BookingStatus{
	BookingStatusPendingPayment,
	BookingStatusPendingConfirmation,
	BookingStatusConfirmed,
	BookingStatusActive,
}

func (s BookingStatus) HoldsOccupancy() bool {
	for _, o := range OccupancyStatuses {
		if s == o {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCompletedDamages,
		BookingStatusCancelled, BookingStatusPaymentFailed, BookingStatusExpired:
		return true
	}
	return false
}

type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "PICKUP"
	DeliveryMethodDelivery DeliveryMethod = "DELIVERY"
)

type Booking struct {
	ID               int64          `json:"id"`
	Reference        string         `json:"reference"`
	UnitID           int64          `json:"unit_id"`
	RenterID         int64          `json:"renter_id"`
	StartDate        time.Time      `json:"start_date"` // date-only, UTC midnight
	EndDate          time.Time      `json:"end_date"`   // date-only, exclusive
	Status           BookingStatus  `json:"status"`
	TotalAmountCents int64          `json:"total_amount_cents"`
	DeliveryMethod   DeliveryMethod `json:"delivery_method"`
	DeliveryFeeCents int64          `json:"delivery_fee_cents"`
	Paid             bool           `json:"paid"`
	CreatedOn        time.Time      `json:"created_on"`
	UpdatedOn        time.Time      `json:"updated_on"`
}

// ScheduledEnd is the moment late fees are measured from: midnight UTC at the
// end of the booked range.
func (b *Booking) ScheduledEnd() time.Time {
	return b.EndDate
}

type PaymentEventKind string

const (
	PaymentEventCaptured PaymentEventKind = "payment.captured"
	PaymentEventFailed   PaymentEventKind = "payment.failed"
	PaymentEventRefund   PaymentEventKind = "refund.processed"
)

// PaymentEvent is a gateway signal delivered by the payment collaborator.
// The core only reacts to these; it never calls out to the gateway.
type PaymentEvent struct {
	EventID     string           `json:"event_id"`
	Kind        PaymentEventKind `json:"kind"`
	BookingID   int64            `json:"booking_id"`
	AmountCents int64            `json:"amount_cents"`
}
