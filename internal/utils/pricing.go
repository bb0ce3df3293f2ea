package utils

import (
	"fmt"
	"time"

	"rentloop-backend/internal/domain"
)

// Quote is the server-side price breakdown for a booking. The renter is
// charged rental plus delivery up front; the deposit is authorized separately
// and released on a clean return.
type Quote struct {
	Days             int64
	RentalCents      int64
	DeliveryFeeCents int64
	DepositCents     int64
	TotalCents       int64
}

// QuoteBooking prices a date range against a unit. The range is half-open:
// the start date is charged, the end date is the return day and is not.
func QuoteBooking(startDate, endDate time.Time, unit *domain.Unit, deliveryFeeCents int64) (Quote, error) {
	start := toUTCDate(startDate)
	end := toUTCDate(endDate)

	if !end.After(start) {
		return Quote{}, fmt.Errorf("end date must be after start date")
	}
	if deliveryFeeCents < 0 {
		return Quote{}, fmt.Errorf("delivery fee must not be negative")
	}

	days := int64(end.Sub(start).Hours() / 24)
	rental := days * unit.PricePerDayCents

	return Quote{
		Days:             days,
		RentalCents:      rental,
		DeliveryFeeCents: deliveryFeeCents,
		DepositCents:     unit.DepositCents,
		TotalCents:       rental + deliveryFeeCents,
	}, nil
}

// LateFee prices an overdue return. Hours are billed whole: any started hour
// past the grace period counts as a full hour.
func LateFee(scheduledEnd, returnedAt time.Time, unit *domain.Unit, defaultFeePerHourCents, defaultGraceMinutes int64) int64 {
	feePerHour := unit.LateFeePerHourCents
	if feePerHour <= 0 {
		feePerHour = defaultFeePerHourCents
	}
	graceMinutes := unit.GracePeriodMinutes
	if graceMinutes <= 0 {
		graceMinutes = defaultGraceMinutes
	}

	// Compare full durations: a return seconds past the grace boundary is
	// already late, not rounded back inside it.
	diff := returnedAt.Sub(scheduledEnd)
	if diff <= time.Duration(graceMinutes)*time.Minute {
		return 0
	}

	lateSeconds := int64(diff / time.Second)
	lateHours := (lateSeconds + 3599) / 3600
	return lateHours * feePerHour
}

func toUTCDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
