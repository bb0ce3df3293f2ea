package domain

import "time"

// Unit is a rentable item instance offered by a shop. Late-fee settings are
// per unit so shops can price penalties with the item.
type Unit struct {
	ID                  int64     `json:"id"`
	ShopID              int64     `json:"shop_id"`
	OwnerID             int64     `json:"owner_id"`
	Name                string    `json:"name"`
	PricePerDayCents    int64     `json:"price_per_day_cents"`
	DepositCents        int64     `json:"deposit_cents"`
	LateFeePerHourCents int64     `json:"late_fee_per_hour_cents"`
	GracePeriodMinutes  int64     `json:"grace_period_minutes"`
	CreatedOn           time.Time `json:"created_on"`
}
