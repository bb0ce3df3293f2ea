package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

const unitColumns = `id, shop_id, owner_id, name, price_per_day_cents, deposit_cents, late_fee_per_hour_cents, grace_period_minutes, created_on`

type unitRepository struct {
	q DBTX
}

func NewUnitRepository(q DBTX) repository.UnitRepository {
	return &unitRepository{q: q}
}

func (r *unitRepository) Create(ctx context.Context, u *domain.Unit) error {
	query := `INSERT INTO units (shop_id, owner_id, name, price_per_day_cents, deposit_cents, late_fee_per_hour_cents, grace_period_minutes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	u.CreatedOn = time.Now().UTC()
	return r.q.QueryRowContext(ctx, query, u.ShopID, u.OwnerID, u.Name,
		u.PricePerDayCents, u.DepositCents, u.LateFeePerHourCents, u.GracePeriodMinutes, u.CreatedOn).Scan(&u.ID)
}

func (r *unitRepository) getWithSuffix(ctx context.Context, id int64, suffix string) (*domain.Unit, error) {
	u := &domain.Unit{}
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1` + suffix
	err := r.q.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.ShopID, &u.OwnerID, &u.Name,
		&u.PricePerDayCents, &u.DepositCents, &u.LateFeePerHourCents, &u.GracePeriodMinutes, &u.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("unit not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *unitRepository) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	return r.getWithSuffix(ctx, id, "")
}

// GetForUpdate serializes the overlap-check-then-insert sequence per unit.
func (r *unitRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Unit, error) {
	return r.getWithSuffix(ctx, id, " FOR UPDATE")
}
