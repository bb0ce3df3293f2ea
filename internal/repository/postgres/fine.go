package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

const fineColumns = `id, booking_id, amount_cents, reason, paid, status, created_on`

type fineRepository struct {
	q DBTX
}

func NewFineRepository(q DBTX) repository.FineRepository {
	return &fineRepository{q: q}
}

// Create inserts one ledger entry. The partial unique index on
// (booking_id, reason) for LATE_RETURN is the authoritative guard against
// duplicate late fines; the violation surfaces as a Conflict.
func (r *fineRepository) Create(ctx context.Context, f *domain.Fine) error {
	query := `INSERT INTO fines (booking_id, amount_cents, reason, paid, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	f.CreatedOn = time.Now().UTC()
	err := r.q.QueryRowContext(ctx, query, f.BookingID, f.AmountCents, f.Reason, f.Paid, f.Status, f.CreatedOn).Scan(&f.ID)
	if isUniqueViolation(err) {
		return apperr.ConflictWrap(err, "fine already exists for this booking and reason")
	}
	return err
}

func (r *fineRepository) GetByID(ctx context.Context, id int64) (*domain.Fine, error) {
	f := &domain.Fine{}
	query := `SELECT ` + fineColumns + ` FROM fines WHERE id = $1`
	err := r.q.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.BookingID, &f.AmountCents, &f.Reason, &f.Paid, &f.Status, &f.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("fine not found")
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *fineRepository) GetByBookingAndReason(ctx context.Context, bookingID int64, reason domain.FineReason) (*domain.Fine, error) {
	f := &domain.Fine{}
	query := `SELECT ` + fineColumns + ` FROM fines WHERE booking_id = $1 AND reason = $2 ORDER BY created_on LIMIT 1`
	err := r.q.QueryRowContext(ctx, query, bookingID, reason).Scan(&f.ID, &f.BookingID, &f.AmountCents, &f.Reason, &f.Paid, &f.Status, &f.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("fine not found")
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *fineRepository) UpdateStatus(ctx context.Context, id int64, status domain.FineStatus) error {
	res, err := r.q.ExecContext(ctx, `UPDATE fines SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("fine not found")
	}
	return nil
}

func (r *fineRepository) MarkPaid(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `UPDATE fines SET paid = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("fine not found")
	}
	return nil
}

func (r *fineRepository) List(ctx context.Context, filter repository.FineFilter) ([]domain.Fine, int32, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "booking_id", "amount_cents", "reason", "paid", "status", "created_on",
		"count(*) OVER() AS total_count").From("fines")

	if filter.BookingID != 0 {
		query = query.Where(squirrel.Eq{"booking_id": filter.BookingID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.Reason != "" {
		query = query.Where(squirrel.Eq{"reason": string(filter.Reason)})
	}
	if filter.Collectable {
		// Disputed fines are parked until resolution; refunds are records,
		// not receivables.
		query = query.
			Where(squirrel.Eq{"paid": false}).
			Where(squirrel.Eq{"status": string(domain.FineStatusPending)}).
			Where(squirrel.Gt{"amount_cents": 0})
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	query = query.OrderBy("created_on DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var fines []domain.Fine
	var total int32
	for rows.Next() {
		var f domain.Fine
		if err := rows.Scan(&f.ID, &f.BookingID, &f.AmountCents, &f.Reason, &f.Paid, &f.Status, &f.CreatedOn, &total); err != nil {
			return nil, 0, err
		}
		fines = append(fines, f)
	}
	return fines, total, rows.Err()
}
