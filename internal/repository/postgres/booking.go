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

const bookingColumns = `id, reference, unit_id, renter_id, start_date, end_date, status, total_amount_cents, delivery_method, delivery_fee_cents, paid, created_on, updated_on`

type bookingRepository struct {
	q DBTX
}

func NewBookingRepository(q DBTX) repository.BookingRepository {
	return &bookingRepository{q: q}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (reference, unit_id, renter_id, start_date, end_date, status, total_amount_cents, delivery_method, delivery_fee_cents, paid, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now().UTC()
	b.CreatedOn = now
	b.UpdatedOn = now
	err := r.q.QueryRowContext(ctx, query,
		b.Reference, b.UnitID, b.RenterID, b.StartDate, b.EndDate, b.Status,
		b.TotalAmountCents, b.DeliveryMethod, b.DeliveryFeeCents, b.Paid, now, now,
	).Scan(&b.ID)
	if isUniqueViolation(err) {
		return apperr.ConflictWrap(err, "booking already exists")
	}
	return err
}

func scanBooking(row interface{ Scan(...any) error }, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.Reference, &b.UnitID, &b.RenterID, &b.StartDate, &b.EndDate,
		&b.Status, &b.TotalAmountCents, &b.DeliveryMethod, &b.DeliveryFeeCents, &b.Paid,
		&b.CreatedOn, &b.UpdatedOn)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := scanBooking(r.q.QueryRowContext(ctx, query, id), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetForUpdate pins the booking row so status transitions are serialized:
// a concurrent transition blocks here until the holder commits, then sees
// the committed status instead of a stale snapshot.
func (r *bookingRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	err := scanBooking(r.q.QueryRowContext(ctx, query, id), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`
	err := scanBooking(r.q.QueryRowContext(ctx, query, ref), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, end_date=$2, total_amount_cents=$3, paid=$4, updated_on=$5 WHERE id=$6`
	b.UpdatedOn = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, query, b.Status, b.EndDate, b.TotalAmountCents, b.Paid, b.UpdatedOn, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("booking not found")
	}
	return nil
}

func (r *bookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, int32, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "reference", "unit_id", "renter_id", "start_date", "end_date",
		"status", "total_amount_cents", "delivery_method", "delivery_fee_cents",
		"paid", "created_on", "updated_on",
		"count(*) OVER() AS total_count",
	).From("bookings")

	if filter.RenterID != 0 {
		query = query.Where(squirrel.Eq{"renter_id": filter.RenterID})
	}
	if filter.UnitID != 0 {
		query = query.Where(squirrel.Eq{"unit_id": filter.UnitID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"end_date": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"start_date": *filter.To})
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

	var bookings []domain.Booking
	var total int32
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.Reference, &b.UnitID, &b.RenterID, &b.StartDate, &b.EndDate,
			&b.Status, &b.TotalAmountCents, &b.DeliveryMethod, &b.DeliveryFeeCents, &b.Paid,
			&b.CreatedOn, &b.UpdatedOn, &total); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}

// HasOverlap uses half-open [start_date, end_date) semantics: two ranges
// overlap iff s1 < e2 AND e1 > s2, so a booking ending exactly where another
// starts does not conflict.
func (r *bookingRepository) HasOverlap(ctx context.Context, unitID int64, start, end time.Time, excludeBookingID int64) (bool, error) {
	statuses := make([]string, 0, len(domain.OccupancyStatuses))
	for _, s := range domain.OccupancyStatuses {
		statuses = append(statuses, string(s))
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub := psql.Select("1").
		From("bookings").
		Where(squirrel.Eq{"unit_id": unitID}).
		Where(squirrel.Eq{"status": statuses}).
		Where(squirrel.Lt{"start_date": end}).
		Where(squirrel.Gt{"end_date": start})

	if excludeBookingID != 0 {
		sub = sub.Where(squirrel.NotEq{"id": excludeBookingID})
	}

	sqlStr, args, err := sub.ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, "SELECT EXISTS ("+sqlStr+")", args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *bookingRepository) ExpireStale(ctx context.Context, fromStatus, toStatus domain.BookingStatus, cutoff time.Time) ([]domain.Booking, error) {
	query := `UPDATE bookings
	          SET status = $1, updated_on = NOW()
	          WHERE status = $2 AND created_on < $3
	          RETURNING ` + bookingColumns
	rows, err := r.q.QueryContext(ctx, query, toStatus, fromStatus, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		expired = append(expired, b)
	}
	return expired, rows.Err()
}

func (r *bookingRepository) ListOverdueActive(ctx context.Context, asOf time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND end_date < $2 ORDER BY end_date`
	rows, err := r.q.QueryContext(ctx, query, domain.BookingStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overdue []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		overdue = append(overdue, b)
	}
	return overdue, rows.Err()
}
