package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

const damageColumns = `id, booking_id, reporter_id, description, image_urls, status, fine_amount_cents, admin_notes, created_on, updated_on`

type damageReportRepository struct {
	q DBTX
}

func NewDamageReportRepository(q DBTX) repository.DamageReportRepository {
	return &damageReportRepository{q: q}
}

func (r *damageReportRepository) Create(ctx context.Context, d *domain.DamageReport) error {
	query := `INSERT INTO damage_reports (booking_id, reporter_id, description, image_urls, status, admin_notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now().UTC()
	d.CreatedOn = now
	d.UpdatedOn = now
	return r.q.QueryRowContext(ctx, query, d.BookingID, d.ReporterID, d.Description,
		pq.Array(d.ImageURLs), d.Status, d.AdminNotes, now, now).Scan(&d.ID)
}

func scanDamage(row interface{ Scan(...any) error }, d *domain.DamageReport) error {
	return row.Scan(&d.ID, &d.BookingID, &d.ReporterID, &d.Description,
		pq.Array(&d.ImageURLs), &d.Status, &d.FineAmountCents, &d.AdminNotes,
		&d.CreatedOn, &d.UpdatedOn)
}

func (r *damageReportRepository) GetByID(ctx context.Context, id int64) (*domain.DamageReport, error) {
	d := &domain.DamageReport{}
	query := `SELECT ` + damageColumns + ` FROM damage_reports WHERE id = $1`
	err := scanDamage(r.q.QueryRowContext(ctx, query, id), d)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("damage report not found")
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *damageReportRepository) Update(ctx context.Context, d *domain.DamageReport) error {
	query := `UPDATE damage_reports SET status=$1, fine_amount_cents=$2, admin_notes=$3, updated_on=$4 WHERE id=$5`
	d.UpdatedOn = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, query, d.Status, d.FineAmountCents, d.AdminNotes, d.UpdatedOn, d.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("damage report not found")
	}
	return nil
}

func (r *damageReportRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.DamageReport, error) {
	query := `SELECT ` + damageColumns + ` FROM damage_reports WHERE booking_id = $1 ORDER BY created_on`
	rows, err := r.q.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.DamageReport
	for rows.Next() {
		var d domain.DamageReport
		if err := scanDamage(rows, &d); err != nil {
			return nil, err
		}
		reports = append(reports, d)
	}
	return reports, rows.Err()
}
