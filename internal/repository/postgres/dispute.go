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

const disputeColumns = `id, fine_id, booking_id, raised_by, kind, description, status, resolution_notes, created_on, updated_on`

type disputeRepository struct {
	q DBTX
}

func NewDisputeRepository(q DBTX) repository.DisputeRepository {
	return &disputeRepository{q: q}
}

func (r *disputeRepository) Create(ctx context.Context, d *domain.DisputeReport) error {
	query := `INSERT INTO dispute_reports (fine_id, booking_id, raised_by, kind, description, status, resolution_notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now().UTC()
	d.CreatedOn = now
	d.UpdatedOn = now
	err := r.q.QueryRowContext(ctx, query, d.FineID, d.BookingID, d.RaisedBy, d.Kind,
		d.Description, d.Status, d.ResolutionNotes, now, now).Scan(&d.ID)
	if isUniqueViolation(err) {
		return apperr.ConflictWrap(err, "an open dispute already exists for this fine")
	}
	return err
}

func scanDispute(row interface{ Scan(...any) error }, d *domain.DisputeReport) error {
	return row.Scan(&d.ID, &d.FineID, &d.BookingID, &d.RaisedBy, &d.Kind,
		&d.Description, &d.Status, &d.ResolutionNotes, &d.CreatedOn, &d.UpdatedOn)
}

func (r *disputeRepository) GetByID(ctx context.Context, id int64) (*domain.DisputeReport, error) {
	d := &domain.DisputeReport{}
	query := `SELECT ` + disputeColumns + ` FROM dispute_reports WHERE id = $1`
	err := scanDispute(r.q.QueryRowContext(ctx, query, id), d)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("dispute not found")
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *disputeRepository) GetOpenByFine(ctx context.Context, fineID int64) (*domain.DisputeReport, error) {
	d := &domain.DisputeReport{}
	query := `SELECT ` + disputeColumns + ` FROM dispute_reports WHERE fine_id = $1 AND status = $2`
	err := scanDispute(r.q.QueryRowContext(ctx, query, fineID, domain.DisputeStatusOpen), d)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no open dispute for fine")
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *disputeRepository) Update(ctx context.Context, d *domain.DisputeReport) error {
	query := `UPDATE dispute_reports SET status=$1, resolution_notes=$2, updated_on=$3 WHERE id=$4`
	d.UpdatedOn = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, query, d.Status, d.ResolutionNotes, d.UpdatedOn, d.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("dispute not found")
	}
	return nil
}
