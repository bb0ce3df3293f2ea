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

const reviewColumns = `id, booking_id, unit_id, user_id, rating, comment, moderation_status, is_flagged, created_on`

type reviewRepository struct {
	q DBTX
}

func NewReviewRepository(q DBTX) repository.ReviewRepository {
	return &reviewRepository{q: q}
}

// Create relies on unique(booking_id) to close the race between concurrent
// duplicate submissions; the violation is surfaced as a Conflict.
func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (booking_id, unit_id, user_id, rating, comment, moderation_status, is_flagged, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	rv.CreatedOn = time.Now().UTC()
	err := r.q.QueryRowContext(ctx, query, rv.BookingID, rv.UnitID, rv.UserID,
		rv.Rating, rv.Comment, rv.ModerationStatus, rv.IsFlagged, rv.CreatedOn).Scan(&rv.ID)
	if isUniqueViolation(err) {
		return apperr.ConflictWrap(err, "a review already exists for this booking")
	}
	return err
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	rv := &domain.Review{}
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	err := r.q.QueryRowContext(ctx, query, id).Scan(&rv.ID, &rv.BookingID, &rv.UnitID, &rv.UserID,
		&rv.Rating, &rv.Comment, &rv.ModerationStatus, &rv.IsFlagged, &rv.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("review not found")
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *reviewRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.Review, error) {
	rv := &domain.Review{}
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = $1`
	err := r.q.QueryRowContext(ctx, query, bookingID).Scan(&rv.ID, &rv.BookingID, &rv.UnitID, &rv.UserID,
		&rv.Rating, &rv.Comment, &rv.ModerationStatus, &rv.IsFlagged, &rv.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("review not found")
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *reviewRepository) UpdateModeration(ctx context.Context, id int64, status domain.ModerationStatus, flagged bool) error {
	res, err := r.q.ExecContext(ctx, `UPDATE reviews SET moderation_status=$1, is_flagged=$2 WHERE id=$3`, status, flagged, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("review not found")
	}
	return nil
}
