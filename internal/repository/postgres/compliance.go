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

type complianceRepository struct {
	q DBTX
}

func NewComplianceRepository(q DBTX) repository.ComplianceRepository {
	return &complianceRepository{q: q}
}

func (r *complianceRepository) InsertEvent(ctx context.Context, e *domain.ComplianceEvent) error {
	query := `INSERT INTO compliance_events (user_id, kind, delta, note, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	e.CreatedOn = time.Now().UTC()
	return r.q.QueryRowContext(ctx, query, e.UserID, e.Kind, e.Delta, e.Note, e.CreatedOn).Scan(&e.ID)
}

// ApplyScoreDelta increments the cached projection and auto-blocks at the
// threshold in a single UPDATE, so concurrent adjustments cannot miss the
// crossing.
func (r *complianceRepository) ApplyScoreDelta(ctx context.Context, userID int64, delta, blockThreshold int32) (*domain.ComplianceState, error) {
	query := `UPDATE users
	          SET fraud_score = GREATEST(fraud_score + $1, 0),
	              blocked = blocked OR (fraud_score + $1) >= $2
	          WHERE id = $3
	          RETURNING fraud_score, blocked`
	st := &domain.ComplianceState{UserID: userID}
	err := r.q.QueryRowContext(ctx, query, delta, blockThreshold, userID).Scan(&st.FraudScore, &st.Blocked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *complianceRepository) ResetScore(ctx context.Context, userID int64) error {
	res, err := r.q.ExecContext(ctx, `UPDATE users SET fraud_score = 0, blocked = FALSE WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *complianceRepository) ListEvents(ctx context.Context, userID int64) ([]domain.ComplianceEvent, error) {
	query := `SELECT id, user_id, kind, delta, note, created_on FROM compliance_events WHERE user_id = $1 ORDER BY created_on`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ComplianceEvent
	for rows.Next() {
		var e domain.ComplianceEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Delta, &e.Note, &e.CreatedOn); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
