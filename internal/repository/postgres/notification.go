package postgres

import (
	"context"
	"encoding/json"
	"time"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type notificationRepository struct {
	q DBTX
}

func NewNotificationRepository(q DBTX) repository.NotificationRepository {
	return &notificationRepository{q: q}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return err
	}
	query := `INSERT INTO notifications (user_id, title, message, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, FALSE, $4, $5) RETURNING id`
	n.CreatedOn = time.Now().UTC()
	return r.q.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message, attrs, n.CreatedOn).Scan(&n.ID)
}

func (r *notificationRepository) List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.q.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, title, message, is_read, attributes, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &attrs, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			_ = json.Unmarshal(attrs, &n.Attributes)
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	_, err := r.q.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}
