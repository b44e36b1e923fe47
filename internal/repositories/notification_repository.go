package repositories

import (
	"context"
	"database/sql"
	"time"

	"hyreBack/internal/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

// Insert stores an in-app notification. The unique index on
// idempotency_key makes a replayed event a silent no-op at the store
// level too, not just at the redis guard.
func (r *NotificationRepository) Insert(ctx context.Context, n models.Notification) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT IGNORE INTO notifications (user_id, title, message, type, action_url, idempotency_key, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Title, n.Message, n.Type, n.ActionURL, n.IdempotencyKey, time.Now())
	return err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, title, message, type, action_url, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		var n models.Notification
		var actionURL sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &actionURL, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		if actionURL.Valid {
			n.ActionURL = actionURL.String
		}
		items = append(items, n)
	}
	return items, rows.Err()
}
