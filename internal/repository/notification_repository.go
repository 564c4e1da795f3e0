package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, type, title, body, is_read, occurrence_id, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Title,
			&n.Body,
			&n.IsRead,
			&n.OccurrenceID,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, nil
}

// CreateIfAbsent inserts a notification unless the same
// (user, occurrence, type) one already exists. Returns true on insert.
func (r *NotificationRepository) CreateIfAbsent(ctx context.Context, n *model.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (user_id, type, title, body, occurrence_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, occurrence_id, type) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, n.UserID, n.Type, n.Title, n.Body, n.OccurrenceID)
	if err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkRead flags the notification as read; the user id guards ownership.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification: %w", ErrNoRows)
	}

	return nil
}
