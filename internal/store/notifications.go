package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/01moynul/marketd/internal/models"
)

// InsertNotification stores one inbox entry.
func (s *Store) InsertNotification(ctx context.Context, q Querier, n *models.Notification) error {
	query := `
		INSERT INTO notifications
		(user_id, event_type, message, payload, is_read, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`

	id, err := insert(ctx, q, "notification", query, n.UserID, n.EventType, n.Message, n.Payload, n.CreatedAt)
	if err != nil {
		return err
	}
	n.ID = id
	return nil
}

// ListNotifications returns the user's inbox, unread and newest first.
func (s *Store) ListNotifications(ctx context.Context, q Querier, userID int64, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, event_type, message, payload, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY is_read ASC, created_at DESC
		LIMIT ?`

	notifications := []models.Notification{}
	if err := q.SelectContext(ctx, &notifications, query, userID, limit); err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	return notifications, nil
}

// MarkNotificationRead only touches rows owned by userID.
func (s *Store) MarkNotificationRead(ctx context.Context, q Querier, id, userID int64) error {
	result, err := q.ExecContext(ctx, "UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return errors.Wrap(err, "update notification")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "check affected rows")
	}
	if rows == 0 {
		return errors.Wrap(ErrNotFound, "notification")
	}
	return nil
}
