package db

import (
	"context"
	"fmt"

	"ticketescrow/entities"
)

// NotificationRepository is the data lake: every notification ever published, as received.
type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) NotificationRepository {
	if db == nil {
		panic("db is nil")
	}
	return NotificationRepository{
		db: db,
	}
}

func (r NotificationRepository) Create(ctx context.Context, notification entities.StoredNotification) error {
	_, err := r.db.Conn.ExecContext(ctx, `
		INSERT INTO
			notifications (notification_id, published_at, notification_name, notification_payload)
		VALUES
			($1, $2, $3, $4)
		ON CONFLICT (notification_id) DO NOTHING;
`, notification.NotificationID, notification.PublishedAt, notification.Name, notification.Payload)
	if err != nil {
		return fmt.Errorf("could not store notification in data lake: %w", err)
	}

	return nil
}

func (r NotificationRepository) GetAll(ctx context.Context) ([]entities.StoredNotification, error) {
	var notifications []entities.StoredNotification

	err := r.db.Conn.SelectContext(ctx, &notifications, `
		SELECT notification_id, published_at, notification_name, notification_payload
		FROM notifications
		ORDER BY published_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("could not get notifications from data lake: %w", err)
	}

	return notifications, nil
}
