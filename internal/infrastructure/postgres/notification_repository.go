package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookswap/bookswap/internal/domain/notification"
)

// NotificationRepository implements notification.Repository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (notification_id, recipient_id, kind, entity_id, payload, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, n.NotificationID, n.RecipientID, n.Kind, n.EntityID, n.Payload, n.CreatedAt)
	return err
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*notification.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, notification_id, recipient_id, kind, entity_id, payload, created_at
		FROM notifications WHERE recipient_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var notifications []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.NotificationID, &n.RecipientID, &n.Kind, &n.EntityID, &n.Payload, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) SentSince(ctx context.Context, recipientID, entityID uuid.UUID, kind notification.Kind, since time.Time) (bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT 1 FROM notifications
		WHERE recipient_id=$1 AND entity_id=$2 AND kind=$3 AND created_at >= $4
		LIMIT 1
	`, recipientID, entityID, kind, since)
	var v int
	if err := row.Scan(&v); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
