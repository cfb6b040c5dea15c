package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines notification persistence.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*Notification, error)
	// SentSince reports whether a (recipient, entity, kind) notification
	// was created at or after the given time.
	SentSince(ctx context.Context, recipientID, entityID uuid.UUID, kind Kind, since time.Time) (bool, error)
}
