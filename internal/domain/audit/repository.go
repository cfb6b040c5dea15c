package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines audit persistence.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	ListByEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID, limit, offset int) ([]*Entry, error)
}
