package alert

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines alert persistence. GetByID returns (nil, nil) when no
// row exists.
type Repository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, alertID uuid.UUID) (*Alert, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Alert, error)
	ListEnabled(ctx context.Context) ([]*Alert, error)
	Delete(ctx context.Context, alertID uuid.UUID) error
}
