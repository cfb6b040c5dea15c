package book

import (
	"context"

	"github.com/google/uuid"
)

// Filter controls book listing.
type Filter struct {
	OwnerID   *uuid.UUID
	Available *bool
	Genre     *string
}

// Repository defines book persistence. GetByID returns (nil, nil) when no
// row exists.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, bookID uuid.UUID) (*Book, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Book, error)
	SetAvailability(ctx context.Context, bookID uuid.UUID, available bool) error
}
