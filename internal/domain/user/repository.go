package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for users. GetByID and GetByUsername
// return (nil, nil) when no row exists.
type Repository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}
