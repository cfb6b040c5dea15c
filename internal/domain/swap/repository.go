package swap

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter controls swap request listing.
type Filter struct {
	UserID *uuid.UUID
	Party  *Party
	Status *Status
}

// StatusChange is a conditional status write. The update only commits when
// the persisted row still has the Expected status; the implementation
// reports whether a row was affected.
type StatusChange struct {
	SwapID               uuid.UUID
	Expected             Status
	Next                 Status
	CounterOfferedBookID *uuid.UUID
	CounterOfferMessage  *string
	CancelledBy          *uuid.UUID
	UpdatedAt            time.Time
}

// Completion is a conditional completion write for one party. It only
// commits when the row is still ACCEPTED and the party's completion
// timestamp is null; when the counterpart has already confirmed, the same
// write promotes the row to COMPLETED and sets completed_at.
type Completion struct {
	SwapID      uuid.UUID
	Party       Party
	CompletedAt time.Time
	Rating      int
	Feedback    *string
}

// Repository defines swap request persistence. GetByID returns (nil, nil)
// when no row exists. The conditional writes return false without error
// when the guard did not match (lost CAS race).
type Repository interface {
	Create(ctx context.Context, s *SwapRequest) error
	GetByID(ctx context.Context, swapID uuid.UUID) (*SwapRequest, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*SwapRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*SwapRequest, error)
	ApplyStatusChange(ctx context.Context, change StatusChange) (bool, error)
	RecordCompletion(ctx context.Context, completion Completion) (bool, error)
}
