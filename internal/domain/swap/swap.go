package swap

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents swap request status.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusCounterOffer Status = "COUNTER_OFFER"
	StatusAccepted     Status = "ACCEPTED"
	StatusCompleted    Status = "COMPLETED"
	StatusCancelled    Status = "CANCELLED"
)

// Action is a mutating operation a party performs on a swap request.
type Action string

const (
	ActionAccept             Action = "ACCEPT"
	ActionCounterOffer       Action = "COUNTER_OFFER"
	ActionAcceptCounterOffer Action = "ACCEPT_COUNTER_OFFER"
	ActionCancel             Action = "CANCEL"
	ActionComplete           Action = "COMPLETE"
)

var (
	ErrNotFound          = errors.New("swap request not found")
	ErrForbidden         = errors.New("actor may not perform this action")
	ErrInvalidTransition = errors.New("invalid swap status transition")
	ErrConflict          = errors.New("swap request was concurrently updated")
	ErrNotAccepted       = errors.New("swap request is not accepted")
	ErrAlreadyCompleted  = errors.New("actor already confirmed completion")
	ErrNotAvailable      = errors.New("book is not available for swapping")
	ErrOwnBook           = errors.New("cannot request a swap for your own book")
	ErrValidation        = errors.New("invalid swap request input")
)

// MessageMaxLen bounds swap and counter-offer messages.
const MessageMaxLen = 500

// transitions is the single source of truth for status changes: every
// mutation resolves its target status through this table.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionAccept:       StatusAccepted,
		ActionCounterOffer: StatusCounterOffer,
		ActionCancel:       StatusCancelled,
	},
	StatusCounterOffer: {
		ActionAcceptCounterOffer: StatusAccepted,
		ActionCancel:             StatusCancelled,
	},
	StatusAccepted: {
		ActionComplete: StatusCompleted,
		ActionCancel:   StatusCancelled,
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// NextStatus resolves the status an action leads to from the current one.
func NextStatus(current Status, action Action) (Status, error) {
	next, ok := transitions[current][action]
	if !ok {
		return "", ErrInvalidTransition
	}
	return next, nil
}

// IsTerminal reports whether no further status change is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// SwapRequest represents a proposed book exchange between a requester and
// the owner of the requested book.
type SwapRequest struct {
	ID                   int64      `json:"id"`
	SwapID               uuid.UUID  `json:"swapId"`
	RequesterID          uuid.UUID  `json:"requesterId"`
	OwnerID              uuid.UUID  `json:"ownerId"`
	BookID               uuid.UUID  `json:"bookId"`
	OfferedBookID        uuid.UUID  `json:"offeredBookId"`
	CounterOfferedBookID *uuid.UUID `json:"counterOfferedBookId,omitempty"`
	Status               Status     `json:"status"`
	Message              *string    `json:"message,omitempty"`
	CounterOfferMessage  *string    `json:"counterOfferMessage,omitempty"`
	RequesterCompletedAt *time.Time `json:"requesterCompletedAt,omitempty"`
	OwnerCompletedAt     *time.Time `json:"ownerCompletedAt,omitempty"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	RequesterRating      *int       `json:"requesterRating,omitempty"`
	OwnerRating          *int       `json:"ownerRating,omitempty"`
	RequesterFeedback    *string    `json:"requesterFeedback,omitempty"`
	OwnerFeedback        *string    `json:"ownerFeedback,omitempty"`
	CancelledBy          *uuid.UUID `json:"cancelledBy,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// IsParty reports whether userID is the requester or the owner.
func (s *SwapRequest) IsParty(userID uuid.UUID) bool {
	return s.RequesterID == userID || s.OwnerID == userID
}

// CompletionTimestamp returns the given party's completion timestamp.
func (s *SwapRequest) CompletionTimestamp(party Party) *time.Time {
	if party == PartyOwner {
		return s.OwnerCompletedAt
	}
	return s.RequesterCompletedAt
}

// PartyOf resolves which side of the swap userID is on.
func (s *SwapRequest) PartyOf(userID uuid.UUID) (Party, bool) {
	switch userID {
	case s.RequesterID:
		return PartyRequester, true
	case s.OwnerID:
		return PartyOwner, true
	default:
		return "", false
	}
}

// Party identifies a side of the swap.
type Party string

const (
	PartyRequester Party = "REQUESTER"
	PartyOwner     Party = "OWNER"
)

// CanCancel reports whether userID may cancel the swap. Either party may,
// as long as the swap is not terminal.
func CanCancel(s *SwapRequest, userID uuid.UUID) bool {
	return !s.Status.IsTerminal() && s.IsParty(userID)
}

// CanAccept reports whether userID may accept the pending request.
func CanAccept(s *SwapRequest, userID uuid.UUID) bool {
	return s.Status == StatusPending && s.OwnerID == userID
}

// CanCounterOffer reports whether userID may propose a counter-offer.
func CanCounterOffer(s *SwapRequest, userID uuid.UUID) bool {
	return s.Status == StatusPending && s.OwnerID == userID
}

// CanAcceptCounterOffer reports whether userID may accept the counter-offer.
func CanAcceptCounterOffer(s *SwapRequest, userID uuid.UUID) bool {
	return s.Status == StatusCounterOffer && s.RequesterID == userID
}

// CanComplete reports whether userID may confirm completion: the swap is
// accepted and the actor's own confirmation is still outstanding.
func CanComplete(s *SwapRequest, userID uuid.UUID) bool {
	if s.Status != StatusAccepted {
		return false
	}
	party, ok := s.PartyOf(userID)
	if !ok {
		return false
	}
	return s.CompletionTimestamp(party) == nil
}

// CompletionState is the display state derived from the two confirmations.
type CompletionState string

const (
	AwaitingBoth      CompletionState = "AWAITING_BOTH"
	AwaitingOwner     CompletionState = "AWAITING_OWNER"
	AwaitingRequester CompletionState = "AWAITING_REQUESTER"
	FullyCompleted    CompletionState = "FULLY_COMPLETED"
)

// CompletionStateOf derives the dual-confirmation display state.
func (s *SwapRequest) CompletionStateOf() CompletionState {
	switch {
	case s.RequesterCompletedAt != nil && s.OwnerCompletedAt != nil:
		return FullyCompleted
	case s.RequesterCompletedAt != nil:
		return AwaitingOwner
	case s.OwnerCompletedAt != nil:
		return AwaitingRequester
	default:
		return AwaitingBoth
	}
}

// ValidateRating checks the 1-5 rating bound.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrValidation
	}
	return nil
}

// ValidateMessage checks the optional message length bound.
func ValidateMessage(message *string) error {
	if message != nil && len(*message) > MessageMaxLen {
		return ErrValidation
	}
	return nil
}
