package swap

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appAudit "github.com/bookswap/bookswap/internal/application/audit"
	"github.com/bookswap/bookswap/internal/domain/audit"
	"github.com/bookswap/bookswap/internal/domain/book"
	"github.com/bookswap/bookswap/internal/domain/notification"
	domainSwap "github.com/bookswap/bookswap/internal/domain/swap"
	"github.com/bookswap/bookswap/internal/domain/user"
)

// Service drives the swap request lifecycle: creation, the negotiation
// transitions, and the dual-confirmation completion protocol. Every
// mutation reads a snapshot, validates the actor and status against it,
// then issues one conditional write; a lost race is retried once before
// surfacing ErrConflict.
type Service struct {
	swapRepo   domainSwap.Repository
	bookRepo   book.Repository
	userRepo   user.Repository
	dispatcher notification.Dispatcher
	auditSvc   *appAudit.Service
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService creates a swap service.
func NewService(
	swapRepo domainSwap.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
	dispatcher notification.Dispatcher,
	auditSvc *appAudit.Service,
	logger zerolog.Logger,
) *Service {
	return &Service{
		swapRepo:   swapRepo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		auditSvc:   auditSvc,
		logger:     logger.With().Str("service", "swap").Logger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create opens a new PENDING swap request: the requester offers one of
// their own books in exchange for an available book of another user.
func (s *Service) Create(ctx context.Context, bookID, offeredBookID, requesterID uuid.UUID, message *string) (*domainSwap.SwapRequest, error) {
	if err := domainSwap.ValidateMessage(message); err != nil {
		return nil, err
	}
	exists, err := s.userRepo.Exists(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, user.ErrNotFound
	}

	requested, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if requested == nil {
		return nil, book.ErrNotFound
	}
	offered, err := s.bookRepo.GetByID(ctx, offeredBookID)
	if err != nil {
		return nil, err
	}
	if offered == nil {
		return nil, book.ErrNotFound
	}
	if requested.OwnerID == requesterID {
		return nil, domainSwap.ErrOwnBook
	}
	if !requested.Available {
		return nil, domainSwap.ErrNotAvailable
	}
	if offered.OwnerID != requesterID {
		return nil, domainSwap.ErrForbidden
	}

	now := s.now()
	req := &domainSwap.SwapRequest{
		SwapID:        uuid.New(),
		RequesterID:   requesterID,
		OwnerID:       requested.OwnerID,
		BookID:        bookID,
		OfferedBookID: offeredBookID,
		Status:        domainSwap.StatusPending,
		Message:       message,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.swapRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.audit(ctx, req.SwapID, requesterID, "SWAP_CREATE")
	s.dispatcher.Dispatch(ctx, notification.Event{
		Kind:        notification.KindSwapRequest,
		EntityID:    req.SwapID,
		ActorID:     requesterID,
		RecipientID: req.OwnerID,
	})
	return req, nil
}

// Accept moves a PENDING request to ACCEPTED. Only the owner may accept.
func (s *Service) Accept(ctx context.Context, swapID, actorID uuid.UUID) (*domainSwap.SwapRequest, error) {
	return s.transition(ctx, swapID, actorID, domainSwap.ActionAccept, nil, nil)
}

// ProposeCounterOffer moves a PENDING request to COUNTER_OFFER with the
// owner's substitute book.
func (s *Service) ProposeCounterOffer(ctx context.Context, swapID, actorID, counterBookID uuid.UUID, message *string) (*domainSwap.SwapRequest, error) {
	if err := domainSwap.ValidateMessage(message); err != nil {
		return nil, err
	}
	counter, err := s.bookRepo.GetByID(ctx, counterBookID)
	if err != nil {
		return nil, err
	}
	if counter == nil {
		return nil, book.ErrNotFound
	}
	if counter.OwnerID != actorID {
		return nil, domainSwap.ErrForbidden
	}
	return s.transition(ctx, swapID, actorID, domainSwap.ActionCounterOffer, &counterBookID, message)
}

// AcceptCounterOffer moves a COUNTER_OFFER request to ACCEPTED. Only the
// requester may accept the substitute.
func (s *Service) AcceptCounterOffer(ctx context.Context, swapID, actorID uuid.UUID) (*domainSwap.SwapRequest, error) {
	return s.transition(ctx, swapID, actorID, domainSwap.ActionAcceptCounterOffer, nil, nil)
}

// Cancel moves any non-terminal request to CANCELLED and records who did it.
func (s *Service) Cancel(ctx context.Context, swapID, actorID uuid.UUID) (*domainSwap.SwapRequest, error) {
	return s.transition(ctx, swapID, actorID, domainSwap.ActionCancel, nil, nil)
}

// Complete records one party's completion confirmation with their rating
// and feedback. The write that lands the second confirmation promotes the
// request to COMPLETED and sets completed_at in the same statement.
func (s *Service) Complete(ctx context.Context, swapID, actorID uuid.UUID, rating int, feedback *string) (*domainSwap.SwapRequest, error) {
	if err := domainSwap.ValidateRating(rating); err != nil {
		return nil, err
	}
	if err := domainSwap.ValidateMessage(feedback); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		snap, err := s.swapRepo.GetByID(ctx, swapID)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return nil, domainSwap.ErrNotFound
		}
		party, ok := snap.PartyOf(actorID)
		if !ok {
			return nil, domainSwap.ErrForbidden
		}
		if snap.Status != domainSwap.StatusAccepted {
			return nil, domainSwap.ErrNotAccepted
		}
		if snap.CompletionTimestamp(party) != nil {
			return nil, domainSwap.ErrAlreadyCompleted
		}

		committed, err := s.swapRepo.RecordCompletion(ctx, domainSwap.Completion{
			SwapID:      swapID,
			Party:       party,
			CompletedAt: s.now(),
			Rating:      rating,
			Feedback:    feedback,
		})
		if err != nil {
			return nil, err
		}
		if !committed {
			// Lost the conditional write; refetch so the retry can
			// classify what changed (cancelled, or our column raced).
			continue
		}

		updated, err := s.swapRepo.GetByID(ctx, swapID)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, domainSwap.ErrNotFound
		}
		if updated.Status == domainSwap.StatusCompleted {
			s.retireBooks(ctx, updated)
		}
		s.audit(ctx, swapID, actorID, "SWAP_COMPLETE_CONFIRM")
		s.dispatcher.Dispatch(ctx, notification.Event{
			Kind:        notification.KindSwapCompleted,
			EntityID:    swapID,
			ActorID:     actorID,
			RecipientID: counterpart(updated, actorID),
		})
		return updated, nil
	}
	return nil, domainSwap.ErrConflict
}

// transition runs one lifecycle action through the snapshot/CAS loop.
func (s *Service) transition(ctx context.Context, swapID, actorID uuid.UUID, action domainSwap.Action, counterBookID *uuid.UUID, counterMessage *string) (*domainSwap.SwapRequest, error) {
	for attempt := 0; attempt < 2; attempt++ {
		snap, err := s.swapRepo.GetByID(ctx, swapID)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return nil, domainSwap.ErrNotFound
		}
		if err := authorize(snap, actorID, action); err != nil {
			return nil, err
		}
		next, err := domainSwap.NextStatus(snap.Status, action)
		if err != nil {
			return nil, err
		}

		change := domainSwap.StatusChange{
			SwapID:    swapID,
			Expected:  snap.Status,
			Next:      next,
			UpdatedAt: s.now(),
		}
		switch action {
		case domainSwap.ActionCounterOffer:
			change.CounterOfferedBookID = counterBookID
			change.CounterOfferMessage = counterMessage
		case domainSwap.ActionCancel:
			cancelledBy := actorID
			change.CancelledBy = &cancelledBy
		}

		committed, err := s.swapRepo.ApplyStatusChange(ctx, change)
		if err != nil {
			return nil, err
		}
		if !committed {
			continue
		}

		updated, err := s.swapRepo.GetByID(ctx, swapID)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, domainSwap.ErrNotFound
		}
		s.audit(ctx, swapID, actorID, "SWAP_"+string(action))
		s.dispatcher.Dispatch(ctx, notification.Event{
			Kind:        eventKind(action),
			EntityID:    swapID,
			ActorID:     actorID,
			RecipientID: counterpart(updated, actorID),
		})
		return updated, nil
	}
	return nil, domainSwap.ErrConflict
}

// Get returns a swap request visible to one of its parties.
func (s *Service) Get(ctx context.Context, swapID, actorID uuid.UUID) (*domainSwap.SwapRequest, error) {
	snap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domainSwap.ErrNotFound
	}
	if !snap.IsParty(actorID) {
		return nil, domainSwap.ErrForbidden
	}
	return snap, nil
}

// History returns the audit trail of a swap, visible to its parties only.
func (s *Service) History(ctx context.Context, swapID, actorID uuid.UUID, limit, offset int) ([]*audit.Entry, error) {
	snap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domainSwap.ErrNotFound
	}
	if !snap.IsParty(actorID) {
		return nil, domainSwap.ErrForbidden
	}
	return s.auditSvc.ListByEntity(ctx, audit.EntityTypeSwap, swapID, limit, offset)
}

// List returns swap requests matching the filter.
func (s *Service) List(ctx context.Context, filter domainSwap.Filter, limit, offset int) ([]*domainSwap.SwapRequest, error) {
	return s.swapRepo.List(ctx, filter, limit, offset)
}

// retireBooks takes the exchanged books off the shelf once both parties
// confirmed. Best-effort: a failure is logged, the completion stands.
func (s *Service) retireBooks(ctx context.Context, sr *domainSwap.SwapRequest) {
	ownerBook := sr.BookID
	if sr.CounterOfferedBookID != nil {
		ownerBook = *sr.CounterOfferedBookID
	}
	for _, bookID := range []uuid.UUID{ownerBook, sr.OfferedBookID} {
		if err := s.bookRepo.SetAvailability(ctx, bookID, false); err != nil {
			s.logger.Warn().Err(err).
				Str("swapId", sr.SwapID.String()).
				Str("bookId", bookID.String()).
				Msg("failed to mark swapped book unavailable")
		}
	}
}

func (s *Service) audit(ctx context.Context, swapID, actorID uuid.UUID, action string) {
	s.auditSvc.Log(ctx, &audit.Entry{
		EntityType: audit.EntityTypeSwap,
		EntityID:   swapID,
		Action:     action,
		ActorID:    actorID,
	})
}

// authorize applies the permission predicate for the action. A denial is
// ErrInvalidTransition when the status disallows the move and ErrForbidden
// when the actor is the wrong party.
func authorize(snap *domainSwap.SwapRequest, actorID uuid.UUID, action domainSwap.Action) error {
	allowed := false
	switch action {
	case domainSwap.ActionAccept:
		allowed = domainSwap.CanAccept(snap, actorID)
	case domainSwap.ActionCounterOffer:
		allowed = domainSwap.CanCounterOffer(snap, actorID)
	case domainSwap.ActionAcceptCounterOffer:
		allowed = domainSwap.CanAcceptCounterOffer(snap, actorID)
	case domainSwap.ActionCancel:
		allowed = domainSwap.CanCancel(snap, actorID)
	}
	if allowed {
		return nil
	}
	if _, err := domainSwap.NextStatus(snap.Status, action); err != nil {
		return domainSwap.ErrInvalidTransition
	}
	return domainSwap.ErrForbidden
}

func eventKind(action domainSwap.Action) notification.Kind {
	switch action {
	case domainSwap.ActionAccept, domainSwap.ActionAcceptCounterOffer:
		return notification.KindSwapAccepted
	case domainSwap.ActionCounterOffer:
		return notification.KindSwapCounterOffer
	default:
		return notification.KindSwapCancelled
	}
}

func counterpart(s *domainSwap.SwapRequest, actorID uuid.UUID) uuid.UUID {
	if s.RequesterID == actorID {
		return s.OwnerID
	}
	return s.RequesterID
}
