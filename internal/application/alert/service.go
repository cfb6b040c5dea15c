package alert

import (
	"context"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookswap/bookswap/internal/domain/alert"
	"github.com/bookswap/bookswap/internal/domain/book"
	"github.com/bookswap/bookswap/internal/domain/notification"
)

// Service manages saved search alerts and evaluates them against newly
// listed books.
type Service struct {
	repo       alert.Repository
	dispatcher notification.Dispatcher
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService creates an alert service.
func NewService(repo alert.Repository, dispatcher notification.Dispatcher, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "alert").Logger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create saves a new alert. The expression must parse.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name, expression string) (*alert.Alert, error) {
	a := &alert.Alert{
		AlertID:    uuid.New(),
		UserID:     userID,
		Name:       name,
		Expression: expression,
		Enabled:    true,
		CreatedAt:  s.now(),
		UpdatedAt:  s.now(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if _, err := govaluate.NewEvaluableExpression(expression); err != nil {
		return nil, alert.ErrValidation
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListForUser returns a user's alerts.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*alert.Alert, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes an alert owned by userID.
func (s *Service) Delete(ctx context.Context, alertID, userID uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, alertID)
	if err != nil {
		return err
	}
	if a == nil || a.UserID != userID {
		return alert.ErrNotFound
	}
	return s.repo.Delete(ctx, alertID)
}

// EvaluateBook runs every enabled alert against a newly listed book and
// dispatches a BOOK_MATCH notification per match. Evaluation failures are
// logged and skipped, never fatal.
func (s *Service) EvaluateBook(ctx context.Context, b *book.Book) {
	alerts, err := s.repo.ListEnabled(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to list alerts for evaluation")
		return
	}
	params := bookParams(b)
	for _, a := range alerts {
		if a.UserID == b.OwnerID {
			continue
		}
		if !s.matches(a, params) {
			continue
		}
		s.dispatcher.Dispatch(ctx, notification.Event{
			Kind:        notification.KindBookMatch,
			EntityID:    b.BookID,
			ActorID:     b.OwnerID,
			RecipientID: a.UserID,
		})
	}
}

func (s *Service) matches(a *alert.Alert, params map[string]interface{}) bool {
	expr, err := govaluate.NewEvaluableExpression(a.Expression)
	if err != nil {
		s.logger.Warn().Err(err).Str("alertId", a.AlertID.String()).Msg("alert expression does not parse")
		return false
	}
	result, err := expr.Evaluate(params)
	if err != nil {
		s.logger.Warn().Err(err).Str("alertId", a.AlertID.String()).Msg("alert expression failed to evaluate")
		return false
	}
	matched, ok := result.(bool)
	if !ok {
		s.logger.Warn().Str("alertId", a.AlertID.String()).Msg("alert expression did not evaluate to boolean")
		return false
	}
	return matched
}

func bookParams(b *book.Book) map[string]interface{} {
	genre := ""
	if b.Genre != nil {
		genre = *b.Genre
	}
	return map[string]interface{}{
		"title":     b.Title,
		"author":    b.Author,
		"genre":     genre,
		"condition": string(b.Condition),
		"available": b.Available,
	}
}
