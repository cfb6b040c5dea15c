package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookswap/bookswap/internal/domain/notification"
)

// PushHub pushes messages to connected notification streams.
type PushHub interface {
	BroadcastToUser(userID uuid.UUID, message *notification.PushMessage)
}

// Service dispatches notification events. Dispatch is best-effort: every
// failure is logged and swallowed, and a repeat (recipient, entity, kind)
// inside the rolling dedupe window is dropped to avoid storms.
type Service struct {
	repo   notification.Repository
	hub    PushHub
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a notification service.
func NewService(repo notification.Repository, hub PushHub, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		hub:    hub,
		logger: logger.With().Str("service", "notification").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch delivers one event to its recipient.
func (s *Service) Dispatch(ctx context.Context, event notification.Event) {
	since := s.now().Add(-notification.DedupeWindow)
	sent, err := s.repo.SentSince(ctx, event.RecipientID, event.EntityID, event.Kind, since)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("kind", string(event.Kind)).
			Str("entityId", event.EntityID.String()).
			Msg("dedupe lookup failed, dropping notification")
		return
	}
	if sent {
		s.logger.Debug().
			Str("kind", string(event.Kind)).
			Str("entityId", event.EntityID.String()).
			Str("recipient", event.RecipientID.String()).
			Msg("notification deduplicated")
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"kind":     event.Kind,
		"entityId": event.EntityID.String(),
		"actorId":  event.ActorID.String(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal notification payload")
		return
	}

	n := &notification.Notification{
		NotificationID: uuid.New(),
		RecipientID:    event.RecipientID,
		Kind:           event.Kind,
		EntityID:       event.EntityID,
		Payload:        payload,
		CreatedAt:      s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn().Err(err).
			Str("kind", string(event.Kind)).
			Str("recipient", event.RecipientID.String()).
			Msg("failed to persist notification")
		return
	}

	s.hub.BroadcastToUser(event.RecipientID, notification.NewPushMessage("notification", payload))
}

// ListForRecipient returns a recipient's notification history.
func (s *Service) ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*notification.Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID, limit, offset)
}
