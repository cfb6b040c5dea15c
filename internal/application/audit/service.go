package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookswap/bookswap/internal/domain/audit"
)

// Service appends audit entries for committed transitions.
type Service struct {
	repo   audit.Repository
	logger zerolog.Logger
}

// NewService creates an audit service.
func NewService(repo audit.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "audit").Logger(),
	}
}

// Log records an entry best-effort: a failed write is logged and swallowed
// so it never affects the transition being audited.
func (s *Service) Log(ctx context.Context, entry *audit.Entry) {
	if entry.AuditID == uuid.Nil {
		entry.AuditID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("entityType", string(entry.EntityType)).
			Str("entityId", entry.EntityID.String()).
			Str("action", entry.Action).
			Msg("failed to create audit entry")
		return
	}
	s.logger.Debug().
		Str("entityType", string(entry.EntityType)).
		Str("entityId", entry.EntityID.String()).
		Str("action", entry.Action).
		Str("actor", entry.ActorID.String()).
		Msg("audit entry created")
}

// ListByEntity returns the audit trail of one entity.
func (s *Service) ListByEntity(ctx context.Context, entityType audit.EntityType, entityID uuid.UUID, limit, offset int) ([]*audit.Entry, error) {
	return s.repo.ListByEntity(ctx, entityType, entityID, limit, offset)
}
