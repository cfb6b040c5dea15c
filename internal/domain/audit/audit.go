package audit

import (
	"time"

	"github.com/google/uuid"
)

// EntityType classifies the audited entity.
type EntityType string

const (
	EntityTypeSwap EntityType = "SWAP"
	EntityTypeBook EntityType = "BOOK"
	EntityTypeUser EntityType = "USER"
)

// Entry is an append-only record of a committed transition.
type Entry struct {
	ID         int64      `json:"id"`
	AuditID    uuid.UUID  `json:"auditId"`
	EntityType EntityType `json:"entityType"`
	EntityID   uuid.UUID  `json:"entityId"`
	Action     string     `json:"action"`
	ActorID    uuid.UUID  `json:"actorId"`
	Detail     *string    `json:"detail,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
