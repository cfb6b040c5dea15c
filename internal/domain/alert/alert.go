package alert

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("alert not found")
	ErrValidation = errors.New("invalid alert input")
)

// Alert is a saved search: a boolean expression over book attributes that
// triggers a BOOK_MATCH notification when a newly listed book satisfies it.
type Alert struct {
	ID         int64     `json:"id"`
	AlertID    uuid.UUID `json:"alertId"`
	UserID     uuid.UUID `json:"userId"`
	Name       string    `json:"name"`
	Expression string    `json:"expression"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Validate checks required alert fields. Expression syntax is validated at
// evaluation time; an empty expression is rejected here.
func (a *Alert) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrValidation
	}
	if strings.TrimSpace(a.Expression) == "" {
		return ErrValidation
	}
	return nil
}
