package book

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Condition grades the physical state of a book.
type Condition string

const (
	ConditionNew       Condition = "NEW"
	ConditionGood      Condition = "GOOD"
	ConditionWorn      Condition = "WORN"
	ConditionAnnotated Condition = "ANNOTATED"
)

var (
	ErrNotFound   = errors.New("book not found")
	ErrForbidden  = errors.New("book belongs to another user")
	ErrValidation = errors.New("invalid book input")
)

// Book represents a catalog entry owned by a user.
type Book struct {
	ID        int64     `json:"id"`
	BookID    uuid.UUID `json:"bookId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     *string   `json:"genre,omitempty"`
	Condition Condition `json:"condition"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks required catalog fields.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrValidation
	}
	if strings.TrimSpace(b.Author) == "" {
		return ErrValidation
	}
	switch b.Condition {
	case ConditionNew, ConditionGood, ConditionWorn, ConditionAnnotated:
	default:
		return ErrValidation
	}
	return nil
}
