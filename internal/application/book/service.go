package book

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appAlert "github.com/bookswap/bookswap/internal/application/alert"
	"github.com/bookswap/bookswap/internal/domain/book"
)

// Service manages the book catalog.
type Service struct {
	repo     book.Repository
	alertSvc *appAlert.Service
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a book service.
func NewService(repo book.Repository, alertSvc *appAlert.Service, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		alertSvc: alertSvc,
		logger:   logger.With().Str("service", "book").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create lists a new book and evaluates saved search alerts against it.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, title, author string, genre *string, condition book.Condition) (*book.Book, error) {
	b := &book.Book{
		BookID:    uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Author:    author,
		Genre:     genre,
		Condition: condition,
		Available: true,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.alertSvc.EvaluateBook(ctx, b)
	return b, nil
}

// Get returns a book by id.
func (s *Service) Get(ctx context.Context, bookID uuid.UUID) (*book.Book, error) {
	b, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, book.ErrNotFound
	}
	return b, nil
}

// List returns books matching the filter.
func (s *Service) List(ctx context.Context, filter book.Filter, limit, offset int) ([]*book.Book, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// Update edits a book's catalog fields. Only the owner may edit.
func (s *Service) Update(ctx context.Context, bookID, actorID uuid.UUID, title, author *string, genre *string, condition *book.Condition, available *bool) (*book.Book, error) {
	b, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, book.ErrNotFound
	}
	if b.OwnerID != actorID {
		return nil, book.ErrForbidden
	}
	if title != nil {
		b.Title = *title
	}
	if author != nil {
		b.Author = *author
	}
	if genre != nil {
		b.Genre = genre
	}
	if condition != nil {
		b.Condition = *condition
	}
	if available != nil {
		b.Available = *available
	}
	b.UpdatedAt = s.now()
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
