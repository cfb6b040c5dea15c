package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookswap/bookswap/internal/domain/user"
)

// Service manages user accounts.
type Service struct {
	repo   user.Repository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a user service.
func NewService(repo user.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "user").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a new active user with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*user.User, error) {
	username = user.NormalizeUsername(username)
	if err := user.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := user.ValidatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username %q is taken", username)
	}
	hash, err := user.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &user.User{
		UserID:       uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Status:       user.StatusActive,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Str("userId", u.UserID.String()).Str("username", u.Username).Msg("user registered")
	return u, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrNotFound
	}
	return u, nil
}
