package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookswap/bookswap/internal/domain/user"
)

// Service authenticates users and issues JWT bearer tokens.
type Service struct {
	userRepo user.Repository
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates an auth service.
func NewService(userRepo user.Repository, secret []byte, tokenTTL time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger.With().Str("service", "auth").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// LoginResult contains the login response.
type LoginResult struct {
	User  *user.User
	Token string
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = user.NormalizeUsername(username)
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !user.VerifyPassword(u.PasswordHash, password) {
		return nil, fmt.Errorf("invalid username or password")
	}
	if !u.IsActive() {
		return nil, fmt.Errorf("user is disabled")
	}
	token, err := s.issueToken(u.UserID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("userId", u.UserID.String()).Msg("user logged in")
	return &LoginResult{User: u, Token: token}, nil
}

// Authenticate validates a bearer token and returns the active user.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*user.User, error) {
	userID, err := s.verifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("unknown user")
	}
	if !u.IsActive() {
		return nil, fmt.Errorf("user is disabled")
	}
	return u, nil
}

func (s *Service) issueToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) verifyToken(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("missing token")
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token subject")
	}
	return userID, nil
}
