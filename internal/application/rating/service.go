package rating

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookswap/bookswap/internal/domain/swap"
)

// Stats summarizes a user's swap history.
type Stats struct {
	TotalSwaps     int     `json:"totalSwaps"`
	TotalCompleted int     `json:"totalCompleted"`
	CompletionRate float64 `json:"completionRate"`
	AverageRating  float64 `json:"averageRating"`
}

// Service derives per-user statistics from the full swap set, recomputed
// on every read.
type Service struct {
	swapRepo swap.Repository
	logger   zerolog.Logger
}

// NewService creates a rating service.
func NewService(swapRepo swap.Repository, logger zerolog.Logger) *Service {
	return &Service{
		swapRepo: swapRepo,
		logger:   logger.With().Str("service", "rating").Logger(),
	}
}

// UserStats loads the user's swaps and aggregates them.
func (s *Service) UserStats(ctx context.Context, userID uuid.UUID) (Stats, error) {
	swaps, err := s.swapRepo.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(userID, swaps), nil
}

// ComputeStats aggregates a user's swap set. The average covers ratings
// the user received, i.e. the counterpart's rating on each swap.
func ComputeStats(userID uuid.UUID, swaps []*swap.SwapRequest) Stats {
	stats := Stats{TotalSwaps: len(swaps)}
	ratingSum := 0
	ratingCount := 0
	for _, sr := range swaps {
		if sr.Status == swap.StatusCompleted {
			stats.TotalCompleted++
		}
		var received *int
		if sr.RequesterID == userID {
			received = sr.OwnerRating
		} else {
			received = sr.RequesterRating
		}
		if received != nil {
			ratingSum += *received
			ratingCount++
		}
	}
	if stats.TotalSwaps > 0 {
		stats.CompletionRate = float64(stats.TotalCompleted) / float64(stats.TotalSwaps)
	}
	if ratingCount > 0 {
		stats.AverageRating = float64(ratingSum) / float64(ratingCount)
	}
	return stats
}
