package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

const recentRatingsLimit = 10

// ReservationGuard abstracts the duplicate-rating reservation store (Redis).
// It narrows, but does not fully close, the window between the existence
// check and the insert; the storage-level unique index is the backstop.
type ReservationGuard interface {
	Reserve(ctx context.Context, requestID, raterID string) (bool, error)
	Release(ctx context.Context, requestID, raterID string) error
}

// RatingService implements rating CRUD and synchronous aggregate
// recomputation on the agent profile.
type RatingService struct {
	ratings ports.RatingRepository
	agents  ports.AgentRepository
	guard   ReservationGuard
	logger  zerolog.Logger
}

func NewRatingService(
	ratings ports.RatingRepository,
	agents ports.AgentRepository,
	guard ReservationGuard,
	logger zerolog.Logger,
) *RatingService {
	return &RatingService{ratings: ratings, agents: agents, guard: guard, logger: logger}
}

// Create records a new rating and recomputes the agent's aggregates. When a
// request id is supplied, a second rating for the same (request, rater) pair
// is rejected.
func (s *RatingService) Create(ctx context.Context, input ports.CreateRatingInput) (*domain.Rating, error) {
	if input.Score < domain.MinScore || input.Score > domain.MaxScore {
		return nil, domain.ErrInvalidScore
	}

	agent, err := s.agents.FindByID(ctx, input.AgentID)
	if err != nil {
		return nil, err
	}

	if input.RequestID != "" {
		exists, err := s.ratings.ExistsForRequest(ctx, input.RequestID, input.RaterID)
		if err != nil {
			return nil, fmt.Errorf("create rating: %w", err)
		}
		if exists {
			return nil, domain.ErrDuplicateRating
		}

		ok, err := s.guard.Reserve(ctx, input.RequestID, input.RaterID)
		if err != nil {
			s.logger.Warn().Err(err).Str("request_id", input.RequestID).Msg("reservation check failed, proceeding")
		} else if !ok {
			return nil, domain.ErrDuplicateRating
		}
	}

	now := time.Now().UTC()
	rating := &domain.Rating{
		AgentID:   agent.ID,
		RaterID:   input.RaterID,
		RequestID: input.RequestID,
		Score:     input.Score,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.ratings.Create(ctx, rating)
	if err != nil {
		if input.RequestID != "" {
			if relErr := s.guard.Release(ctx, input.RequestID, input.RaterID); relErr != nil {
				s.logger.Warn().Err(relErr).Str("request_id", input.RequestID).Msg("failed to release reservation")
			}
		}
		return nil, fmt.Errorf("create rating: %w", err)
	}

	if err := s.recompute(ctx, agent.ID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("rating_id", created.ID).
		Str("agent_id", agent.ID).
		Int("score", created.Score).
		Msg("rating created")
	return created, nil
}

// Update lets the original rater change score or comment, then recomputes.
func (s *RatingService) Update(ctx context.Context, ratingID string, input ports.UpdateRatingInput, raterID string) (*domain.Rating, error) {
	rating, err := s.ratings.FindByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if rating.RaterID != raterID {
		return nil, domain.ErrForbidden
	}

	if input.Score != nil {
		if *input.Score < domain.MinScore || *input.Score > domain.MaxScore {
			return nil, domain.ErrInvalidScore
		}
		rating.Score = *input.Score
	}
	if input.Comment != nil {
		rating.Comment = *input.Comment
	}
	rating.UpdatedAt = time.Now().UTC()

	if err := s.ratings.Update(ctx, rating); err != nil {
		return nil, fmt.Errorf("update rating: %w", err)
	}
	if err := s.recompute(ctx, rating.AgentID); err != nil {
		return nil, err
	}
	return rating, nil
}

// Delete removes a rating (original rater only) and recomputes. When the last
// rating disappears the aggregates reset to zero.
func (s *RatingService) Delete(ctx context.Context, ratingID, raterID string) error {
	rating, err := s.ratings.FindByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating.RaterID != raterID {
		return domain.ErrForbidden
	}

	if err := s.ratings.Delete(ctx, ratingID); err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}

	if rating.RequestID != "" {
		if err := s.guard.Release(ctx, rating.RequestID, rating.RaterID); err != nil {
			s.logger.Warn().Err(err).Str("request_id", rating.RequestID).Msg("failed to release reservation")
		}
	}

	return s.recompute(ctx, rating.AgentID)
}

// Summary returns the agent's aggregate view: average, total, a zero-filled
// 1..5 histogram and the most recent ratings. An agent with no ratings gets a
// zeroed summary, not an error.
func (s *RatingService) Summary(ctx context.Context, agentID string) (*ports.RatingSummary, error) {
	scores, err := s.ratings.ScoresByAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}

	histogram := make(map[int]int64, domain.MaxScore)
	for score := domain.MinScore; score <= domain.MaxScore; score++ {
		histogram[score] = 0
	}

	var sum int
	for _, score := range scores {
		sum += score
		histogram[score]++
	}

	summary := &ports.RatingSummary{
		AgentID:   agentID,
		Total:     int64(len(scores)),
		Histogram: histogram,
	}
	if len(scores) > 0 {
		summary.Average = float64(sum) / float64(len(scores))
	}

	recent, err := s.ratings.RecentByAgent(ctx, agentID, recentRatingsLimit)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}
	summary.Recent = recent

	return summary, nil
}

// recompute refreshes the denormalized aggregates on the agent profile from a
// full scan of its current ratings.
func (s *RatingService) recompute(ctx context.Context, agentID string) error {
	scores, err := s.ratings.ScoresByAgent(ctx, agentID)
	if err != nil {
		return fmt.Errorf("recompute ratings: %w", err)
	}

	var average float64
	if len(scores) > 0 {
		var sum int
		for _, score := range scores {
			sum += score
		}
		average = float64(sum) / float64(len(scores))
	}

	if err := s.agents.UpdateRatingStats(ctx, agentID, average, int64(len(scores))); err != nil {
		return fmt.Errorf("recompute ratings: %w", err)
	}
	return nil
}
