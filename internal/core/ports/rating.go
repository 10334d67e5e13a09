package ports

import (
	"context"

	"github.com/clearport/clearance-system/internal/core/domain"
)

// CreateRatingInput carries the data for a new rating. RequestID is optional;
// when present, at most one rating per (request, rater) pair is allowed.
type CreateRatingInput struct {
	RaterID   string
	AgentID   string
	RequestID string
	Score     int
	Comment   string
}

// UpdateRatingInput is a partial update; nil fields leave the stored value
// untouched.
type UpdateRatingInput struct {
	Score   *int
	Comment *string
}

// RatingSummary is the aggregate view of an agent's ratings. Histogram always
// contains the buckets 1..5, zero-filled when empty.
type RatingSummary struct {
	AgentID   string
	Average   float64
	Total     int64
	Histogram map[int]int64
	Recent    []*domain.Rating
}

// RatingService defines rating CRUD plus aggregate maintenance. Every
// successful create/update/delete leaves the agent's stored average and count
// consistent with the rating collection.
type RatingService interface {
	Create(ctx context.Context, input CreateRatingInput) (*domain.Rating, error)
	Update(ctx context.Context, ratingID string, input UpdateRatingInput, raterID string) (*domain.Rating, error)
	Delete(ctx context.Context, ratingID, raterID string) error
	Summary(ctx context.Context, agentID string) (*RatingSummary, error)
}

// RatingRepository defines persistence operations for ratings.
type RatingRepository interface {
	Create(ctx context.Context, r *domain.Rating) (*domain.Rating, error)
	FindByID(ctx context.Context, id string) (*domain.Rating, error)
	Update(ctx context.Context, r *domain.Rating) error
	Delete(ctx context.Context, id string) error
	// ExistsForRequest reports whether the rater already rated this request.
	ExistsForRequest(ctx context.Context, requestID, raterID string) (bool, error)
	// ScoresByAgent returns every current score for the agent. Aggregates are
	// recomputed from this full scan on each write.
	ScoresByAgent(ctx context.Context, agentID string) ([]int, error)
	// RecentByAgent returns up to limit ratings, newest first.
	RecentByAgent(ctx context.Context, agentID string, limit int64) ([]*domain.Rating, error)
}
