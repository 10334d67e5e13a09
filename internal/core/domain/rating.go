package domain

import (
	"errors"
	"time"
)

const (
	MinScore = 1
	MaxScore = 5
)

var ErrRatingNotFound = errors.New("rating not found")
var ErrDuplicateRating = errors.New("rating already exists for this request")
var ErrInvalidScore = errors.New("score must be between 1 and 5")

// Rating is a 1–5 score a cargo owner gives an agent, optionally tied to a
// specific request. At most one rating may exist per (request, rater) pair.
type Rating struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agent_id"`
	RaterID   string    `json:"rater_id"`
	RequestID string    `json:"request_id,omitempty"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
