package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const reservationTTL = 24 * time.Hour

// RatingReservation holds a short-lived claim on a (request, rater) pair
// while a rating create is in flight, narrowing the window between the
// existence check and the insert. The partial unique index on the ratings
// collection is the backstop.
// Key format: rating:<request_id>:<rater_id>
type RatingReservation struct {
	client *redis.Client
}

// NewRatingReservation creates a RatingReservation wrapping the given Redis
// client.
func NewRatingReservation(client *redis.Client) *RatingReservation {
	return &RatingReservation{client: client}
}

// Reserve claims the pair. It returns false when another create already holds
// the claim.
func (r *RatingReservation) Reserve(ctx context.Context, requestID, raterID string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.key(requestID, raterID), "1", reservationTTL).Result()
	if err != nil {
		return false, fmt.Errorf("reserve rating: %w", err)
	}
	return ok, nil
}

// Release frees the claim, allowing the pair to be rated again after a
// failed insert or a deleted rating.
func (r *RatingReservation) Release(ctx context.Context, requestID, raterID string) error {
	return r.client.Del(ctx, r.key(requestID, raterID)).Err()
}

func (r *RatingReservation) key(requestID, raterID string) string {
	return fmt.Sprintf("rating:%s:%s", requestID, raterID)
}
