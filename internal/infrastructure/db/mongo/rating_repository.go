package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clearport/clearance-system/internal/core/domain"
)

const collectionRatings = "ratings"

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{col: db.Collection(collectionRatings)}
}

type ratingDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AgentID   string             `bson:"agent_id"`
	RaterID   string             `bson:"rater_id"`
	RequestID string             `bson:"request_id,omitempty"`
	Score     int                `bson:"score"`
	Comment   string             `bson:"comment,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *ratingDoc) toDomain() *domain.Rating {
	return &domain.Rating{
		ID:        d.ID.Hex(),
		AgentID:   d.AgentID,
		RaterID:   d.RaterID,
		RequestID: d.RequestID,
		Score:     d.Score,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := ratingDoc{
		AgentID:   rating.AgentID,
		RaterID:   rating.RaterID,
		RequestID: rating.RequestID,
		Score:     rating.Score,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		// The partial unique index is the backstop for the service-level
		// existence check.
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateRating
		}
		return nil, fmt.Errorf("insert rating: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *RatingRepository) FindByID(ctx context.Context, id string) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRatingNotFound
	}

	var doc ratingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RatingRepository) Update(ctx context.Context, rating *domain.Rating) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(rating.ID)
	if err != nil {
		return domain.ErrRatingNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"score":      rating.Score,
		"comment":    rating.Comment,
		"updated_at": rating.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRatingNotFound
	}
	return nil
}

func (r *RatingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRatingNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRatingNotFound
	}
	return nil
}

func (r *RatingRepository) ExistsForRequest(ctx context.Context, requestID, raterID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	count, err := r.col.CountDocuments(ctx, bson.M{"request_id": requestID, "rater_id": raterID})
	if err != nil {
		return false, fmt.Errorf("count ratings: %w", err)
	}
	return count > 0, nil
}

// ScoresByAgent returns every score for the agent; aggregate recomputation
// does a full scan by design.
func (r *RatingRepository) ScoresByAgent(ctx context.Context, agentID string) ([]int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"score": 1})
	cursor, err := r.col.Find(ctx, bson.M{"agent_id": agentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("scores by agent: %w", err)
	}
	defer cursor.Close(ctx)

	var scores []int
	for cursor.Next(ctx) {
		var doc struct {
			Score int `bson:"score"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode score: %w", err)
		}
		scores = append(scores, doc.Score)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("scores by agent: %w", err)
	}
	return scores, nil
}

func (r *RatingRepository) RecentByAgent(ctx context.Context, agentID string, limit int64) ([]*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, bson.M{"agent_id": agentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []*domain.Rating
	for cursor.Next(ctx) {
		var doc ratingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode rating: %w", err)
		}
		ratings = append(ratings, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("recent ratings: %w", err)
	}
	return ratings, nil
}

// EnsureIndexes creates the agent lookup index and the partial unique index
// that closes the duplicate-rating race at the store.
func (r *RatingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "agent_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys: bson.D{{Key: "request_id", Value: 1}, {Key: "rater_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"request_id": bson.M{"$exists": true}}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
