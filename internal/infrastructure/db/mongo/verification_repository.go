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
	"github.com/clearport/clearance-system/internal/core/ports"
)

const collectionVerifications = "verification_requests"

type VerificationRepository struct {
	col *mongo.Collection
}

func NewVerificationRepository(db *mongo.Database) *VerificationRepository {
	return &VerificationRepository{col: db.Collection(collectionVerifications)}
}

type verificationDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	AgentID     string             `bson:"agent_id"`
	Status      string             `bson:"status"`
	Notes       string             `bson:"notes,omitempty"`
	ReviewedBy  string             `bson:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time         `bson:"reviewed_at,omitempty"`
	SubmittedAt time.Time          `bson:"submitted_at"`
}

func (d *verificationDoc) toDomain() *domain.Verification {
	return &domain.Verification{
		ID:          d.ID.Hex(),
		AgentID:     d.AgentID,
		Status:      domain.VerificationStatus(d.Status),
		Notes:       d.Notes,
		ReviewedBy:  d.ReviewedBy,
		ReviewedAt:  d.ReviewedAt,
		SubmittedAt: d.SubmittedAt,
	}
}

func (r *VerificationRepository) Create(ctx context.Context, v *domain.Verification) (*domain.Verification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := verificationDoc{
		AgentID:     v.AgentID,
		Status:      string(v.Status),
		Notes:       v.Notes,
		SubmittedAt: v.SubmittedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert verification: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *VerificationRepository) FindByID(ctx context.Context, id string) (*domain.Verification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVerificationNotFound
	}

	var doc verificationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVerificationNotFound
		}
		return nil, fmt.Errorf("find verification: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VerificationRepository) Update(ctx context.Context, v *domain.Verification) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(v.ID)
	if err != nil {
		return domain.ErrVerificationNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":      string(v.Status),
		"notes":       v.Notes,
		"reviewed_by": v.ReviewedBy,
		"reviewed_at": v.ReviewedAt,
	}})
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVerificationNotFound
	}
	return nil
}

func (r *VerificationRepository) List(ctx context.Context, f ports.ListVerificationsFilter) ([]*domain.Verification, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count verifications: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: 1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list verifications: %w", err)
	}
	defer cursor.Close(ctx)

	var verifications []*domain.Verification
	for cursor.Next(ctx) {
		var doc verificationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode verification: %w", err)
		}
		verifications = append(verifications, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list verifications: %w", err)
	}
	return verifications, total, nil
}

func (r *VerificationRepository) HasPendingForAgent(ctx context.Context, agentID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	count, err := r.col.CountDocuments(ctx, bson.M{
		"agent_id": agentID,
		"status":   string(domain.VerificationPending),
	})
	if err != nil {
		return false, fmt.Errorf("count pending verifications: %w", err)
	}
	return count > 0, nil
}

// EnsureIndexes supports the review queue and the one-pending-per-agent
// check.
func (r *VerificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "agent_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "submitted_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
