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

const collectionAgents = "agents"

type AgentRepository struct {
	col *mongo.Collection
}

func NewAgentRepository(db *mongo.Database) *AgentRepository {
	return &AgentRepository{col: db.Collection(collectionAgents)}
}

type agentDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	UserID            string             `bson:"user_id"`
	CompanyName       string             `bson:"company_name"`
	LicenseNumber     string             `bson:"license_number,omitempty"`
	City              string             `bson:"city,omitempty"`
	Country           string             `bson:"country,omitempty"`
	YearsExperience   int                `bson:"years_experience"`
	AverageRating     float64            `bson:"average_rating"`
	TotalRatings      int64              `bson:"total_ratings"`
	CompletedRequests int64              `bson:"completed_requests"`
	IsVerified        bool               `bson:"is_verified"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func (d *agentDoc) toDomain() *domain.Agent {
	return &domain.Agent{
		ID:                d.ID.Hex(),
		UserID:            d.UserID,
		CompanyName:       d.CompanyName,
		LicenseNumber:     d.LicenseNumber,
		City:              d.City,
		Country:           d.Country,
		YearsExperience:   d.YearsExperience,
		AverageRating:     d.AverageRating,
		TotalRatings:      d.TotalRatings,
		CompletedRequests: d.CompletedRequests,
		IsVerified:        d.IsVerified,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func (r *AgentRepository) Create(ctx context.Context, a *domain.Agent) (*domain.Agent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := agentDoc{
		UserID:          a.UserID,
		CompanyName:     a.CompanyName,
		LicenseNumber:   a.LicenseNumber,
		City:            a.City,
		Country:         a.Country,
		YearsExperience: a.YearsExperience,
		IsVerified:      a.IsVerified,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProfileExists
		}
		return nil, fmt.Errorf("insert agent: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *AgentRepository) FindByID(ctx context.Context, id string) (*domain.Agent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAgentNotFound
	}

	var doc agentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("find agent: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AgentRepository) FindByUserID(ctx context.Context, userID string) (*domain.Agent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc agentDoc
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("find agent: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns a page of agents matching the directory filter and the total
// count.
func (r *AgentRepository) List(ctx context.Context, f ports.ListAgentsFilter) ([]*domain.Agent, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.City != "" {
		filter["city"] = caseInsensitive(f.City)
	}
	if f.Country != "" {
		filter["country"] = caseInsensitive(f.Country)
	}
	if f.VerifiedOnly {
		filter["is_verified"] = true
	}
	if f.MinRating > 0 {
		filter["average_rating"] = bson.M{"$gte": f.MinRating}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count agents: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "average_rating", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list agents: %w", err)
	}
	defer cursor.Close(ctx)

	var agents []*domain.Agent
	for cursor.Next(ctx) {
		var doc agentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode agent: %w", err)
		}
		agents = append(agents, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list agents: %w", err)
	}
	return agents, total, nil
}

func (r *AgentRepository) UpdateRatingStats(ctx context.Context, id string, average float64, total int64) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"average_rating": average,
		"total_ratings":  total,
		"updated_at":     time.Now().UTC(),
	}})
}

func (r *AgentRepository) IncrementCompleted(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$inc": bson.M{"completed_requests": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *AgentRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"is_verified": verified,
		"updated_at":  time.Now().UTC(),
	}})
}

func (r *AgentRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAgentNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update agent: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAgentNotFound
	}
	return nil
}

// EnsureIndexes enforces one profile per user and supports the directory
// queries.
func (r *AgentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "country", Value: 1}}},
		{Keys: bson.D{{Key: "average_rating", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// caseInsensitive builds an anchored case-insensitive exact match.
func caseInsensitive(value string) bson.M {
	return bson.M{"$regex": "^" + escapeRegex(value) + "$", "$options": "i"}
}
