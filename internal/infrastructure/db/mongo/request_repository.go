package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

const collectionRequests = "requests"

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

type requestDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CargoOwnerID  string             `bson:"cargo_owner_id"`
	AgentID       string             `bson:"agent_id,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description,omitempty"`
	CargoType     string             `bson:"cargo_type,omitempty"`
	Origin        string             `bson:"origin,omitempty"`
	Destination   string             `bson:"destination,omitempty"`
	DeclaredValue float64            `bson:"declared_value,omitempty"`
	Currency      string             `bson:"currency,omitempty"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
	CompletedAt   *time.Time         `bson:"completed_at,omitempty"`
}

func fromDomainRequest(r *domain.Request) requestDoc {
	return requestDoc{
		CargoOwnerID:  r.CargoOwnerID,
		AgentID:       r.AgentID,
		Title:         r.Title,
		Description:   r.Description,
		CargoType:     r.CargoType,
		Origin:        r.Origin,
		Destination:   r.Destination,
		DeclaredValue: r.DeclaredValue,
		Currency:      r.Currency,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		CompletedAt:   r.CompletedAt,
	}
}

func (d *requestDoc) toDomain() *domain.Request {
	return &domain.Request{
		ID:            d.ID.Hex(),
		CargoOwnerID:  d.CargoOwnerID,
		AgentID:       d.AgentID,
		Title:         d.Title,
		Description:   d.Description,
		CargoType:     d.CargoType,
		Origin:        d.Origin,
		Destination:   d.Destination,
		DeclaredValue: d.DeclaredValue,
		Currency:      d.Currency,
		Status:        domain.RequestStatus(d.Status),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		CompletedAt:   d.CompletedAt,
	}
}

func (r *RequestRepository) Create(ctx context.Context, request *domain.Request) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomainRequest(request)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	var doc requestDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the stored document with the given request.
func (r *RequestRepository) Update(ctx context.Context, request *domain.Request) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(request.ID)
	if err != nil {
		return domain.ErrRequestNotFound
	}

	doc := fromDomainRequest(request)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRequestNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// List returns a page of requests matching filter and the total count.
func (r *RequestRepository) List(ctx context.Context, f ports.ListRequestsFilter) ([]*domain.Request, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CargoType != "" {
		filter["cargo_type"] = caseInsensitive(f.CargoType)
	}
	if f.Origin != "" {
		filter["origin"] = caseInsensitive(f.Origin)
	}
	if f.Destination != "" {
		filter["destination"] = caseInsensitive(f.Destination)
	}
	if f.CargoOwnerID != "" {
		filter["cargo_owner_id"] = f.CargoOwnerID
	}
	if f.AgentID != "" {
		filter["agent_id"] = f.AgentID
	}

	var clauses []bson.M
	if f.Search != "" {
		pattern := bson.M{"$regex": escapeRegex(f.Search), "$options": "i"}
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"title": pattern},
			{"description": pattern},
			{"cargo_type": pattern},
		}})
	}
	if f.Scoped {
		scope := []bson.M{}
		if f.ScopeOwnerID != "" {
			scope = append(scope, bson.M{"cargo_owner_id": f.ScopeOwnerID})
		}
		if f.ScopeAgentID != "" {
			scope = append(scope, bson.M{"agent_id": f.ScopeAgentID})
		}
		if len(scope) == 0 {
			// Scoped to a user with no profile: nothing is visible.
			return []*domain.Request{}, 0, nil
		}
		clauses = append(clauses, bson.M{"$or": scope})
	}
	if len(clauses) > 0 {
		filter["$and"] = clauses
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*domain.Request
	for cursor.Next(ctx) {
		var doc requestDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode request: %w", err)
		}
		requests = append(requests, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	return requests, total, nil
}

// EnsureIndexes supports the search filters and ownership scoping.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "cargo_owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "agent_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// escapeRegex neutralises user input used inside $regex filters.
func escapeRegex(value string) string {
	return regexp.QuoteMeta(value)
}
