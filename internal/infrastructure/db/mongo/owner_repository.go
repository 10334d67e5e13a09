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

const collectionCargoOwners = "cargo_owners"

type CargoOwnerRepository struct {
	col *mongo.Collection
}

func NewCargoOwnerRepository(db *mongo.Database) *CargoOwnerRepository {
	return &CargoOwnerRepository{col: db.Collection(collectionCargoOwners)}
}

type cargoOwnerDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	CompanyName string             `bson:"company_name"`
	TaxID       string             `bson:"tax_id,omitempty"`
	City        string             `bson:"city,omitempty"`
	Country     string             `bson:"country,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *cargoOwnerDoc) toDomain() *domain.CargoOwner {
	return &domain.CargoOwner{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		CompanyName: d.CompanyName,
		TaxID:       d.TaxID,
		City:        d.City,
		Country:     d.Country,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *CargoOwnerRepository) Create(ctx context.Context, o *domain.CargoOwner) (*domain.CargoOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := cargoOwnerDoc{
		UserID:      o.UserID,
		CompanyName: o.CompanyName,
		TaxID:       o.TaxID,
		City:        o.City,
		Country:     o.Country,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProfileExists
		}
		return nil, fmt.Errorf("insert cargo owner: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *CargoOwnerRepository) FindByID(ctx context.Context, id string) (*domain.CargoOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOwnerNotFound
	}

	var doc cargoOwnerDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("find cargo owner: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CargoOwnerRepository) FindByUserID(ctx context.Context, userID string) (*domain.CargoOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc cargoOwnerDoc
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("find cargo owner: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes enforces the one-profile-per-user rule at the store.
func (r *CargoOwnerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
