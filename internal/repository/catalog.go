package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
)

// CatalogRepository serves the mostly static lookup data: categories and
// locations.
type CatalogRepository struct {
	categories *mongo.Collection
	locations  *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		categories: db.Collection("categories"),
		locations:  db.Collection("locations"),
	}
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Category{}
	for cur.Next(ctx) {
		var c models.Category
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := r.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

func (r *CatalogRepository) GetCategories(ctx context.Context, ids []string) ([]*models.Category, error) {
	cur, err := r.categories.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Category{}
	for cur.Next(ctx) {
		var c models.Category
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

func (r *CatalogRepository) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	var l models.Location
	if err := r.locations.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return nil, translateErr(err)
	}
	return &l, nil
}

func (r *CatalogRepository) GetLocations(ctx context.Context, ids []string) ([]*models.Location, error) {
	cur, err := r.locations.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Location{}
	for cur.Next(ctx) {
		var l models.Location
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, cur.Err()
}

// GetOrCreateLocation reuses an existing (city, address, country) row or
// inserts a new one. The unique index resolves concurrent inserts the same
// way the conversation pair index does.
func (r *CatalogRepository) GetOrCreateLocation(ctx context.Context, loc *models.Location) (*models.Location, error) {
	filter := bson.M{"city": loc.City, "address": loc.Address, "country": loc.Country}
	var existing models.Location
	err := r.locations.FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	loc.CreatedAt = time.Now().UTC()
	if _, err := r.locations.InsertOne(ctx, loc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if err := r.locations.FindOne(ctx, filter).Decode(&existing); err != nil {
				return nil, translateErr(err)
			}
			return &existing, nil
		}
		return nil, err
	}
	return loc, nil
}
