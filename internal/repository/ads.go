package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
)

type AdFilter struct {
	Status     models.AdStatus
	CategoryID string
	UserID     string
	Search     string
	Limit      int64
}

type AdRepository struct {
	coll *mongo.Collection
}

func NewAdRepository(db *mongo.Database) *AdRepository {
	return &AdRepository{coll: db.Collection("ads")}
}

func (r *AdRepository) Create(ctx context.Context, ad *models.Ad) error {
	now := time.Now().UTC()
	ad.CreatedAt = now
	ad.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, ad)
	return translateErr(err)
}

func (r *AdRepository) GetByID(ctx context.Context, id string) (*models.Ad, error) {
	var ad models.Ad
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ad); err != nil {
		return nil, translateErr(err)
	}
	return &ad, nil
}

func (r *AdRepository) List(ctx context.Context, f AdFilter) ([]*models.Ad, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CategoryID != "" {
		filter["category_id"] = f.CategoryID
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Search != "" {
		filter["title"] = bson.M{"$regex": f.Search, "$options": "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts = opts.SetLimit(f.Limit)
	}
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Ad{}
	for cur.Next(ctx) {
		var ad models.Ad
		if err := cur.Decode(&ad); err != nil {
			return nil, err
		}
		out = append(out, &ad)
	}
	return out, cur.Err()
}

func (r *AdRepository) Update(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdRepository) SetStatus(ctx context.Context, id string, status models.AdStatus, reason string) error {
	fields := bson.M{"status": status}
	if reason != "" {
		fields["removed_reason"] = reason
	}
	return r.Update(ctx, id, fields)
}

// RemoveAllByOwner transitions every ad of a user to removed_by_admin. Used
// when a moderator deactivates an account.
func (r *AdRepository) RemoveAllByOwner(ctx context.Context, userID, reason string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{
		"status":         models.AdRemovedByAdmin,
		"removed_reason": reason,
		"updated_at":     time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *AdRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}

func (r *AdRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdRepository) DeleteAllByOwner(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
