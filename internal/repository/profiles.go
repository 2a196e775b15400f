package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
)

type ProfileRepository struct {
	profiles      *mongo.Collection
	organizations *mongo.Collection
	families      *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		profiles:      db.Collection("profiles"),
		organizations: db.Collection("organizations"),
		families:      db.Collection("families"),
	}
}

func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.profiles.InsertOne(ctx, p)
	return translateErr(err)
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := r.profiles.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var p models.Profile
	if err := r.profiles.FindOne(ctx, bson.M{"username": username}).Decode(&p); err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	if err := r.profiles.FindOne(ctx, bson.M{"email": email}).Decode(&p); err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (r *ProfileRepository) GetMany(ctx context.Context, ids []string) ([]*models.Profile, error) {
	cur, err := r.profiles.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Profile
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (r *ProfileRepository) ListAll(ctx context.Context) ([]*models.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.profiles.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Profile
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (r *ProfileRepository) Update(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.profiles.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.Update(ctx, id, bson.M{"is_active": active})
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	res, err := r.profiles.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, _ = r.organizations.DeleteMany(ctx, bson.M{"profile_id": id})
	_, _ = r.families.DeleteMany(ctx, bson.M{"profile_id": id})
	return nil
}

func (r *ProfileRepository) CreateOrganization(ctx context.Context, o *models.Organization) error {
	o.CreatedAt = time.Now().UTC()
	_, err := r.organizations.InsertOne(ctx, o)
	return translateErr(err)
}

func (r *ProfileRepository) CreateFamily(ctx context.Context, f *models.Family) error {
	f.CreatedAt = time.Now().UTC()
	_, err := r.families.InsertOne(ctx, f)
	return translateErr(err)
}

func (r *ProfileRepository) GetFamily(ctx context.Context, profileID string) (*models.Family, error) {
	var f models.Family
	if err := r.families.FindOne(ctx, bson.M{"profile_id": profileID}).Decode(&f); err != nil {
		return nil, translateErr(err)
	}
	return &f, nil
}

func (r *ProfileRepository) GetFamilies(ctx context.Context, profileIDs []string) ([]*models.Family, error) {
	cur, err := r.families.Find(ctx, bson.M{"profile_id": bson.M{"$in": profileIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Family
	for cur.Next(ctx) {
		var f models.Family
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, cur.Err()
}

func (r *ProfileRepository) UpdateFamily(ctx context.Context, profileID string, fields bson.M) error {
	res, err := r.families.UpdateOne(ctx, bson.M{"profile_id": profileID}, bson.M{"$set": fields})
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
