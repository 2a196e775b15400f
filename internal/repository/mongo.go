package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

func NewMongoClient(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the uniqueness and query indexes the services rely
// on. The unique pair index on conversations is what makes find-or-create
// idempotent under concurrent first contact.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := []struct {
		coll  string
		model mongo.IndexModel
	}{
		{"profiles", mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_uniq"),
		}},
		{"profiles", mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_uniq"),
		}},
		{"conversations", mongo.IndexModel{
			Keys:    bson.D{{Key: "participant_1_id", Value: 1}, {Key: "participant_2_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("participants_uniq"),
		}},
		{"messages", mongo.IndexModel{
			Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("conversation_created_idx"),
		}},
		{"ad_requests", mongo.IndexModel{
			Keys:    bson.D{{Key: "ad_id", Value: 1}, {Key: "requester_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("ad_requester_uniq"),
		}},
		{"family_request_contacts", mongo.IndexModel{
			Keys:    bson.D{{Key: "request_id", Value: 1}, {Key: "helper_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("request_helper_uniq"),
		}},
		{"ads", mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("status_created_idx"),
		}},
		{"ads", mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("owner_idx"),
		}},
		{"donation_requests", mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("status_created_idx"),
		}},
		{"locations", mongo.IndexModel{
			Keys:    bson.D{{Key: "city", Value: 1}, {Key: "address", Value: 1}, {Key: "country", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("city_address_uniq"),
		}},
		{"categories", mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_uniq"),
		}},
	}
	for _, s := range specs {
		if _, err := db.Collection(s.coll).Indexes().CreateOne(ctx, s.model); err != nil {
			return err
		}
	}
	return nil
}

func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
