package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
)

type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection("messages")}
}

func (r *MessageRepository) Insert(ctx context.Context, m *models.Message) error {
	_, err := r.coll.InsertOne(ctx, m)
	return translateErr(err)
}

// List returns the conversation's messages in ascending creation order.
// A non-zero after timestamp narrows the result to newer messages only, so
// pollers can fetch deltas instead of the full log.
func (r *MessageRepository) List(ctx context.Context, conversationID string, after time.Time) ([]*models.Message, error) {
	filter := bson.M{"conversation_id": conversationID}
	if !after.IsZero() {
		filter["created_at"] = bson.M{"$gt": after}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Message{}
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

func (r *MessageRepository) Last(ctx context.Context, conversationID string) (*models.Message, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var m models.Message
	if err := r.coll.FindOne(ctx, bson.M{"conversation_id": conversationID}, opts).Decode(&m); err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

// CountUnread counts messages authored by the other participant that the
// viewer has not read yet.
func (r *MessageRepository) CountUnread(ctx context.Context, conversationID, viewerID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"conversation_id": conversationID,
		"sender_id":       bson.M{"$ne": viewerID},
		"is_read":         false,
	})
}

// MarkRead flags every other-party message in the conversation as read.
func (r *MessageRepository) MarkRead(ctx context.Context, conversationID, viewerID string) error {
	_, err := r.coll.UpdateMany(ctx, bson.M{
		"conversation_id": conversationID,
		"sender_id":       bson.M{"$ne": viewerID},
		"is_read":         false,
	}, bson.M{"$set": bson.M{"is_read": true}})
	return err
}
