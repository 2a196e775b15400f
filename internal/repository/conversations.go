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

type ConversationRepository struct {
	coll *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{coll: db.Collection("conversations")}
}

// FindOrCreate returns the single conversation for an unordered pair,
// creating it on first contact. The pair is normalized before insert and the
// unique participants index turns a lost race into a duplicate-key error,
// which is answered by re-fetching the winner's row.
func (r *ConversationRepository) FindOrCreate(ctx context.Context, a, b string) (*models.Conversation, error) {
	p1, p2 := models.NormalizePair(a, b)
	filter := bson.M{"participant_1_id": p1, "participant_2_id": p2}

	var conv models.Conversation
	err := r.coll.FindOne(ctx, filter).Decode(&conv)
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	conv = models.Conversation{
		ID:           uuid.NewString(),
		Participant1: p1,
		Participant2: p2,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, &conv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if err := r.coll.FindOne(ctx, filter).Decode(&conv); err != nil {
				return nil, translateErr(err)
			}
			return &conv, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&conv); err != nil {
		return nil, translateErr(err)
	}
	return &conv, nil
}

func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]*models.Conversation, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"participant_1_id": userID},
		bson.M{"participant_2_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Conversation{}
	for cur.Next(ctx) {
		var conv models.Conversation
		if err := cur.Decode(&conv); err != nil {
			return nil, err
		}
		out = append(out, &conv)
	}
	return out, cur.Err()
}

func (r *ConversationRepository) TouchLastMessage(ctx context.Context, id string, at time.Time) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_message_at": at}})
	return err
}
