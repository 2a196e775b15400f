package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
)

// RequestRepository handles the two join collections (ad_requests,
// family_request_contacts) and the donation_requests collection.
type RequestRepository struct {
	adRequests     *mongo.Collection
	familyContacts *mongo.Collection
	donations      *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{
		adRequests:     db.Collection("ad_requests"),
		familyContacts: db.Collection("family_request_contacts"),
		donations:      db.Collection("donation_requests"),
	}
}

func (r *RequestRepository) GetAdRequest(ctx context.Context, adID, requesterID string) (*models.AdRequest, error) {
	var req models.AdRequest
	err := r.adRequests.FindOne(ctx, bson.M{"ad_id": adID, "requester_id": requesterID}).Decode(&req)
	if err != nil {
		return nil, translateErr(err)
	}
	return &req, nil
}

func (r *RequestRepository) CreateAdRequest(ctx context.Context, req *models.AdRequest) error {
	req.CreatedAt = time.Now().UTC()
	_, err := r.adRequests.InsertOne(ctx, req)
	return translateErr(err)
}

func (r *RequestRepository) ListAdRequestsByRequester(ctx context.Context, requesterID string) ([]*models.AdRequest, error) {
	return r.listAdRequests(ctx, bson.M{"requester_id": requesterID})
}

func (r *RequestRepository) ListAdRequestsForAds(ctx context.Context, adIDs []string) ([]*models.AdRequest, error) {
	return r.listAdRequests(ctx, bson.M{"ad_id": bson.M{"$in": adIDs}})
}

func (r *RequestRepository) listAdRequests(ctx context.Context, filter bson.M) ([]*models.AdRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.adRequests.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.AdRequest{}
	for cur.Next(ctx) {
		var req models.AdRequest
		if err := cur.Decode(&req); err != nil {
			return nil, err
		}
		out = append(out, &req)
	}
	return out, cur.Err()
}

func (r *RequestRepository) GetFamilyContact(ctx context.Context, requestID, helperID string) (*models.FamilyRequestContact, error) {
	var c models.FamilyRequestContact
	err := r.familyContacts.FindOne(ctx, bson.M{"request_id": requestID, "helper_id": helperID}).Decode(&c)
	if err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

func (r *RequestRepository) CreateFamilyContact(ctx context.Context, c *models.FamilyRequestContact) error {
	c.CreatedAt = time.Now().UTC()
	_, err := r.familyContacts.InsertOne(ctx, c)
	return translateErr(err)
}

func (r *RequestRepository) ListFamilyContactsByHelper(ctx context.Context, helperID string) ([]*models.FamilyRequestContact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.familyContacts.Find(ctx, bson.M{"helper_id": helperID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.FamilyRequestContact{}
	for cur.Next(ctx) {
		var c models.FamilyRequestContact
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

func (r *RequestRepository) CreateDonationRequest(ctx context.Context, d *models.DonationRequest) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := r.donations.InsertOne(ctx, d)
	return translateErr(err)
}

func (r *RequestRepository) GetDonationRequest(ctx context.Context, id string) (*models.DonationRequest, error) {
	var d models.DonationRequest
	if err := r.donations.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, translateErr(err)
	}
	return &d, nil
}

func (r *RequestRepository) ListDonationRequests(ctx context.Context, status models.RequestStatus, requesterID string) ([]*models.DonationRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if requesterID != "" {
		filter["requester_id"] = requesterID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.donations.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.DonationRequest{}
	for cur.Next(ctx) {
		var d models.DonationRequest
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (r *RequestRepository) SetDonationRequestStatus(ctx context.Context, id string, status models.RequestStatus) error {
	res, err := r.donations.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
