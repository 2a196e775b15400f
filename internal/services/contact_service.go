package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
	"github.com/lazarnikolic5396/Razmenime/internal/repository"
)

const defaultFamilyGreeting = "Zdravo! Želim da pomognem."

type JoinStore interface {
	GetAdRequest(ctx context.Context, adID, requesterID string) (*models.AdRequest, error)
	CreateAdRequest(ctx context.Context, req *models.AdRequest) error
	ListAdRequestsByRequester(ctx context.Context, requesterID string) ([]*models.AdRequest, error)
	ListAdRequestsForAds(ctx context.Context, adIDs []string) ([]*models.AdRequest, error)
	GetFamilyContact(ctx context.Context, requestID, helperID string) (*models.FamilyRequestContact, error)
	CreateFamilyContact(ctx context.Context, c *models.FamilyRequestContact) error
	ListFamilyContactsByHelper(ctx context.Context, helperID string) ([]*models.FamilyRequestContact, error)
	GetDonationRequest(ctx context.Context, id string) (*models.DonationRequest, error)
}

// Messenger is the slice of MessageService the contact flows need.
type Messenger interface {
	Send(ctx context.Context, in SendMessageInput) (*models.Message, error)
}

// ContactService implements request matching: given a subject (ad or family
// request) and two parties, it resolves the canonical conversation, records
// the join row on first contact, and appends the opening message.
type ContactService struct {
	conversations ConversationStore
	joins         JoinStore
	ads           AdStore
	messenger     Messenger
	log           *zap.SugaredLogger
}

func NewContactService(conversations ConversationStore, joins JoinStore, ads AdStore, messenger Messenger, log *zap.SugaredLogger) *ContactService {
	return &ContactService{
		conversations: conversations,
		joins:         joins,
		ads:           ads,
		messenger:     messenger,
		log:           log,
	}
}

// ContactAdOwner handles a requester contacting an ad's owner. First contact
// creates one conversation and one ad_requests row; repeat contact reuses
// both and only appends the message.
func (s *ContactService) ContactAdOwner(ctx context.Context, requesterID, adID, message string) (string, error) {
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if ad.UserID == requesterID {
		return "", fmt.Errorf("%w: cannot contact own ad", ErrInvalidInput)
	}
	if ad.Status != models.AdActive {
		return "", fmt.Errorf("%w: ad is not active", ErrInvalidInput)
	}

	existing, err := s.joins.GetAdRequest(ctx, adID, requesterID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	var conversationID string
	if existing != nil {
		conversationID = existing.ConversationID
	} else {
		conv, err := s.conversations.FindOrCreate(ctx, requesterID, ad.UserID)
		if err != nil {
			return "", err
		}
		conversationID = conv.ID
		join := &models.AdRequest{
			ID:             uuid.NewString(),
			AdID:           adID,
			RequesterID:    requesterID,
			ConversationID: conversationID,
		}
		if err := s.joins.CreateAdRequest(ctx, join); err != nil {
			// lost a concurrent first contact; the winner's row holds
			// the same conversation
			if !errors.Is(err, repository.ErrDuplicate) {
				return "", err
			}
		}
		s.log.Infow("ad contact opened", "ad_id", adID, "requester", requesterID, "conversation", conversationID)
	}

	if message != "" {
		if _, err := s.messenger.Send(ctx, SendMessageInput{
			ConversationID: conversationID,
			SenderID:       requesterID,
			Content:        message,
		}); err != nil {
			return "", err
		}
	}
	return conversationID, nil
}

// ContactFamily is the analogous flow for a helper contacting a family's
// donation request.
func (s *ContactService) ContactFamily(ctx context.Context, helperID, requestID, message string) (string, error) {
	req, err := s.joins.GetDonationRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if req.RequesterID == helperID {
		return "", fmt.Errorf("%w: cannot contact own request", ErrInvalidInput)
	}
	if req.Status != models.RequestActive {
		return "", fmt.Errorf("%w: request is not active", ErrInvalidInput)
	}

	existing, err := s.joins.GetFamilyContact(ctx, requestID, helperID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	if existing != nil {
		return existing.ConversationID, nil
	}

	conv, err := s.conversations.FindOrCreate(ctx, helperID, req.RequesterID)
	if err != nil {
		return "", err
	}
	contact := &models.FamilyRequestContact{
		ID:             uuid.NewString(),
		RequestID:      requestID,
		RequesterID:    req.RequesterID,
		HelperID:       helperID,
		ConversationID: conv.ID,
	}
	if err := s.joins.CreateFamilyContact(ctx, contact); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return "", err
		}
	}

	if message == "" {
		message = defaultFamilyGreeting
	}
	if _, err := s.messenger.Send(ctx, SendMessageInput{
		ConversationID: conv.ID,
		SenderID:       helperID,
		Content:        message,
	}); err != nil {
		return "", err
	}
	s.log.Infow("family contact opened", "request_id", requestID, "helper", helperID, "conversation", conv.ID)
	return conv.ID, nil
}

func (s *ContactService) ListAdRequestsByRequester(ctx context.Context, requesterID string) ([]*models.AdRequest, error) {
	return s.joins.ListAdRequestsByRequester(ctx, requesterID)
}

// ListAdRequestsForOwner returns the contact rows for every ad the owner has.
func (s *ContactService) ListAdRequestsForOwner(ctx context.Context, ownerID string, adIDs []string) ([]*models.AdRequest, error) {
	if len(adIDs) == 0 {
		return []*models.AdRequest{}, nil
	}
	return s.joins.ListAdRequestsForAds(ctx, adIDs)
}

func (s *ContactService) ListFamilyContactsByHelper(ctx context.Context, helperID string) ([]*models.FamilyRequestContact, error) {
	return s.joins.ListFamilyContactsByHelper(ctx, helperID)
}
