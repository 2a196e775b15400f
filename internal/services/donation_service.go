package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
	"github.com/lazarnikolic5396/Razmenime/internal/repository"
)

type DonationRequestStore interface {
	CreateDonationRequest(ctx context.Context, d *models.DonationRequest) error
	GetDonationRequest(ctx context.Context, id string) (*models.DonationRequest, error)
	ListDonationRequests(ctx context.Context, status models.RequestStatus, requesterID string) ([]*models.DonationRequest, error)
	SetDonationRequestStatus(ctx context.Context, id string, status models.RequestStatus) error
}

// RequesterStore hydrates the public needs board with family info.
type RequesterStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetFamily(ctx context.Context, profileID string) (*models.Family, error)
}

// DonationService manages families' stated needs.
type DonationService struct {
	requests   DonationRequestStore
	requesters RequesterStore
	log        *zap.SugaredLogger
}

func NewDonationService(requests DonationRequestStore, requesters RequesterStore, log *zap.SugaredLogger) *DonationService {
	return &DonationService{requests: requests, requesters: requesters, log: log}
}

type CreateDonationRequestInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
}

// Create is family-only; other roles donate through ads.
func (s *DonationService) Create(ctx context.Context, requester *models.Profile, in CreateDonationRequestInput) (*models.DonationRequest, error) {
	if requester.Role != models.RoleFamily {
		return nil, fmt.Errorf("%w: only families can post donation requests", ErrForbidden)
	}
	if len(strings.TrimSpace(in.Title)) < 3 {
		return nil, fmt.Errorf("%w: title too short", ErrInvalidInput)
	}
	if len(strings.TrimSpace(in.Description)) < 10 {
		return nil, fmt.Errorf("%w: description too short", ErrInvalidInput)
	}
	if in.CategoryID == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	req := &models.DonationRequest{
		ID:          uuid.NewString(),
		RequesterID: requester.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		Status:      models.RequestActive,
	}
	if err := s.requests.CreateDonationRequest(ctx, req); err != nil {
		return nil, err
	}
	s.log.Infow("donation request created", "request_id", req.ID, "requester", requester.ID)
	return req, nil
}

func (s *DonationService) ListActive(ctx context.Context) ([]*models.DonationRequest, error) {
	return s.requests.ListDonationRequests(ctx, models.RequestActive, "")
}

// DonationRequestView is a board entry with the requesting family attached.
type DonationRequestView struct {
	*models.DonationRequest
	RequesterName     string `json:"requester_name,omitempty"`
	FamilyDescription string `json:"family_description,omitempty"`
	LocationID        string `json:"location_id,omitempty"`
}

// ListBoard returns active requests hydrated with family info for the
// public needs board. Rows whose requester vanished are skipped.
func (s *DonationService) ListBoard(ctx context.Context) ([]*DonationRequestView, error) {
	reqs, err := s.requests.ListDonationRequests(ctx, models.RequestActive, "")
	if err != nil {
		return nil, err
	}
	views := make([]*DonationRequestView, 0, len(reqs))
	for _, req := range reqs {
		requester, err := s.requesters.GetByID(ctx, req.RequesterID)
		if err != nil {
			s.log.Warnw("board row without requester", "request_id", req.ID, "requester", req.RequesterID)
			continue
		}
		view := &DonationRequestView{
			DonationRequest: req,
			RequesterName:   requester.FullName,
			LocationID:      requester.LocationID,
		}
		if fam, err := s.requesters.GetFamily(ctx, req.RequesterID); err == nil {
			view.FamilyDescription = fam.Description
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *DonationService) ListByRequester(ctx context.Context, requesterID string) ([]*models.DonationRequest, error) {
	return s.requests.ListDonationRequests(ctx, models.RequestActive, requesterID)
}

// Remove soft-deletes the request (status removed), owner only.
func (s *DonationService) Remove(ctx context.Context, requesterID, requestID string) error {
	req, err := s.requests.GetDonationRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if req.RequesterID != requesterID {
		return ErrForbidden
	}
	return s.requests.SetDonationRequestStatus(ctx, requestID, models.RequestRemoved)
}
