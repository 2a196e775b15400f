package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
	"github.com/lazarnikolic5396/Razmenime/internal/repository"
)

type AdStore interface {
	Create(ctx context.Context, ad *models.Ad) error
	GetByID(ctx context.Context, id string) (*models.Ad, error)
	List(ctx context.Context, f repository.AdFilter) ([]*models.Ad, error)
	Update(ctx context.Context, id string, fields bson.M) error
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type AdService struct {
	ads AdStore
	log *zap.SugaredLogger
}

func NewAdService(ads AdStore, log *zap.SugaredLogger) *AdService {
	return &AdService{ads: ads, log: log}
}

type CreateAdInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CategoryID  string            `json:"category_id"`
	Condition   string            `json:"condition"`
	ImageURLs   []string          `json:"image_urls"`
	Metadata    map[string]string `json:"metadata"`
}

func (in *CreateAdInput) validate() error {
	if len(strings.TrimSpace(in.Title)) < 3 {
		return fmt.Errorf("%w: title too short", ErrInvalidInput)
	}
	if len(strings.TrimSpace(in.Description)) < 10 {
		return fmt.Errorf("%w: description too short", ErrInvalidInput)
	}
	if in.CategoryID == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if !models.Condition(in.Condition).Valid() {
		return fmt.Errorf("%w: invalid condition", ErrInvalidInput)
	}
	return nil
}

// Create gates by role before any write: families post donation requests,
// not ads. Non-admin creations always enter moderation as inactive.
func (s *AdService) Create(ctx context.Context, owner *models.Profile, in CreateAdInput) (*models.Ad, error) {
	if owner.Role == models.RoleFamily {
		return nil, fmt.Errorf("%w: families cannot publish ads", ErrForbidden)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if owner.LocationID == "" {
		return nil, fmt.Errorf("%w: profile location must be set first", ErrInvalidInput)
	}

	status := models.AdInactive
	if owner.Role == models.RoleAdmin {
		status = models.AdActive
	}
	ad := &models.Ad{
		ID:          uuid.NewString(),
		UserID:      owner.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		LocationID:  owner.LocationID,
		ImageURLs:   in.ImageURLs,
		Status:      status,
		Condition:   models.Condition(in.Condition),
		Metadata:    in.Metadata,
	}
	if ad.ImageURLs == nil {
		ad.ImageURLs = []string{}
	}
	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, err
	}
	s.log.Infow("ad created", "ad_id", ad.ID, "owner", owner.ID, "status", ad.Status)
	return ad, nil
}

func (s *AdService) Update(ctx context.Context, userID, adID string, in CreateAdInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	ad, err := s.getOwned(ctx, userID, adID)
	if err != nil {
		return err
	}
	fields := bson.M{
		"title":       strings.TrimSpace(in.Title),
		"description": strings.TrimSpace(in.Description),
		"category_id": in.CategoryID,
		"condition":   models.Condition(in.Condition),
		"metadata":    in.Metadata,
	}
	if in.ImageURLs != nil {
		fields["image_urls"] = in.ImageURLs
	}
	return s.ads.Update(ctx, ad.ID, fields)
}

// Get returns a single ad and bumps its view counter.
func (s *AdService) Get(ctx context.Context, id string) (*models.Ad, error) {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.ads.IncrementViews(ctx, id); err != nil {
		s.log.Warnw("view count bump failed", "ad_id", id, "err", err)
	}
	return ad, nil
}

func (s *AdService) ListActive(ctx context.Context, categoryID, search string, limit int64) ([]*models.Ad, error) {
	return s.ads.List(ctx, repository.AdFilter{
		Status:     models.AdActive,
		CategoryID: categoryID,
		Search:     search,
		Limit:      limit,
	})
}

func (s *AdService) ListByOwner(ctx context.Context, userID string, status models.AdStatus) ([]*models.Ad, error) {
	return s.ads.List(ctx, repository.AdFilter{UserID: userID, Status: status})
}

// Delete hard-deletes an ad owned by the caller.
func (s *AdService) Delete(ctx context.Context, userID, adID string) error {
	ad, err := s.getOwned(ctx, userID, adID)
	if err != nil {
		return err
	}
	return s.ads.Delete(ctx, ad.ID)
}

func (s *AdService) getOwned(ctx context.Context, userID, adID string) (*models.Ad, error) {
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ad.UserID != userID {
		return nil, ErrForbidden
	}
	return ad, nil
}
