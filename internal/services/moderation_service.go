package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
	"github.com/lazarnikolic5396/Razmenime/internal/repository"
)

// deactivationReason is the moderation note stamped on every ad
// removed as part of a user deactivation.
const deactivationReason = "Uklonjeno zbog deaktivacije korisnika"

type ModerationProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	ListAll(ctx context.Context) ([]*models.Profile, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type ModerationAdStore interface {
	GetByID(ctx context.Context, id string) (*models.Ad, error)
	List(ctx context.Context, f repository.AdFilter) ([]*models.Ad, error)
	SetStatus(ctx context.Context, id string, status models.AdStatus, reason string) error
	RemoveAllByOwner(ctx context.Context, userID, reason string) (int64, error)
	DeleteAllByOwner(ctx context.Context, userID string) error
}

// ModerationService implements admin operations. Every call is already
// behind the admin route guard; serviceToken additionally gates the
// privileged user-management endpoints the same way the rest of the
// platform talks to them, so a missing credential fails closed.
type ModerationService struct {
	profiles     ModerationProfileStore
	ads          ModerationAdStore
	serviceToken string
	log          *zap.SugaredLogger
}

func NewModerationService(profiles ModerationProfileStore, ads ModerationAdStore, serviceToken string, log *zap.SugaredLogger) *ModerationService {
	return &ModerationService{profiles: profiles, ads: ads, serviceToken: serviceToken, log: log}
}

func (s *ModerationService) ensureConfigured() error {
	if s.serviceToken == "" {
		return ErrNotConfigured
	}
	return nil
}

// ListUsers returns every profile, newest first.
func (s *ModerationService) ListUsers(ctx context.Context) ([]*models.Profile, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}
	return s.profiles.ListAll(ctx)
}

// SetUserActive flips the account flag. Deactivation also pulls every
// ad the user owns off the marketplace; reactivation restores only the
// flag, removed ads stay removed.
func (s *ModerationService) SetUserActive(ctx context.Context, userID string, active bool) error {
	if err := s.ensureConfigured(); err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, err := s.profiles.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.profiles.SetActive(ctx, userID, active); err != nil {
		return err
	}
	if !active {
		n, err := s.ads.RemoveAllByOwner(ctx, userID, deactivationReason)
		if err != nil {
			return err
		}
		s.log.Infow("user deactivated", "user_id", userID, "ads_removed", n)
		return nil
	}
	s.log.Infow("user reactivated", "user_id", userID)
	return nil
}

// DeleteUser removes the profile, its role rows and all of its ads.
func (s *ModerationService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.ensureConfigured(); err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if err := s.ads.DeleteAllByOwner(ctx, userID); err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.log.Infow("user deleted", "user_id", userID)
	return nil
}

// ListPendingAds returns ads awaiting review.
func (s *ModerationService) ListPendingAds(ctx context.Context) ([]*models.Ad, error) {
	return s.ads.List(ctx, repository.AdFilter{Status: models.AdInactive})
}

// ApproveAd publishes an inactive ad. Removed ads cannot come back.
func (s *ModerationService) ApproveAd(ctx context.Context, adID string) error {
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	switch ad.Status {
	case models.AdActive:
		return nil
	case models.AdRemovedByAdmin:
		return fmt.Errorf("%w: ad was removed by moderation", ErrConflict)
	}
	if err := s.ads.SetStatus(ctx, adID, models.AdActive, ""); err != nil {
		return err
	}
	s.log.Infow("ad approved", "ad_id", adID)
	return nil
}

// RemoveAd takes an ad down. The reason is optional and, when given, stored
// as a moderation note visible to the owner.
func (s *ModerationService) RemoveAd(ctx context.Context, adID, reason string) error {
	if _, err := s.ads.GetByID(ctx, adID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.ads.SetStatus(ctx, adID, models.AdRemovedByAdmin, reason); err != nil {
		return err
	}
	s.log.Infow("ad removed by moderation", "ad_id", adID, "reason", reason)
	return nil
}
