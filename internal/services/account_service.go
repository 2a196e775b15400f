package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/lazarnikolic5396/Razmenime/internal/auth"
	"github.com/lazarnikolic5396/Razmenime/internal/models"
	"github.com/lazarnikolic5396/Razmenime/internal/repository"
)

// Serbian mobile numbers: 06X XXX XXXX, spaces optional.
var phoneRe = regexp.MustCompile(`^06[0-9]\s?[0-9]{3}\s?[0-9]{3,4}$`)

const defaultCountry = "Srbija"

// Belgrade center, used until a geocoder is wired in.
const (
	defaultLatitude  = 44.7866
	defaultLongitude = 20.4489
)

type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Update(ctx context.Context, id string, fields bson.M) error
	CreateOrganization(ctx context.Context, o *models.Organization) error
	CreateFamily(ctx context.Context, f *models.Family) error
	GetFamily(ctx context.Context, profileID string) (*models.Family, error)
	UpdateFamily(ctx context.Context, profileID string, fields bson.M) error
}

type LocationStore interface {
	GetOrCreateLocation(ctx context.Context, loc *models.Location) (*models.Location, error)
	GetLocation(ctx context.Context, id string) (*models.Location, error)
}

type AccountService struct {
	profiles  ProfileStore
	locations LocationStore
	tokens    *auth.TokenManager
	log       *zap.SugaredLogger
}

func NewAccountService(profiles ProfileStore, locations LocationStore, tokens *auth.TokenManager, log *zap.SugaredLogger) *AccountService {
	return &AccountService{profiles: profiles, locations: locations, tokens: tokens, log: log}
}

type RegisterInput struct {
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Role         string `json:"user_role"`
	City         string `json:"city"`
	Municipality string `json:"municipality"`
}

func (in *RegisterInput) validate() error {
	if len(strings.TrimSpace(in.FullName)) < 2 {
		return fmt.Errorf("%w: full name too short", ErrInvalidInput)
	}
	if len(strings.TrimSpace(in.Username)) < 3 {
		return fmt.Errorf("%w: username too short", ErrInvalidInput)
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(in.Password) < 6 {
		return fmt.Errorf("%w: password too short", ErrInvalidInput)
	}
	if in.Phone != "" && !phoneRe.MatchString(in.Phone) {
		return fmt.Errorf("%w: phone must match 06X XXX XXXX", ErrInvalidInput)
	}
	role := models.Role(in.Role)
	if in.Role == "" {
		role = models.RoleUser
	}
	// admin accounts are provisioned out of band, never via registration
	if !role.Valid() || role == models.RoleAdmin {
		return fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}
	if role == models.RoleFamily && len(strings.TrimSpace(in.City)) < 2 {
		return fmt.Errorf("%w: city is required for families", ErrInvalidInput)
	}
	return nil
}

// Register creates the profile plus its role extension row. Families get
// their location resolved up front so their requests can be placed on the
// map immediately.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Profile, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	role := models.Role(in.Role)
	if in.Role == "" {
		role = models.RoleUser
	}

	var locationID string
	if role == models.RoleFamily {
		city := strings.TrimSpace(in.City)
		address := strings.TrimSpace(in.Municipality)
		if address == "" {
			address = city
		}
		loc, err := s.locations.GetOrCreateLocation(ctx, &models.Location{
			City:      city,
			Address:   address,
			Country:   defaultCountry,
			Latitude:  defaultLatitude,
			Longitude: defaultLongitude,
		})
		if err != nil {
			return nil, err
		}
		locationID = loc.ID
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     strings.TrimSpace(in.Username),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		LocationID:   locationID,
		Role:         role,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email taken", ErrConflict)
		}
		return nil, err
	}

	switch role {
	case models.RoleOrganization:
		err = s.profiles.CreateOrganization(ctx, &models.Organization{
			ID:               uuid.NewString(),
			ProfileID:        profile.ID,
			OrganizationName: profile.FullName,
		})
	case models.RoleFamily:
		err = s.profiles.CreateFamily(ctx, &models.Family{
			ID:         uuid.NewString(),
			ProfileID:  profile.ID,
			FamilyName: profile.FullName,
		})
	}
	if err != nil {
		s.log.Errorw("role record create failed", "profile_id", profile.ID, "role", role, "err", err)
		return nil, err
	}
	return profile, nil
}

// Login verifies credentials and issues an access token. Deactivated
// accounts are rejected with ErrBlocked so the gate can send them to the
// blocked page.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *models.Profile, error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrUnauthorized
		}
		return "", nil, err
	}
	if !auth.CheckPassword(profile.PasswordHash, password) {
		return "", nil, ErrUnauthorized
	}
	if !profile.IsActive {
		return "", nil, ErrBlocked
	}
	token, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*models.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

type UpdateProfileInput struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
	City      string `json:"city"`
	Address   string `json:"address"`
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) error {
	if in.Phone != "" && !phoneRe.MatchString(in.Phone) {
		return fmt.Errorf("%w: phone must match 06X XXX XXXX", ErrInvalidInput)
	}
	fields := bson.M{}
	if in.FullName != "" {
		fields["full_name"] = strings.TrimSpace(in.FullName)
	}
	if in.Phone != "" {
		fields["phone"] = strings.TrimSpace(in.Phone)
	}
	if in.AvatarURL != "" {
		fields["avatar_url"] = in.AvatarURL
	}
	if in.City != "" {
		address := strings.TrimSpace(in.Address)
		if address == "" {
			address = strings.TrimSpace(in.City)
		}
		loc, err := s.locations.GetOrCreateLocation(ctx, &models.Location{
			City:      strings.TrimSpace(in.City),
			Address:   address,
			Country:   defaultCountry,
			Latitude:  defaultLatitude,
			Longitude: defaultLongitude,
		})
		if err != nil {
			return err
		}
		fields["location_id"] = loc.ID
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	return s.profiles.Update(ctx, userID, fields)
}

func (s *AccountService) GetFamily(ctx context.Context, profileID string) (*models.Family, error) {
	f, err := s.profiles.GetFamily(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *AccountService) UpdateFamily(ctx context.Context, profileID, description string) error {
	return s.profiles.UpdateFamily(ctx, profileID, bson.M{"description": description})
}
