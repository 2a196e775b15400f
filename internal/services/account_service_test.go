package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazarnikolic5396/Razmenime/internal/auth"
	"github.com/lazarnikolic5396/Razmenime/internal/models"
)

func newAccountService(profiles *fakeProfiles, locations *fakeLocations) *AccountService {
	return NewAccountService(profiles, locations, auth.NewTokenManager("test-secret", time.Hour), testLogger())
}

func validRegister() RegisterInput {
	return RegisterInput{
		FullName: "Petar Petrović",
		Username: "petar",
		Email:    "petar@example.com",
		Phone:    "061 234 5678",
		Password: "lozinka123",
		Role:     "user",
	}
}

func TestRegisterDefaultsToUserRole(t *testing.T) {
	profiles := newFakeProfiles()
	svc := newAccountService(profiles, newFakeLocations())

	in := validRegister()
	in.Role = ""
	p, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, p.Role)
	assert.True(t, p.IsActive)
	assert.Empty(t, p.LocationID)
}

func TestRegisterOrganizationCreatesOrgRow(t *testing.T) {
	profiles := newFakeProfiles()
	svc := newAccountService(profiles, newFakeLocations())

	in := validRegister()
	in.Role = "organization"
	p, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganization, p.Role)
	require.Len(t, profiles.organizations, 1)
	assert.Equal(t, p.ID, profiles.organizations[0].ProfileID)
}

func TestRegisterFamilyResolvesLocation(t *testing.T) {
	profiles := newFakeProfiles()
	locations := newFakeLocations()
	svc := newAccountService(profiles, locations)

	in := validRegister()
	in.Role = "family"
	in.City = "Novi Sad"
	p, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, p.LocationID)

	loc, err := locations.GetLocation(context.Background(), p.LocationID)
	require.NoError(t, err)
	assert.Equal(t, "Novi Sad", loc.City)
	assert.Equal(t, "Srbija", loc.Country)

	_, err = profiles.GetFamily(context.Background(), p.ID)
	assert.NoError(t, err)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newAccountService(newFakeProfiles(), newFakeLocations())
	in := validRegister()
	in.Role = "admin"
	_, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterRejectsBadPhone(t *testing.T) {
	svc := newAccountService(newFakeProfiles(), newFakeLocations())
	in := validRegister()
	in.Phone = "0112345678"
	_, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAccountService(newFakeProfiles(), newFakeLocations())
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	in := validRegister()
	in.Email = "drugi@example.com"
	_, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLoginRoundTrip(t *testing.T) {
	svc := newAccountService(newFakeProfiles(), newFakeLocations())
	reg, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	token, p, err := svc.Login(context.Background(), "petar", "lozinka123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, reg.ID, p.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAccountService(newFakeProfiles(), newFakeLocations())
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "petar", "pogresna")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	profiles := newFakeProfiles()
	svc := newAccountService(profiles, newFakeLocations())
	reg, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	require.NoError(t, profiles.SetActive(context.Background(), reg.ID, false))
	_, _, err = svc.Login(context.Background(), "petar", "lozinka123")
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestUpdateProfileMovesLocation(t *testing.T) {
	profiles := newFakeProfiles()
	locations := newFakeLocations()
	svc := newAccountService(profiles, locations)
	reg, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	err = svc.UpdateProfile(context.Background(), reg.ID, UpdateProfileInput{City: "Niš"})
	require.NoError(t, err)

	p, err := profiles.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, p.LocationID)
}
