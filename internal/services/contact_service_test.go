package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
)

type contactFixture struct {
	svc   *ContactService
	convs *fakeConversations
	joins *fakeJoins
	ads   *fakeAds
	msgs  *fakeMessages
}

func newContactFixture(t *testing.T) *contactFixture {
	t.Helper()
	profiles := newFakeProfiles()
	for _, id := range []string{"vlasnik", "trazilac", "pomagac", "porodica"} {
		require.NoError(t, profiles.Create(context.Background(), &models.Profile{ID: id, Username: id, Email: id + "@example.com", IsActive: true}))
	}

	convs := newFakeConversations()
	msgs := &fakeMessages{}
	messenger := NewMessageService(convs, msgs, profiles, nil, nil, nil, testLogger())

	joins := newFakeJoins()
	ads := newFakeAds()
	svc := NewContactService(convs, joins, ads, messenger, testLogger())
	return &contactFixture{svc: svc, convs: convs, joins: joins, ads: ads, msgs: msgs}
}

func (f *contactFixture) seedAd(t *testing.T, status models.AdStatus) *models.Ad {
	t.Helper()
	ad := &models.Ad{ID: "ad-1", UserID: "vlasnik", Title: "Zimska jakna", Status: status}
	require.NoError(t, f.ads.Create(context.Background(), ad))
	return ad
}

func TestContactAdOwnerFirstContact(t *testing.T) {
	f := newContactFixture(t)
	f.seedAd(t, models.AdActive)

	convID, err := f.svc.ContactAdOwner(context.Background(), "trazilac", "ad-1", "Da li je jakna još dostupna?")
	require.NoError(t, err)
	assert.NotEmpty(t, convID)

	join, err := f.joins.GetAdRequest(context.Background(), "ad-1", "trazilac")
	require.NoError(t, err)
	assert.Equal(t, convID, join.ConversationID)

	require.Len(t, f.msgs.messages, 1)
	assert.Equal(t, "Da li je jakna još dostupna?", f.msgs.messages[0].Content)
	assert.Equal(t, "trazilac", f.msgs.messages[0].SenderID)
}

func TestContactAdOwnerRepeatReusesConversation(t *testing.T) {
	f := newContactFixture(t)
	f.seedAd(t, models.AdActive)

	first, err := f.svc.ContactAdOwner(context.Background(), "trazilac", "ad-1", "prva poruka")
	require.NoError(t, err)
	second, err := f.svc.ContactAdOwner(context.Background(), "trazilac", "ad-1", "druga poruka")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.joins.adRequests, 1)
	assert.Len(t, f.convs.conversations, 1)
	assert.Len(t, f.msgs.messages, 2)
}

func TestContactAdOwnerWithoutMessageOpensSilently(t *testing.T) {
	f := newContactFixture(t)
	f.seedAd(t, models.AdActive)

	convID, err := f.svc.ContactAdOwner(context.Background(), "trazilac", "ad-1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, convID)
	assert.Empty(t, f.msgs.messages)
}

func TestContactAdOwnerRejectsOwnAd(t *testing.T) {
	f := newContactFixture(t)
	f.seedAd(t, models.AdActive)

	_, err := f.svc.ContactAdOwner(context.Background(), "vlasnik", "ad-1", "zdravo")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestContactAdOwnerRejectsInactiveAd(t *testing.T) {
	f := newContactFixture(t)
	f.seedAd(t, models.AdInactive)

	_, err := f.svc.ContactAdOwner(context.Background(), "trazilac", "ad-1", "zdravo")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestContactAdOwnerUnknownAd(t *testing.T) {
	f := newContactFixture(t)
	_, err := f.svc.ContactAdOwner(context.Background(), "trazilac", "nema", "zdravo")
	assert.ErrorIs(t, err, ErrNotFound)
}

func seedDonationRequest(f *contactFixture, status models.RequestStatus) {
	f.joins.donations["req-1"] = &models.DonationRequest{
		ID:          "req-1",
		RequesterID: "porodica",
		Title:       "Potrebna zimska garderoba",
		Status:      status,
	}
}

func TestContactFamilyDefaultsGreeting(t *testing.T) {
	f := newContactFixture(t)
	seedDonationRequest(f, models.RequestActive)

	convID, err := f.svc.ContactFamily(context.Background(), "pomagac", "req-1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, convID)

	require.Len(t, f.msgs.messages, 1)
	assert.Equal(t, "Zdravo! Želim da pomognem.", f.msgs.messages[0].Content)

	contact, err := f.joins.GetFamilyContact(context.Background(), "req-1", "pomagac")
	require.NoError(t, err)
	assert.Equal(t, convID, contact.ConversationID)
	assert.Equal(t, "porodica", contact.RequesterID)
}

func TestContactFamilyRepeatSkipsNewMessage(t *testing.T) {
	f := newContactFixture(t)
	seedDonationRequest(f, models.RequestActive)

	first, err := f.svc.ContactFamily(context.Background(), "pomagac", "req-1", "")
	require.NoError(t, err)
	second, err := f.svc.ContactFamily(context.Background(), "pomagac", "req-1", "opet ja")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.msgs.messages, 1)
	assert.Len(t, f.joins.familyContacts, 1)
}

func TestContactFamilyRejectsOwnRequest(t *testing.T) {
	f := newContactFixture(t)
	seedDonationRequest(f, models.RequestActive)

	_, err := f.svc.ContactFamily(context.Background(), "porodica", "req-1", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestContactFamilyRejectsRemovedRequest(t *testing.T) {
	f := newContactFixture(t)
	seedDonationRequest(f, models.RequestRemoved)

	_, err := f.svc.ContactFamily(context.Background(), "pomagac", "req-1", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
