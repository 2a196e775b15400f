package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
	"github.com/lazarnikolic5396/Razmenime/internal/repository"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

type fakeProfiles struct {
	profiles      map[string]*models.Profile
	organizations []*models.Organization
	families      map[string]*models.Family
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		profiles: map[string]*models.Profile{},
		families: map[string]*models.Family{},
	}
}

func (f *fakeProfiles) Create(_ context.Context, p *models.Profile) error {
	for _, existing := range f.profiles {
		if p.Username != "" && existing.Username == p.Username {
			return repository.ErrDuplicate
		}
		if p.Email != "" && existing.Email == p.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) GetByUsername(_ context.Context, username string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfiles) ListAll(_ context.Context) ([]*models.Profile, error) {
	out := make([]*models.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProfiles) Update(_ context.Context, id string, fields bson.M) error {
	p, ok := f.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := fields["full_name"].(string); ok {
		p.FullName = v
	}
	if v, ok := fields["phone"].(string); ok {
		p.Phone = v
	}
	if v, ok := fields["avatar_url"].(string); ok {
		p.AvatarURL = v
	}
	if v, ok := fields["location_id"].(string); ok {
		p.LocationID = v
	}
	return nil
}

func (f *fakeProfiles) SetActive(_ context.Context, id string, active bool) error {
	p, ok := f.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = active
	return nil
}

func (f *fakeProfiles) Delete(_ context.Context, id string) error {
	if _, ok := f.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.profiles, id)
	delete(f.families, id)
	return nil
}

func (f *fakeProfiles) CreateOrganization(_ context.Context, o *models.Organization) error {
	f.organizations = append(f.organizations, o)
	return nil
}

func (f *fakeProfiles) CreateFamily(_ context.Context, fam *models.Family) error {
	f.families[fam.ProfileID] = fam
	return nil
}

func (f *fakeProfiles) GetFamily(_ context.Context, profileID string) (*models.Family, error) {
	fam, ok := f.families[profileID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return fam, nil
}

func (f *fakeProfiles) UpdateFamily(_ context.Context, profileID string, fields bson.M) error {
	fam, ok := f.families[profileID]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := fields["description"].(string); ok {
		fam.Description = v
	}
	return nil
}

type fakeLocations struct {
	locations  map[string]*models.Location
	categories []*models.Category
	nextID     int
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{locations: map[string]*models.Location{}}
}

func (f *fakeLocations) GetOrCreateLocation(_ context.Context, loc *models.Location) (*models.Location, error) {
	for _, existing := range f.locations {
		if existing.City == loc.City && existing.Address == loc.Address && existing.Country == loc.Country {
			return existing, nil
		}
	}
	f.nextID++
	loc.ID = fmt.Sprintf("loc-%d", f.nextID)
	f.locations[loc.ID] = loc
	return loc, nil
}

func (f *fakeLocations) GetLocation(_ context.Context, id string) (*models.Location, error) {
	loc, ok := f.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return loc, nil
}

func (f *fakeLocations) GetLocations(_ context.Context, ids []string) ([]*models.Location, error) {
	out := []*models.Location{}
	for _, id := range ids {
		if loc, ok := f.locations[id]; ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (f *fakeLocations) ListCategories(_ context.Context) ([]*models.Category, error) {
	return f.categories, nil
}

type fakeAds struct {
	ads map[string]*models.Ad
}

func newFakeAds() *fakeAds {
	return &fakeAds{ads: map[string]*models.Ad{}}
}

func (f *fakeAds) Create(_ context.Context, ad *models.Ad) error {
	cp := *ad
	f.ads[ad.ID] = &cp
	return nil
}

func (f *fakeAds) GetByID(_ context.Context, id string) (*models.Ad, error) {
	ad, ok := f.ads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *ad
	return &cp, nil
}

func (f *fakeAds) List(_ context.Context, filter repository.AdFilter) ([]*models.Ad, error) {
	var out []*models.Ad
	for _, ad := range f.ads {
		if filter.Status != "" && ad.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && ad.UserID != filter.UserID {
			continue
		}
		if filter.CategoryID != "" && ad.CategoryID != filter.CategoryID {
			continue
		}
		cp := *ad
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeAds) Update(_ context.Context, id string, fields bson.M) error {
	ad, ok := f.ads[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := fields["title"].(string); ok {
		ad.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		ad.Description = v
	}
	return nil
}

func (f *fakeAds) SetStatus(_ context.Context, id string, status models.AdStatus, reason string) error {
	ad, ok := f.ads[id]
	if !ok {
		return repository.ErrNotFound
	}
	ad.Status = status
	ad.RemovedReason = reason
	return nil
}

func (f *fakeAds) RemoveAllByOwner(_ context.Context, userID, reason string) (int64, error) {
	var n int64
	for _, ad := range f.ads {
		if ad.UserID == userID && ad.Status != models.AdRemovedByAdmin {
			ad.Status = models.AdRemovedByAdmin
			ad.RemovedReason = reason
			n++
		}
	}
	return n, nil
}

func (f *fakeAds) IncrementViews(_ context.Context, id string) error {
	if ad, ok := f.ads[id]; ok {
		ad.ViewCount++
	}
	return nil
}

func (f *fakeAds) Delete(_ context.Context, id string) error {
	if _, ok := f.ads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.ads, id)
	return nil
}

func (f *fakeAds) DeleteAllByOwner(_ context.Context, userID string) error {
	for id, ad := range f.ads {
		if ad.UserID == userID {
			delete(f.ads, id)
		}
	}
	return nil
}

type fakeConversations struct {
	conversations map[string]*models.Conversation
	nextID        int
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{conversations: map[string]*models.Conversation{}}
}

func (f *fakeConversations) FindOrCreate(_ context.Context, a, b string) (*models.Conversation, error) {
	p1, p2 := models.NormalizePair(a, b)
	for _, c := range f.conversations {
		if c.Participant1 == p1 && c.Participant2 == p2 {
			return c, nil
		}
	}
	f.nextID++
	conv := &models.Conversation{
		ID:           fmt.Sprintf("conv-%d", f.nextID),
		Participant1: p1,
		Participant2: p2,
		CreatedAt:    time.Now().UTC(),
	}
	f.conversations[conv.ID] = conv
	return conv, nil
}

func (f *fakeConversations) GetByID(_ context.Context, id string) (*models.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeConversations) ListForUser(_ context.Context, userID string) ([]*models.Conversation, error) {
	var out []*models.Conversation
	for _, c := range f.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConversations) TouchLastMessage(_ context.Context, id string, at time.Time) error {
	c, ok := f.conversations[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.LastMessageAt = at
	return nil
}

type fakeMessages struct {
	messages []*models.Message
}

func (f *fakeMessages) Insert(_ context.Context, m *models.Message) error {
	cp := *m
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeMessages) List(_ context.Context, conversationID string, after time.Time) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if m.ConversationID != conversationID {
			continue
		}
		if !after.IsZero() && !m.CreatedAt.After(after) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMessages) Last(_ context.Context, conversationID string) (*models.Message, error) {
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].ConversationID == conversationID {
			return f.messages[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMessages) CountUnread(_ context.Context, conversationID, viewerID string) (int64, error) {
	var n int64
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.SenderID != viewerID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, conversationID, viewerID string) error {
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.SenderID != viewerID {
			m.IsRead = true
		}
	}
	return nil
}

type fakeJoins struct {
	adRequests     []*models.AdRequest
	familyContacts []*models.FamilyRequestContact
	donations      map[string]*models.DonationRequest
}

func newFakeJoins() *fakeJoins {
	return &fakeJoins{donations: map[string]*models.DonationRequest{}}
}

func (f *fakeJoins) GetAdRequest(_ context.Context, adID, requesterID string) (*models.AdRequest, error) {
	for _, r := range f.adRequests {
		if r.AdID == adID && r.RequesterID == requesterID {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeJoins) CreateAdRequest(_ context.Context, req *models.AdRequest) error {
	for _, r := range f.adRequests {
		if r.AdID == req.AdID && r.RequesterID == req.RequesterID {
			return repository.ErrDuplicate
		}
	}
	f.adRequests = append(f.adRequests, req)
	return nil
}

func (f *fakeJoins) ListAdRequestsByRequester(_ context.Context, requesterID string) ([]*models.AdRequest, error) {
	var out []*models.AdRequest
	for _, r := range f.adRequests {
		if r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeJoins) ListAdRequestsForAds(_ context.Context, adIDs []string) ([]*models.AdRequest, error) {
	ids := map[string]bool{}
	for _, id := range adIDs {
		ids[id] = true
	}
	var out []*models.AdRequest
	for _, r := range f.adRequests {
		if ids[r.AdID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeJoins) GetFamilyContact(_ context.Context, requestID, helperID string) (*models.FamilyRequestContact, error) {
	for _, c := range f.familyContacts {
		if c.RequestID == requestID && c.HelperID == helperID {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeJoins) CreateFamilyContact(_ context.Context, c *models.FamilyRequestContact) error {
	for _, existing := range f.familyContacts {
		if existing.RequestID == c.RequestID && existing.HelperID == c.HelperID {
			return repository.ErrDuplicate
		}
	}
	f.familyContacts = append(f.familyContacts, c)
	return nil
}

func (f *fakeJoins) ListFamilyContactsByHelper(_ context.Context, helperID string) ([]*models.FamilyRequestContact, error) {
	var out []*models.FamilyRequestContact
	for _, c := range f.familyContacts {
		if c.HelperID == helperID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeJoins) GetDonationRequest(_ context.Context, id string) (*models.DonationRequest, error) {
	d, ok := f.donations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeJoins) CreateDonationRequest(_ context.Context, d *models.DonationRequest) error {
	f.donations[d.ID] = d
	return nil
}

func (f *fakeJoins) ListDonationRequests(_ context.Context, status models.RequestStatus, requesterID string) ([]*models.DonationRequest, error) {
	var out []*models.DonationRequest
	for _, d := range f.donations {
		if status != "" && d.Status != status {
			continue
		}
		if requesterID != "" && d.RequesterID != requesterID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeJoins) SetDonationRequestStatus(_ context.Context, id string, status models.RequestStatus) error {
	d, ok := f.donations[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.Status = status
	return nil
}
