package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
)

func newCatalogFixture(t *testing.T) (*CatalogService, *fakeLocations, *fakeAds) {
	t.Helper()
	locs := newFakeLocations()
	ads := newFakeAds()
	return NewCatalogService(locs, ads), locs, ads
}

func TestCategoriesListsAll(t *testing.T) {
	svc, locs, _ := newCatalogFixture(t)
	locs.categories = []*models.Category{
		{ID: "c1", Name: "Nameštaj", Slug: "namestaj"},
		{ID: "c2", Name: "Odeća", Slug: "odeca"},
	}

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestLocationUnknownIsNotFound(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)
	_, err := svc.Location(context.Background(), "nema")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActiveAdLocationsDeduplicates(t *testing.T) {
	svc, locs, ads := newCatalogFixture(t)
	bg, _ := locs.GetOrCreateLocation(context.Background(), &models.Location{City: "Beograd", Country: "Srbija"})
	ns, _ := locs.GetOrCreateLocation(context.Background(), &models.Location{City: "Novi Sad", Country: "Srbija"})

	require.NoError(t, ads.Create(context.Background(), &models.Ad{ID: "a1", LocationID: bg.ID, Status: models.AdActive}))
	require.NoError(t, ads.Create(context.Background(), &models.Ad{ID: "a2", LocationID: bg.ID, Status: models.AdActive}))
	require.NoError(t, ads.Create(context.Background(), &models.Ad{ID: "a3", LocationID: ns.ID, Status: models.AdInactive}))

	out, err := svc.ActiveAdLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Beograd", out[0].City)
}

func TestActiveAdLocationsEmptyBoard(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)
	out, err := svc.ActiveAdLocations(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
