package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
	"github.com/lazarnikolic5396/Razmenime/internal/repository"
)

// CatalogStore serves the lookup collections behind the catalog endpoints.
type CatalogStore interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetLocation(ctx context.Context, id string) (*models.Location, error)
	GetLocations(ctx context.Context, ids []string) ([]*models.Location, error)
}

// CatalogAdStore is the slice of the ad store the catalog needs for the
// map view.
type CatalogAdStore interface {
	List(ctx context.Context, f repository.AdFilter) ([]*models.Ad, error)
}

type CatalogService struct {
	catalog CatalogStore
	ads     CatalogAdStore
}

func NewCatalogService(catalog CatalogStore, ads CatalogAdStore) *CatalogService {
	return &CatalogService{catalog: catalog, ads: ads}
}

func (s *CatalogService) Categories(ctx context.Context) ([]*models.Category, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *CatalogService) Location(ctx context.Context, id string) (*models.Location, error) {
	loc, err := s.catalog.GetLocation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: location", ErrNotFound)
		}
		return nil, err
	}
	return loc, nil
}

// ActiveAdLocations returns the distinct locations of currently active
// ads, feeding the map view on the landing page.
func (s *CatalogService) ActiveAdLocations(ctx context.Context) ([]*models.Location, error) {
	ads, err := s.ads.List(ctx, repository.AdFilter{Status: models.AdActive})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(ads))
	ids := make([]string, 0, len(ads))
	for _, ad := range ads {
		if ad.LocationID != "" && !seen[ad.LocationID] {
			seen[ad.LocationID] = true
			ids = append(ids, ad.LocationID)
		}
	}
	if len(ids) == 0 {
		return []*models.Location{}, nil
	}
	return s.catalog.GetLocations(ctx, ids)
}
