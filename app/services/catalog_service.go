package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aurelia-jewels/storefront/app/models/other"
)

// CatalogService exposes the product catalog and per-account favorites.
// Catalog reads are anonymous; favorites require the principal token.
type CatalogService struct {
	api BackendClient
}

func NewCatalogService(api BackendClient) *CatalogService {
	return &CatalogService{api: api}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]other.ProductListEntry, error) {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []other.ProductListEntry{}
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*other.ProductDetail, error) {
	product, err := s.api.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	return product, nil
}

func (s *CatalogService) ListFavorites(ctx context.Context, token string) ([]other.ProductListEntry, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	favorites, err := s.api.ListFavorites(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if favorites == nil {
		favorites = []other.ProductListEntry{}
	}
	return favorites, nil
}

func (s *CatalogService) AddFavorite(ctx context.Context, token, productID string) error {
	if token == "" {
		return ErrAuthRequired
	}
	if err := s.api.AddFavorite(ctx, token, productID); err != nil {
		log.Printf("CatalogService.AddFavorite: failed for product %s: %v", productID, err)
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *CatalogService) RemoveFavorite(ctx context.Context, token, productID string) error {
	if token == "" {
		return ErrAuthRequired
	}
	if err := s.api.RemoveFavorite(ctx, token, productID); err != nil {
		log.Printf("CatalogService.RemoveFavorite: failed for product %s: %v", productID, err)
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
