package repository

import (
	"context"

	"bento-backend/internal/domain"
)

// CatalogRepository is the read-only store/menu lookup surface the cart and
// order paths validate against. Menu management itself lives elsewhere.
type CatalogRepository interface {
	// FindMenu returns (nil, nil) when the menu does not exist.
	FindMenu(ctx context.Context, id uint64) (*domain.Menu, error)
	FindMenus(ctx context.Context, ids []uint64) ([]domain.Menu, error)
	AvailableMenus(ctx context.Context, storeID uint64) ([]domain.Menu, error)
	// FindActiveStore returns (nil, nil) when the store is missing or inactive.
	FindActiveStore(ctx context.Context, id uint64) (*domain.Store, error)
}
