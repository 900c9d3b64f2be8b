package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"bento-backend/internal/domain"
	"bento-backend/internal/repository"
)

const menuCacheTTL = time.Minute

// menuCache fronts catalog menu lookups with a short-lived Redis cache.
// The client is optional; without one every lookup goes to the database.
type menuCache struct {
	catalog repository.CatalogRepository
	rdb     *redis.Client
}

func (c *menuCache) Get(ctx context.Context, menuID uint64) (*domain.Menu, error) {
	cacheKey := fmt.Sprintf("menu:%d", menuID)

	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var menu domain.Menu
			if err := json.Unmarshal([]byte(cached), &menu); err == nil {
				return &menu, nil
			}
		}
	}

	menu, err := c.catalog.FindMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil && menu != nil {
		if data, err := json.Marshal(menu); err == nil {
			c.rdb.Set(ctx, cacheKey, data, menuCacheTTL)
		}
	}

	return menu, nil
}
