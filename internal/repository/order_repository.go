package repository

import (
	"context"
	"time"

	"bento-backend/internal/domain"
)

// OrderListFilter narrows staff/customer order listings.
type OrderListFilter struct {
	Statuses []domain.OrderStatus
	Sort     string // newest, oldest, price_high, price_low
	Limit    int
	Offset   int
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	// FindByID returns (nil, nil) when the order does not exist.
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	// FindForStore scopes the lookup to one tenant; orders of other stores
	// are indistinguishable from missing ones.
	FindForStore(ctx context.Context, id, storeID uint64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uint64, filter OrderListFilter) ([]domain.Order, int64, error)
	ListByStore(ctx context.Context, storeID uint64, filter OrderListFilter) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error
	// Between returns all orders with from <= ordered_at < to. A nil storeID
	// means the cross-tenant owner scope; otherwise rows are filtered by
	// store in the query itself.
	Between(ctx context.Context, storeID *uint64, from, to time.Time) ([]domain.Order, error)
}
