package repository

import (
	"context"

	"bento-backend/internal/domain"
)

// GuestCartRepository and UserCartRepository are the two parallel cart
// tables. Upsert must be a single conditional statement (insert or
// increment) so concurrent adds cannot produce duplicate (owner, menu) rows.

type GuestCartRepository interface {
	Items(ctx context.Context, token string) ([]domain.GuestCartItem, error)
	// FindItem returns (nil, nil) when the row does not exist.
	FindItem(ctx context.Context, id uint64) (*domain.GuestCartItem, error)
	Upsert(ctx context.Context, token string, menuID uint64, qty int) error
	UpdateQuantity(ctx context.Context, id uint64, qty int) error
	DeleteItem(ctx context.Context, id uint64) error
	Clear(ctx context.Context, token string) error
}

type UserCartRepository interface {
	Items(ctx context.Context, userID uint64) ([]domain.UserCartItem, error)
	FindItem(ctx context.Context, id uint64) (*domain.UserCartItem, error)
	Upsert(ctx context.Context, userID, menuID uint64, qty int) error
	// Insert and IncrementQuantity are the two migration legs; the caller
	// decides which applies after loading the user cart.
	Insert(ctx context.Context, item *domain.UserCartItem) error
	IncrementQuantity(ctx context.Context, id uint64, delta int) error
	UpdateQuantity(ctx context.Context, id uint64, qty int) error
	DeleteItem(ctx context.Context, id uint64) error
	Clear(ctx context.Context, userID uint64) error
}
