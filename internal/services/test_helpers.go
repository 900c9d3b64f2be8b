package services

import (
	"time"

	"bento-backend/internal/domain"
)

func CreateMockMenu(id, storeID uint64, name string, price int64, available bool) *domain.Menu {
	return &domain.Menu{
		ID:          id,
		StoreID:     storeID,
		Name:        name,
		Price:       price,
		IsAvailable: available,
	}
}

func CreateMockSession(token string, storeID *uint64, expiresAt time.Time) *domain.GuestSession {
	return &domain.GuestSession{
		Token:           token,
		SelectedStoreID: storeID,
		CreatedAt:       time.Now(),
		ExpiresAt:       expiresAt,
		LastAccessedAt:  time.Now(),
	}
}

func CreateMockOrder(id, userID, menuID, storeID uint64, qty int, totalPrice int64, status domain.OrderStatus, orderedAt time.Time) domain.Order {
	return domain.Order{
		ID:         id,
		UserID:     userID,
		MenuID:     menuID,
		StoreID:    storeID,
		Quantity:   qty,
		TotalPrice: totalPrice,
		Status:     status,
		OrderedAt:  orderedAt,
	}
}

const (
	TestSessionToken = "f3a9c1d24be08f6712045a9cbd3e8f70f3a9c1d24be08f6712045a9cbd3e8f70"
	TestUserID       = uint64(42)
	TestStoreID      = uint64(1)
	TestMenuID       = uint64(7)
	TestMenuPrice    = int64(800)
)

func storeIDPtr(id uint64) *uint64 {
	return &id
}
