package domain

import "time"

const (
	// SessionTokenLength is the length of the opaque guest session token.
	SessionTokenLength = 64
	// SessionTTL is how long a guest session stays valid after creation.
	SessionTTL = 24 * time.Hour
)

// GuestSession tracks a browsing guest before authentication. Once
// ConvertedToUserID is set the session is terminal: the cart has been
// folded into the user cart and no further mutation is allowed.
type GuestSession struct {
	ID                uint64    `json:"-" gorm:"primaryKey;autoIncrement"`
	Token             string    `json:"session_id" gorm:"column:session_id;size:64;uniqueIndex;not null"`
	SelectedStoreID   *uint64   `json:"selected_store_id,omitempty"`
	ConvertedToUserID *uint64   `json:"-" gorm:"column:converted_to_user_id"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt         time.Time `json:"expires_at" gorm:"not null;index"`
	LastAccessedAt    time.Time `json:"last_accessed_at"`
}

func (s *GuestSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *GuestSession) Converted() bool {
	return s.ConvertedToUserID != nil
}

// GuestCartItem and UserCartItem are parallel tables: a multiset of
// (owner, menu, quantity). The composite unique index keeps at most one
// row per (owner, menu); repeat adds increment the quantity instead.
type GuestCartItem struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionToken string    `json:"-" gorm:"column:session_id;size:64;not null;index;uniqueIndex:idx_guest_cart_session_menu"`
	MenuID       uint64    `json:"menu_id" gorm:"not null;uniqueIndex:idx_guest_cart_session_menu"`
	Quantity     int       `json:"quantity" gorm:"not null;default:1"`
	AddedAt      time.Time `json:"added_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type UserCartItem struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_cart_user_menu"`
	MenuID    uint64    `json:"menu_id" gorm:"not null;uniqueIndex:idx_user_cart_user_menu"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// CartLine is a cart row joined with its menu snapshot.
type CartLine struct {
	ID        uint64 `json:"id"`
	MenuID    uint64 `json:"menu_id"`
	MenuName  string `json:"menu_name"`
	MenuPrice int64  `json:"menu_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// CartSnapshot is what every cart read or mutation returns.
type CartSnapshot struct {
	Items       []CartLine `json:"items"`
	TotalItems  int        `json:"total_items"`
	TotalAmount int64      `json:"total_amount"`
}

// MigrationResult summarizes one guest-to-user cart migration.
// Migrated counts rows created in the user cart, Merged counts rows whose
// quantity was added onto an existing user row.
type MigrationResult struct {
	MigratedItems int `json:"migrated_items"`
	MergedItems   int `json:"merged_items"`
	TotalQuantity int `json:"total_quantity"`
}
