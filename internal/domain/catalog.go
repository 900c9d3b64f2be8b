package domain

import "time"

// Store is the tenant boundary. Every menu and order carries a store
// reference; staff users carry at most one.
type Store struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Address   string    `json:"address" gorm:"size:255"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Menu struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	StoreID     uint64    `json:"store_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Price       int64     `json:"price" gorm:"not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string    `json:"image_url,omitempty" gorm:"size:512"`
	IsAvailable bool      `json:"is_available" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
	// RoleOwner sees data across all stores.
	RoleOwner Role = "owner"
)

type User struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"size:255;uniqueIndex;not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null"`
	StoreID   *uint64   `json:"store_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}
