package domain

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// statusTransitions is the full transition table. Anything not listed,
// including same-state updates, is rejected.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(s))
	if _, ok := statusTransitions[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

func (s OrderStatus) AllowedTransitions() []OrderStatus {
	return statusTransitions[s]
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InvalidTransitionError reports a status change outside the transition table.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	allowed := e.From.AllowedTransitions()
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return fmt.Sprintf("invalid status transition from '%s' to '%s', allowed: [%s]",
		e.From, e.To, strings.Join(names, ", "))
}

type Order struct {
	ID           uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       uint64      `json:"user_id" gorm:"not null;index"`
	MenuID       uint64      `json:"menu_id" gorm:"not null;index"`
	StoreID      uint64      `json:"store_id" gorm:"not null;index"`
	Quantity     int         `json:"quantity" gorm:"not null"`
	TotalPrice   int64       `json:"total_price" gorm:"not null"`
	Status       OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	DeliveryTime *string     `json:"delivery_time,omitempty" gorm:"type:varchar(5)"`
	Notes        string      `json:"notes,omitempty" gorm:"type:text"`
	OrderedAt    time.Time   `json:"ordered_at" gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"autoUpdateTime"`

	Menu *Menu `json:"menu,omitempty" gorm:"foreignKey:MenuID"`
}
