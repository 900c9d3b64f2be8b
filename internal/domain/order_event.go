package domain

import "time"

type OrderCreatedEvent struct {
	OrderID    uint64    `json:"order_id"`
	StoreID    uint64    `json:"store_id"`
	UserID     uint64    `json:"user_id"`
	MenuID     uint64    `json:"menu_id"`
	Quantity   int       `json:"quantity"`
	TotalPrice int64     `json:"total_price"`
	OrderedAt  time.Time `json:"ordered_at"`
}

type OrderStatusChangedEvent struct {
	OrderID   uint64      `json:"order_id"`
	StoreID   uint64      `json:"store_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ChangedAt time.Time   `json:"changed_at"`
}
