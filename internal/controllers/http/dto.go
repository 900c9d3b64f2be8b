package http

type SelectStoreRequest struct {
	StoreID uint64 `json:"store_id" binding:"required"`
}

type CartItemRequest struct {
	MenuID   uint64 `json:"menu_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	MenuID       uint64  `json:"menu_id" binding:"required"`
	Quantity     int     `json:"quantity" binding:"required,min=1"`
	DeliveryTime *string `json:"delivery_time,omitempty"`
	Notes        string  `json:"notes,omitempty" binding:"max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
