package services

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"bento-backend/internal/domain"
	"bento-backend/internal/infra/rabbitmq"
	"bento-backend/internal/repository"
)

type OrderService struct {
	orders    repository.OrderRepository
	userCarts repository.UserCartRepository
	catalog   repository.CatalogRepository
	publisher rabbitmq.PublisherInterface
	txm       repository.TxManager
	menus     *menuCache
}

func NewOrderService(
	orders repository.OrderRepository,
	userCarts repository.UserCartRepository,
	catalog repository.CatalogRepository,
	publisher rabbitmq.PublisherInterface,
	txm repository.TxManager,
) *OrderService {
	return &OrderService{
		orders:    orders,
		userCarts: userCarts,
		catalog:   catalog,
		publisher: publisher,
		txm:       txm,
		menus:     &menuCache{catalog: catalog},
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.menus.rdb = client
}

// CreateOrder places an order for the current menu price. The total is
// frozen at creation time; later menu price changes do not touch it. On
// success the user's whole cart is flushed in the same transaction.
func (s *OrderService) CreateOrder(ctx context.Context, userID, menuID uint64, qty int, deliveryTime *string, notes string) (*domain.Order, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	menu, err := s.menus.Get(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, ErrMenuNotFound
	}
	if !menu.IsAvailable {
		return nil, ErrMenuUnavailable
	}

	order := &domain.Order{
		UserID:       userID,
		MenuID:       menuID,
		StoreID:      menu.StoreID,
		Quantity:     qty,
		TotalPrice:   menu.Price * int64(qty),
		Status:       domain.StatusPending,
		DeliveryTime: deliveryTime,
		Notes:        notes,
		OrderedAt:    time.Now(),
	}

	err = s.txm.Do(ctx, func(ctx context.Context) error {
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}
		return s.userCarts.Clear(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	order.Menu = menu
	go s.publishOrderCreated(context.Background(), order)

	return order, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:    order.ID,
		StoreID:    order.StoreID,
		UserID:     order.UserID,
		MenuID:     order.MenuID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		OrderedAt:  order.OrderedAt,
	}
	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("publish order.created for order %d: %v", order.ID, err)
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, order *domain.Order, from domain.OrderStatus) {
	evt := domain.OrderStatusChangedEvent{
		OrderID:   order.ID,
		StoreID:   order.StoreID,
		From:      from,
		To:        order.Status,
		ChangedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, "order.status_changed", evt); err != nil {
		log.Printf("publish order.status_changed for order %d: %v", order.ID, err)
	}
}

// GetOrder returns one of the user's own orders. Other users' orders are
// indistinguishable from missing ones.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint64, filter repository.OrderListFilter) ([]domain.Order, int64, error) {
	return s.orders.ListByUser(ctx, userID, filter)
}

// CancelOrder is the customer-facing cancellation: only pending orders may
// be cancelled, the same rule the generic state machine enforces.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint64) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, domain.StatusCancelled)
}

// UpdateStatus applies a staff-side status transition. Non-owner staff only
// reach orders of their own store; the store filter is part of the lookup.
func (s *OrderService) UpdateStatus(ctx context.Context, staff *domain.User, orderID uint64, next domain.OrderStatus) (*domain.Order, error) {
	var order *domain.Order
	var err error
	if staff.IsOwner() {
		order, err = s.orders.FindByID(ctx, orderID)
	} else {
		if staff.StoreID == nil {
			return nil, ErrNoStore
		}
		order, err = s.orders.FindForStore(ctx, orderID, *staff.StoreID)
	}
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.transition(ctx, order, next)
}

func (s *OrderService) transition(ctx context.Context, order *domain.Order, next domain.OrderStatus) (*domain.Order, error) {
	if !order.Status.CanTransitionTo(next) {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: next}
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, next); err != nil {
		return nil, err
	}

	from := order.Status
	order.Status = next
	order.UpdatedAt = time.Now()
	go s.publishStatusChanged(context.Background(), order, from)

	return order, nil
}

// ListStoreOrders lists orders for staff, always scoped to the caller's store.
func (s *OrderService) ListStoreOrders(ctx context.Context, staff *domain.User, filter repository.OrderListFilter) ([]domain.Order, int64, error) {
	if staff.StoreID == nil {
		return nil, 0, ErrNoStore
	}
	return s.orders.ListByStore(ctx, *staff.StoreID, filter)
}
