package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bento-backend/internal/domain"
	"bento-backend/internal/repository"
)

type MockTxManager struct {
	mock.Mock
}

// Do runs fn with the same ctx; tests observe the calls made inside the
// transaction through the other mocks.
func (m *MockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.GuestSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) FindByToken(ctx context.Context, token string) (*domain.GuestSession, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuestSession), args.Error(1)
}

func (m *MockSessionRepository) Touch(ctx context.Context, token string, at time.Time) error {
	args := m.Called(ctx, token, at)
	return args.Error(0)
}

func (m *MockSessionRepository) SetSelectedStore(ctx context.Context, token string, storeID uint64, at time.Time) error {
	args := m.Called(ctx, token, storeID, at)
	return args.Error(0)
}

func (m *MockSessionRepository) MarkConverted(ctx context.Context, token string, userID uint64, at time.Time) error {
	args := m.Called(ctx, token, userID, at)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type MockGuestCartRepository struct {
	mock.Mock
}

func (m *MockGuestCartRepository) Items(ctx context.Context, token string) ([]domain.GuestCartItem, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuestCartItem), args.Error(1)
}

func (m *MockGuestCartRepository) FindItem(ctx context.Context, id uint64) (*domain.GuestCartItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuestCartItem), args.Error(1)
}

func (m *MockGuestCartRepository) Upsert(ctx context.Context, token string, menuID uint64, qty int) error {
	args := m.Called(ctx, token, menuID, qty)
	return args.Error(0)
}

func (m *MockGuestCartRepository) UpdateQuantity(ctx context.Context, id uint64, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockGuestCartRepository) DeleteItem(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGuestCartRepository) Clear(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type MockUserCartRepository struct {
	mock.Mock
}

func (m *MockUserCartRepository) Items(ctx context.Context, userID uint64) ([]domain.UserCartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserCartItem), args.Error(1)
}

func (m *MockUserCartRepository) FindItem(ctx context.Context, id uint64) (*domain.UserCartItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCartItem), args.Error(1)
}

func (m *MockUserCartRepository) Upsert(ctx context.Context, userID, menuID uint64, qty int) error {
	args := m.Called(ctx, userID, menuID, qty)
	return args.Error(0)
}

func (m *MockUserCartRepository) Insert(ctx context.Context, item *domain.UserCartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockUserCartRepository) IncrementQuantity(ctx context.Context, id uint64, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockUserCartRepository) UpdateQuantity(ctx context.Context, id uint64, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockUserCartRepository) DeleteItem(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserCartRepository) Clear(ctx context.Context, userID uint64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindForStore(ctx context.Context, id, storeID uint64) (*domain.Order, error) {
	args := m.Called(ctx, id, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uint64, filter repository.OrderListFilter) ([]domain.Order, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByStore(ctx context.Context, storeID uint64, filter repository.OrderListFilter) ([]domain.Order, int64, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) Between(ctx context.Context, storeID *uint64, from, to time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, storeID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FindMenu(ctx context.Context, id uint64) (*domain.Menu, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Menu), args.Error(1)
}

func (m *MockCatalogRepository) FindMenus(ctx context.Context, ids []uint64) ([]domain.Menu, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Menu), args.Error(1)
}

func (m *MockCatalogRepository) AvailableMenus(ctx context.Context, storeID uint64) ([]domain.Menu, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Menu), args.Error(1)
}

func (m *MockCatalogRepository) FindActiveStore(ctx context.Context, id uint64) (*domain.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}
