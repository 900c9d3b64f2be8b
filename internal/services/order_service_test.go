package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bento-backend/internal/domain"
	"bento-backend/internal/mocks"
	"bento-backend/internal/repository"
)

func newOrderFixture() (*OrderService, *mocks.MockOrderRepository, *mocks.MockUserCartRepository, *mocks.MockCatalogRepository, *mocks.MockPublisher, *mocks.MockTxManager) {
	orders := new(mocks.MockOrderRepository)
	userCarts := new(mocks.MockUserCartRepository)
	catalog := new(mocks.MockCatalogRepository)
	publisher := new(mocks.MockPublisher)
	txm := new(mocks.MockTxManager)
	svc := NewOrderService(orders, userCarts, catalog, publisher, txm)
	return svc, orders, userCarts, catalog, publisher, txm
}

func TestOrderService_CreateOrder(t *testing.T) {
	tests := []struct {
		name          string
		quantity      int
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockUserCartRepository, *mocks.MockCatalogRepository, *mocks.MockPublisher, *mocks.MockTxManager)
		expectedError error
	}{
		{
			name:     "freezes the total at the current menu price and flushes the cart",
			quantity: 2,
			setupMocks: func(orders *mocks.MockOrderRepository, userCarts *mocks.MockUserCartRepository, catalog *mocks.MockCatalogRepository, publisher *mocks.MockPublisher, txm *mocks.MockTxManager) {
				menu := CreateMockMenu(TestMenuID, TestStoreID, "Karaage Bento", TestMenuPrice, true)
				catalog.On("FindMenu", mock.Anything, TestMenuID).Return(menu, nil)
				txm.On("Do", mock.Anything, mock.Anything).Return(nil)
				orders.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
					return o.UserID == TestUserID &&
						o.StoreID == TestStoreID &&
						o.TotalPrice == 1600 &&
						o.Status == domain.StatusPending
				})).Return(nil)
				userCarts.On("Clear", mock.Anything, TestUserID).Return(nil)
				publisher.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()
			},
		},
		{
			name:     "rejects a non-positive quantity",
			quantity: 0,
			setupMocks: func(orders *mocks.MockOrderRepository, userCarts *mocks.MockUserCartRepository, catalog *mocks.MockCatalogRepository, publisher *mocks.MockPublisher, txm *mocks.MockTxManager) {
			},
			expectedError: ErrInvalidQuantity,
		},
		{
			name:     "rejects an unknown menu",
			quantity: 1,
			setupMocks: func(orders *mocks.MockOrderRepository, userCarts *mocks.MockUserCartRepository, catalog *mocks.MockCatalogRepository, publisher *mocks.MockPublisher, txm *mocks.MockTxManager) {
				catalog.On("FindMenu", mock.Anything, TestMenuID).Return(nil, nil)
			},
			expectedError: ErrMenuNotFound,
		},
		{
			name:     "rejects an unavailable menu",
			quantity: 1,
			setupMocks: func(orders *mocks.MockOrderRepository, userCarts *mocks.MockUserCartRepository, catalog *mocks.MockCatalogRepository, publisher *mocks.MockPublisher, txm *mocks.MockTxManager) {
				menu := CreateMockMenu(TestMenuID, TestStoreID, "Karaage Bento", TestMenuPrice, false)
				catalog.On("FindMenu", mock.Anything, TestMenuID).Return(menu, nil)
			},
			expectedError: ErrMenuUnavailable,
		},
		{
			name:     "cart stays intact when the transaction fails",
			quantity: 1,
			setupMocks: func(orders *mocks.MockOrderRepository, userCarts *mocks.MockUserCartRepository, catalog *mocks.MockCatalogRepository, publisher *mocks.MockPublisher, txm *mocks.MockTxManager) {
				menu := CreateMockMenu(TestMenuID, TestStoreID, "Karaage Bento", TestMenuPrice, true)
				catalog.On("FindMenu", mock.Anything, TestMenuID).Return(menu, nil)
				txm.On("Do", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
			},
			expectedError: errors.New("insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, orders, userCarts, catalog, publisher, txm := newOrderFixture()
			tt.setupMocks(orders, userCarts, catalog, publisher, txm)

			order, err := svc.CreateOrder(context.Background(), TestUserID, TestMenuID, tt.quantity, nil, "")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, domain.StatusPending, order.Status)
				assert.Equal(t, int64(1600), order.TotalPrice)
				assert.NotNil(t, order.Menu)
			}
			orders.AssertExpectations(t)
			userCarts.AssertExpectations(t)
		})
	}
}

func TestOrderService_GetOrder(t *testing.T) {
	orderedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns the caller's own order", func(t *testing.T) {
		svc, orders, _, _, _, _ := newOrderFixture()
		own := CreateMockOrder(3, TestUserID, TestMenuID, TestStoreID, 1, TestMenuPrice, domain.StatusPending, orderedAt)
		orders.On("FindByID", mock.Anything, uint64(3)).Return(&own, nil)

		order, err := svc.GetOrder(context.Background(), TestUserID, 3)

		assert.NoError(t, err)
		assert.Equal(t, uint64(3), order.ID)
	})

	t.Run("hides other users' orders as not found", func(t *testing.T) {
		svc, orders, _, _, _, _ := newOrderFixture()
		other := CreateMockOrder(3, TestUserID+1, TestMenuID, TestStoreID, 1, TestMenuPrice, domain.StatusPending, orderedAt)
		orders.On("FindByID", mock.Anything, uint64(3)).Return(&other, nil)

		_, err := svc.GetOrder(context.Background(), TestUserID, 3)

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderService_CancelOrder(t *testing.T) {
	orderedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("cancels a pending order", func(t *testing.T) {
		svc, orders, _, _, publisher, _ := newOrderFixture()
		pending := CreateMockOrder(3, TestUserID, TestMenuID, TestStoreID, 1, TestMenuPrice, domain.StatusPending, orderedAt)
		orders.On("FindByID", mock.Anything, uint64(3)).Return(&pending, nil)
		orders.On("UpdateStatus", mock.Anything, uint64(3), domain.StatusCancelled).Return(nil)
		publisher.On("Publish", mock.Anything, "order.status_changed", mock.Anything).Return(nil).Maybe()

		order, err := svc.CancelOrder(context.Background(), TestUserID, 3)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, order.Status)
		orders.AssertExpectations(t)
	})

	t.Run("refuses to cancel once preparation finished", func(t *testing.T) {
		svc, orders, _, _, _, _ := newOrderFixture()
		ready := CreateMockOrder(3, TestUserID, TestMenuID, TestStoreID, 1, TestMenuPrice, domain.StatusReady, orderedAt)
		orders.On("FindByID", mock.Anything, uint64(3)).Return(&ready, nil)

		_, err := svc.CancelOrder(context.Background(), TestUserID, 3)

		var ite *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &ite)
		assert.Equal(t, domain.StatusReady, ite.From)
		assert.Equal(t, domain.StatusCancelled, ite.To)
		orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	orderedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	manager := &domain.User{ID: 9, Role: domain.RoleManager, StoreID: storeIDPtr(TestStoreID)}
	owner := &domain.User{ID: 10, Role: domain.RoleOwner}

	t.Run("staff lookups are scoped to their store", func(t *testing.T) {
		svc, orders, _, _, publisher, _ := newOrderFixture()
		pending := CreateMockOrder(3, TestUserID, TestMenuID, TestStoreID, 1, TestMenuPrice, domain.StatusPending, orderedAt)
		orders.On("FindForStore", mock.Anything, uint64(3), TestStoreID).Return(&pending, nil)
		orders.On("UpdateStatus", mock.Anything, uint64(3), domain.StatusReady).Return(nil)
		publisher.On("Publish", mock.Anything, "order.status_changed", mock.Anything).Return(nil).Maybe()

		order, err := svc.UpdateStatus(context.Background(), manager, 3, domain.StatusReady)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusReady, order.Status)
		orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("an order from another store is not found for staff", func(t *testing.T) {
		svc, orders, _, _, _, _ := newOrderFixture()
		orders.On("FindForStore", mock.Anything, uint64(3), TestStoreID).Return(nil, nil)

		_, err := svc.UpdateStatus(context.Background(), manager, 3, domain.StatusReady)

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("owner reaches orders in any store", func(t *testing.T) {
		svc, orders, _, _, publisher, _ := newOrderFixture()
		ready := CreateMockOrder(3, TestUserID, TestMenuID, TestStoreID+5, 1, TestMenuPrice, domain.StatusReady, orderedAt)
		orders.On("FindByID", mock.Anything, uint64(3)).Return(&ready, nil)
		orders.On("UpdateStatus", mock.Anything, uint64(3), domain.StatusCompleted).Return(nil)
		publisher.On("Publish", mock.Anything, "order.status_changed", mock.Anything).Return(nil).Maybe()

		order, err := svc.UpdateStatus(context.Background(), owner, 3, domain.StatusCompleted)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, order.Status)
	})

	t.Run("staff without a store assignment is rejected", func(t *testing.T) {
		svc, _, _, _, _, _ := newOrderFixture()
		unassigned := &domain.User{ID: 11, Role: domain.RoleStaff}

		_, err := svc.UpdateStatus(context.Background(), unassigned, 3, domain.StatusReady)

		assert.ErrorIs(t, err, ErrNoStore)
	})

	t.Run("terminal statuses accept no transition", func(t *testing.T) {
		for _, from := range []domain.OrderStatus{domain.StatusCompleted, domain.StatusCancelled} {
			svc, orders, _, _, _, _ := newOrderFixture()
			terminal := CreateMockOrder(3, TestUserID, TestMenuID, TestStoreID, 1, TestMenuPrice, from, orderedAt)
			orders.On("FindForStore", mock.Anything, uint64(3), TestStoreID).Return(&terminal, nil)

			_, err := svc.UpdateStatus(context.Background(), manager, 3, domain.StatusReady)

			var ite *domain.InvalidTransitionError
			assert.ErrorAs(t, err, &ite, "from %s", from)
			orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		}
	})
}

func TestOrderService_ListStoreOrders(t *testing.T) {
	orderedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	manager := &domain.User{ID: 9, Role: domain.RoleManager, StoreID: storeIDPtr(TestStoreID)}

	t.Run("passes the filter through scoped to the store", func(t *testing.T) {
		svc, orders, _, _, _, _ := newOrderFixture()
		filter := repository.OrderListFilter{Statuses: []domain.OrderStatus{domain.StatusPending}, Limit: 20}
		rows := []domain.Order{
			CreateMockOrder(1, TestUserID, TestMenuID, TestStoreID, 1, TestMenuPrice, domain.StatusPending, orderedAt),
		}
		orders.On("ListByStore", mock.Anything, TestStoreID, filter).Return(rows, int64(1), nil)

		got, total, err := svc.ListStoreOrders(context.Background(), manager, filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, got, 1)
	})

	t.Run("rejects staff without a store", func(t *testing.T) {
		svc, _, _, _, _, _ := newOrderFixture()
		unassigned := &domain.User{ID: 11, Role: domain.RoleStaff}

		_, _, err := svc.ListStoreOrders(context.Background(), unassigned, repository.OrderListFilter{})

		assert.ErrorIs(t, err, ErrNoStore)
	})
}
