package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"bento-backend/internal/domain"
	"bento-backend/internal/repository"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	result := dbFrom(ctx, r.db).Omit("Menu").Create(order)
	if result.Error != nil {
		return result.Error
	}
	if order.ID == 0 {
		return errors.New("order saved but no ID assigned")
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := dbFrom(ctx, r.db).Preload("Menu").First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindForStore(ctx context.Context, id, storeID uint64) (*domain.Order, error) {
	var o domain.Order
	err := dbFrom(ctx, r.db).Preload("Menu").
		Where("id = ? AND store_id = ?", id, storeID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uint64, filter repository.OrderListFilter) ([]domain.Order, int64, error) {
	query := dbFrom(ctx, r.db).Model(&domain.Order{}).Where("user_id = ?", userID)
	return r.list(query, filter)
}

func (r *orderRepo) ListByStore(ctx context.Context, storeID uint64, filter repository.OrderListFilter) ([]domain.Order, int64, error) {
	query := dbFrom(ctx, r.db).Model(&domain.Order{}).Where("store_id = ?", storeID)
	return r.list(query, filter)
}

func (r *orderRepo) list(query *gorm.DB, filter repository.OrderListFilter) ([]domain.Order, int64, error) {
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	switch filter.Sort {
	case "oldest":
		query = query.Order("ordered_at ASC")
	case "price_high":
		query = query.Order("total_price DESC")
	case "price_low":
		query = query.Order("total_price ASC")
	default: // newest
		query = query.Order("ordered_at DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []domain.Order
	if err := query.Preload("Menu").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	result := dbFrom(ctx, r.db).Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("order status update affected no rows")
	}
	return nil
}

func (r *orderRepo) Between(ctx context.Context, storeID *uint64, from, to time.Time) ([]domain.Order, error) {
	query := dbFrom(ctx, r.db).
		Where("ordered_at >= ? AND ordered_at < ?", from, to)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}

	var orders []domain.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
