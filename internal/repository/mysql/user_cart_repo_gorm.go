package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bento-backend/internal/domain"
	"bento-backend/internal/repository"
)

type userCartRepo struct {
	db *gorm.DB
}

func NewUserCartRepository(db *gorm.DB) repository.UserCartRepository {
	return &userCartRepo{db: db}
}

func (r *userCartRepo) Items(ctx context.Context, userID uint64) ([]domain.UserCartItem, error) {
	var items []domain.UserCartItem
	err := dbFrom(ctx, r.db).Where("user_id = ?", userID).
		Order("created_at ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *userCartRepo) FindItem(ctx context.Context, id uint64) (*domain.UserCartItem, error) {
	var item domain.UserCartItem
	err := dbFrom(ctx, r.db).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *userCartRepo) Upsert(ctx context.Context, userID, menuID uint64, qty int) error {
	item := domain.UserCartItem{
		UserID:   userID,
		MenuID:   menuID,
		Quantity: qty,
	}
	return dbFrom(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "menu_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
}

func (r *userCartRepo) Insert(ctx context.Context, item *domain.UserCartItem) error {
	return dbFrom(ctx, r.db).Create(item).Error
}

func (r *userCartRepo) IncrementQuantity(ctx context.Context, id uint64, delta int) error {
	return dbFrom(ctx, r.db).Model(&domain.UserCartItem{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		}).Error
}

func (r *userCartRepo) UpdateQuantity(ctx context.Context, id uint64, qty int) error {
	return dbFrom(ctx, r.db).Model(&domain.UserCartItem{}).
		Where("id = ?", id).
		Update("quantity", qty).Error
}

func (r *userCartRepo) DeleteItem(ctx context.Context, id uint64) error {
	return dbFrom(ctx, r.db).Delete(&domain.UserCartItem{}, id).Error
}

func (r *userCartRepo) Clear(ctx context.Context, userID uint64) error {
	return dbFrom(ctx, r.db).Where("user_id = ?", userID).
		Delete(&domain.UserCartItem{}).Error
}
