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

type guestCartRepo struct {
	db *gorm.DB
}

func NewGuestCartRepository(db *gorm.DB) repository.GuestCartRepository {
	return &guestCartRepo{db: db}
}

func (r *guestCartRepo) Items(ctx context.Context, token string) ([]domain.GuestCartItem, error) {
	var items []domain.GuestCartItem
	err := dbFrom(ctx, r.db).Where("session_id = ?", token).
		Order("added_at ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *guestCartRepo) FindItem(ctx context.Context, id uint64) (*domain.GuestCartItem, error) {
	var item domain.GuestCartItem
	err := dbFrom(ctx, r.db).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Upsert inserts a row or increments the existing one in a single
// statement, relying on the (session_id, menu_id) unique index. Two
// concurrent adds can therefore never produce duplicate rows.
func (r *guestCartRepo) Upsert(ctx context.Context, token string, menuID uint64, qty int) error {
	item := domain.GuestCartItem{
		SessionToken: token,
		MenuID:       menuID,
		Quantity:     qty,
	}
	return dbFrom(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "menu_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
}

func (r *guestCartRepo) UpdateQuantity(ctx context.Context, id uint64, qty int) error {
	return dbFrom(ctx, r.db).Model(&domain.GuestCartItem{}).
		Where("id = ?", id).
		Update("quantity", qty).Error
}

func (r *guestCartRepo) DeleteItem(ctx context.Context, id uint64) error {
	return dbFrom(ctx, r.db).Delete(&domain.GuestCartItem{}, id).Error
}

func (r *guestCartRepo) Clear(ctx context.Context, token string) error {
	return dbFrom(ctx, r.db).Where("session_id = ?", token).
		Delete(&domain.GuestCartItem{}).Error
}
