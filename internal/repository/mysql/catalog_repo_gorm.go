package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bento-backend/internal/domain"
	"bento-backend/internal/repository"
)

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) FindMenu(ctx context.Context, id uint64) (*domain.Menu, error) {
	var m domain.Menu
	err := dbFrom(ctx, r.db).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *catalogRepo) FindMenus(ctx context.Context, ids []uint64) ([]domain.Menu, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var menus []domain.Menu
	if err := dbFrom(ctx, r.db).Where("id IN ?", ids).Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *catalogRepo) AvailableMenus(ctx context.Context, storeID uint64) ([]domain.Menu, error) {
	var menus []domain.Menu
	err := dbFrom(ctx, r.db).
		Where("store_id = ? AND is_available = ?", storeID, true).
		Order("name ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *catalogRepo) FindActiveStore(ctx context.Context, id uint64) (*domain.Store, error) {
	var s domain.Store
	err := dbFrom(ctx, r.db).
		Where("id = ? AND is_active = ?", id, true).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
