package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"bento-backend/internal/domain"
	"bento-backend/internal/repository"
)

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *domain.GuestSession) error {
	return dbFrom(ctx, r.db).Create(session).Error
}

func (r *sessionRepo) FindByToken(ctx context.Context, token string) (*domain.GuestSession, error) {
	var s domain.GuestSession
	err := dbFrom(ctx, r.db).Where("session_id = ?", token).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Touch(ctx context.Context, token string, at time.Time) error {
	return dbFrom(ctx, r.db).Model(&domain.GuestSession{}).
		Where("session_id = ?", token).
		Update("last_accessed_at", at).Error
}

func (r *sessionRepo) SetSelectedStore(ctx context.Context, token string, storeID uint64, at time.Time) error {
	return dbFrom(ctx, r.db).Model(&domain.GuestSession{}).
		Where("session_id = ?", token).
		Updates(map[string]interface{}{
			"selected_store_id": storeID,
			"last_accessed_at":  at,
		}).Error
}

func (r *sessionRepo) MarkConverted(ctx context.Context, token string, userID uint64, at time.Time) error {
	return dbFrom(ctx, r.db).Model(&domain.GuestSession{}).
		Where("session_id = ?", token).
		Updates(map[string]interface{}{
			"converted_to_user_id": userID,
			"last_accessed_at":     at,
		}).Error
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	return dbFrom(ctx, r.db).Where("session_id = ?", token).
		Delete(&domain.GuestSession{}).Error
}
