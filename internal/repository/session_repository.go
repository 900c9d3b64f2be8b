package repository

import (
	"context"
	"time"

	"bento-backend/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.GuestSession) error
	// FindByToken returns (nil, nil) when no session exists for the token.
	// Expiry is not filtered here; callers decide how stale sessions behave.
	FindByToken(ctx context.Context, token string) (*domain.GuestSession, error)
	Touch(ctx context.Context, token string, at time.Time) error
	SetSelectedStore(ctx context.Context, token string, storeID uint64, at time.Time) error
	MarkConverted(ctx context.Context, token string, userID uint64, at time.Time) error
	Delete(ctx context.Context, token string) error
}
