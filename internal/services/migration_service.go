package services

import (
	"context"
	"fmt"
	"time"

	"bento-backend/internal/domain"
	"bento-backend/internal/repository"
)

// MigrationService folds a guest cart into a user cart exactly once per
// session, at the moment the guest authenticates.
type MigrationService struct {
	sessions   repository.SessionRepository
	guestCarts repository.GuestCartRepository
	userCarts  repository.UserCartRepository
	txm        repository.TxManager
	now        func() time.Time
}

func NewMigrationService(
	sessions repository.SessionRepository,
	guestCarts repository.GuestCartRepository,
	userCarts repository.UserCartRepository,
	txm repository.TxManager,
) *MigrationService {
	return &MigrationService{
		sessions:   sessions,
		guestCarts: guestCarts,
		userCarts:  userCarts,
		txm:        txm,
		now:        time.Now,
	}
}

// MigrateGuestCartToUser merges the guest cart identified by token into
// userID's cart and marks the session converted, all in one transaction.
//
// The operation is safe to call unconditionally: a missing, expired-and-
// gone or already-converted session yields a zero result. Quantity merge
// is pure addition, so processing order does not affect the final state.
// On any failure the transaction rolls back whole, the guest cart stays
// intact, and the error is wrapped in ErrMigrationFailed for the caller
// to log and swallow.
func (s *MigrationService) MigrateGuestCartToUser(ctx context.Context, token string, userID uint64) (domain.MigrationResult, error) {
	var result domain.MigrationResult
	if token == "" {
		return result, nil
	}

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		session, err := s.sessions.FindByToken(ctx, token)
		if err != nil {
			return err
		}
		// A concurrent migration that committed first leaves the session
		// converted; this attempt then observes the flag and no-ops.
		if session == nil || session.Converted() {
			return nil
		}

		guestItems, err := s.guestCarts.Items(ctx, token)
		if err != nil {
			return err
		}

		now := s.now()
		if len(guestItems) == 0 {
			// Empty cart still marks conversion so a later retry is a true no-op.
			return s.sessions.MarkConverted(ctx, token, userID, now)
		}

		userItems, err := s.userCarts.Items(ctx, userID)
		if err != nil {
			return err
		}
		byMenu := make(map[uint64]domain.UserCartItem, len(userItems))
		for _, it := range userItems {
			byMenu[it.MenuID] = it
		}

		for _, gi := range guestItems {
			if existing, ok := byMenu[gi.MenuID]; ok {
				if err := s.userCarts.IncrementQuantity(ctx, existing.ID, gi.Quantity); err != nil {
					return err
				}
				result.MergedItems++
			} else {
				item := &domain.UserCartItem{
					UserID:   userID,
					MenuID:   gi.MenuID,
					Quantity: gi.Quantity,
				}
				if err := s.userCarts.Insert(ctx, item); err != nil {
					return err
				}
				result.MigratedItems++
			}
			result.TotalQuantity += gi.Quantity
		}

		if err := s.guestCarts.Clear(ctx, token); err != nil {
			return err
		}
		return s.sessions.MarkConverted(ctx, token, userID, now)
	})
	if err != nil {
		return domain.MigrationResult{}, fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}
	return result, nil
}
