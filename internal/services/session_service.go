package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"bento-backend/internal/domain"
	"bento-backend/internal/repository"
)

// SessionService owns the guest session lifecycle:
// fresh -> store-selected -> converted (terminal), with expiry resolved
// lazily on access rather than by a background sweep.
type SessionService struct {
	sessions   repository.SessionRepository
	guestCarts repository.GuestCartRepository
	catalog    repository.CatalogRepository
	txm        repository.TxManager
	now        func() time.Time
}

func NewSessionService(
	sessions repository.SessionRepository,
	guestCarts repository.GuestCartRepository,
	catalog repository.CatalogRepository,
	txm repository.TxManager,
) *SessionService {
	return &SessionService{
		sessions:   sessions,
		guestCarts: guestCarts,
		catalog:    catalog,
		txm:        txm,
		now:        time.Now,
	}
}

func generateSessionToken() (string, error) {
	buf := make([]byte, domain.SessionTokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GetOrCreate returns the session for token when it is still valid,
// otherwise mints a fresh one. The bool reports whether a new session was
// created, so the handler knows to (re)set the cookie.
func (s *SessionService) GetOrCreate(ctx context.Context, token string) (*domain.GuestSession, bool, error) {
	now := s.now()

	if token != "" {
		existing, err := s.sessions.FindByToken(ctx, token)
		if err != nil {
			return nil, false, err
		}
		if existing != nil && !existing.Expired(now) && !existing.Converted() {
			if err := s.sessions.Touch(ctx, existing.Token, now); err != nil {
				return nil, false, err
			}
			existing.LastAccessedAt = now
			return existing, false, nil
		}
	}

	fresh, err := generateSessionToken()
	if err != nil {
		return nil, false, err
	}
	session := &domain.GuestSession{
		Token:          fresh,
		ExpiresAt:      now.Add(domain.SessionTTL),
		LastAccessedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// Resolve returns the live session for token and bumps last_accessed_at.
// Missing, expired and converted sessions all resolve the same way: the
// caller has no usable guest identity.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.GuestSession, error) {
	if token == "" {
		return nil, ErrSessionExpiredOrMissing
	}
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if session == nil || session.Expired(now) || session.Converted() {
		return nil, ErrSessionExpiredOrMissing
	}
	if err := s.sessions.Touch(ctx, session.Token, now); err != nil {
		return nil, err
	}
	session.LastAccessedAt = now
	return session, nil
}

// SelectStore stores the guest's chosen store on the session. Last write
// wins; re-selecting the same store is a no-op by construction.
func (s *SessionService) SelectStore(ctx context.Context, token string, storeID uint64) (*domain.GuestSession, error) {
	session, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	store, err := s.catalog.FindActiveStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	if err := s.sessions.SetSelectedStore(ctx, session.Token, storeID, s.now()); err != nil {
		return nil, err
	}
	session.SelectedStoreID = &storeID
	return session, nil
}

// Delete removes the session and its cart rows as one transaction. The
// cart rows go first; no implicit cascade is relied on.
func (s *SessionService) Delete(ctx context.Context, token string) error {
	session, err := s.Resolve(ctx, token)
	if err != nil {
		return err
	}
	return s.txm.Do(ctx, func(ctx context.Context) error {
		if err := s.guestCarts.Clear(ctx, session.Token); err != nil {
			return err
		}
		return s.sessions.Delete(ctx, session.Token)
	})
}
