package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bento-backend/internal/domain"
	"bento-backend/internal/mocks"
)

func newSessionFixture() (*SessionService, *mocks.MockSessionRepository, *mocks.MockGuestCartRepository, *mocks.MockCatalogRepository, *mocks.MockTxManager) {
	sessions := new(mocks.MockSessionRepository)
	guestCarts := new(mocks.MockGuestCartRepository)
	catalog := new(mocks.MockCatalogRepository)
	txm := new(mocks.MockTxManager)
	svc := NewSessionService(sessions, guestCarts, catalog, txm)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, sessions, guestCarts, catalog, txm
}

func TestSessionService_GetOrCreate(t *testing.T) {
	t.Run("reuses a live session and bumps last access", func(t *testing.T) {
		svc, sessions, _, _, _ := newSessionFixture()
		now := svc.now()
		existing := CreateMockSession(TestSessionToken, storeIDPtr(TestStoreID), now.Add(time.Hour))
		sessions.On("FindByToken", mock.Anything, TestSessionToken).Return(existing, nil)
		sessions.On("Touch", mock.Anything, TestSessionToken, now).Return(nil)

		session, created, err := svc.GetOrCreate(context.Background(), TestSessionToken)

		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, TestSessionToken, session.Token)
		assert.Equal(t, now, session.LastAccessedAt)
		sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("mints a fresh token when none is presented", func(t *testing.T) {
		svc, sessions, _, _, _ := newSessionFixture()
		now := svc.now()
		sessions.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.GuestSession) bool {
			return len(s.Token) == domain.SessionTokenLength && s.ExpiresAt.Equal(now.Add(domain.SessionTTL))
		})).Return(nil)

		session, created, err := svc.GetOrCreate(context.Background(), "")

		assert.NoError(t, err)
		assert.True(t, created)
		assert.Len(t, session.Token, domain.SessionTokenLength)
		sessions.AssertExpectations(t)
	})

	t.Run("replaces an expired session instead of reviving it", func(t *testing.T) {
		svc, sessions, _, _, _ := newSessionFixture()
		expired := CreateMockSession(TestSessionToken, nil, svc.now().Add(-time.Minute))
		sessions.On("FindByToken", mock.Anything, TestSessionToken).Return(expired, nil)
		sessions.On("Create", mock.Anything, mock.Anything).Return(nil)

		session, created, err := svc.GetOrCreate(context.Background(), TestSessionToken)

		assert.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, TestSessionToken, session.Token)
		sessions.AssertNotCalled(t, "Touch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("replaces a converted session", func(t *testing.T) {
		svc, sessions, _, _, _ := newSessionFixture()
		uid := TestUserID
		converted := CreateMockSession(TestSessionToken, nil, svc.now().Add(time.Hour))
		converted.ConvertedToUserID = &uid
		sessions.On("FindByToken", mock.Anything, TestSessionToken).Return(converted, nil)
		sessions.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, created, err := svc.GetOrCreate(context.Background(), TestSessionToken)

		assert.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("two mints never share a token", func(t *testing.T) {
		svc, sessions, _, _, _ := newSessionFixture()
		sessions.On("Create", mock.Anything, mock.Anything).Return(nil)

		first, _, err := svc.GetOrCreate(context.Background(), "")
		assert.NoError(t, err)
		second, _, err := svc.GetOrCreate(context.Background(), "")
		assert.NoError(t, err)

		assert.NotEqual(t, first.Token, second.Token)
	})
}

func TestSessionService_Resolve(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		setupMocks    func(*mocks.MockSessionRepository, func() time.Time)
		expectedError error
	}{
		{
			name:  "live session resolves and is touched",
			token: TestSessionToken,
			setupMocks: func(sessions *mocks.MockSessionRepository, now func() time.Time) {
				sessions.On("FindByToken", mock.Anything, TestSessionToken).
					Return(CreateMockSession(TestSessionToken, storeIDPtr(TestStoreID), now().Add(time.Hour)), nil)
				sessions.On("Touch", mock.Anything, TestSessionToken, now()).Return(nil)
			},
		},
		{
			name:          "empty token",
			token:         "",
			setupMocks:    func(sessions *mocks.MockSessionRepository, now func() time.Time) {},
			expectedError: ErrSessionExpiredOrMissing,
		},
		{
			name:  "unknown token",
			token: TestSessionToken,
			setupMocks: func(sessions *mocks.MockSessionRepository, now func() time.Time) {
				sessions.On("FindByToken", mock.Anything, TestSessionToken).Return(nil, nil)
			},
			expectedError: ErrSessionExpiredOrMissing,
		},
		{
			name:  "expired session",
			token: TestSessionToken,
			setupMocks: func(sessions *mocks.MockSessionRepository, now func() time.Time) {
				sessions.On("FindByToken", mock.Anything, TestSessionToken).
					Return(CreateMockSession(TestSessionToken, nil, now().Add(-time.Second)), nil)
			},
			expectedError: ErrSessionExpiredOrMissing,
		},
		{
			name:  "session expiring exactly now is already dead",
			token: TestSessionToken,
			setupMocks: func(sessions *mocks.MockSessionRepository, now func() time.Time) {
				sessions.On("FindByToken", mock.Anything, TestSessionToken).
					Return(CreateMockSession(TestSessionToken, nil, now()), nil)
			},
			expectedError: ErrSessionExpiredOrMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, sessions, _, _, _ := newSessionFixture()
			tt.setupMocks(sessions, svc.now)

			session, err := svc.Resolve(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, session)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, session)
			}
			sessions.AssertExpectations(t)
		})
	}
}

func TestSessionService_SelectStore(t *testing.T) {
	t.Run("persists the chosen store", func(t *testing.T) {
		svc, sessions, _, catalog, _ := newSessionFixture()
		now := svc.now()
		sessions.On("FindByToken", mock.Anything, TestSessionToken).
			Return(CreateMockSession(TestSessionToken, nil, now.Add(time.Hour)), nil)
		sessions.On("Touch", mock.Anything, TestSessionToken, now).Return(nil)
		catalog.On("FindActiveStore", mock.Anything, TestStoreID).
			Return(&domain.Store{ID: TestStoreID, Name: "Ekimae", IsActive: true}, nil)
		sessions.On("SetSelectedStore", mock.Anything, TestSessionToken, TestStoreID, now).Return(nil)

		session, err := svc.SelectStore(context.Background(), TestSessionToken, TestStoreID)

		assert.NoError(t, err)
		assert.Equal(t, TestStoreID, *session.SelectedStoreID)
		sessions.AssertExpectations(t)
	})

	t.Run("rejects an inactive or unknown store", func(t *testing.T) {
		svc, sessions, _, catalog, _ := newSessionFixture()
		now := svc.now()
		sessions.On("FindByToken", mock.Anything, TestSessionToken).
			Return(CreateMockSession(TestSessionToken, nil, now.Add(time.Hour)), nil)
		sessions.On("Touch", mock.Anything, TestSessionToken, now).Return(nil)
		catalog.On("FindActiveStore", mock.Anything, TestStoreID).Return(nil, nil)

		_, err := svc.SelectStore(context.Background(), TestSessionToken, TestStoreID)

		assert.ErrorIs(t, err, ErrStoreNotFound)
		sessions.AssertNotCalled(t, "SetSelectedStore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSessionService_Delete(t *testing.T) {
	t.Run("clears the cart before dropping the session", func(t *testing.T) {
		svc, sessions, guestCarts, _, txm := newSessionFixture()
		now := svc.now()
		sessions.On("FindByToken", mock.Anything, TestSessionToken).
			Return(CreateMockSession(TestSessionToken, storeIDPtr(TestStoreID), now.Add(time.Hour)), nil)
		sessions.On("Touch", mock.Anything, TestSessionToken, now).Return(nil)
		txm.On("Do", mock.Anything, mock.Anything).Return(nil)
		guestCarts.On("Clear", mock.Anything, TestSessionToken).Return(nil)
		sessions.On("Delete", mock.Anything, TestSessionToken).Return(nil)

		err := svc.Delete(context.Background(), TestSessionToken)

		assert.NoError(t, err)
		sessions.AssertExpectations(t)
		guestCarts.AssertExpectations(t)
	})

	t.Run("refuses to delete through a dead token", func(t *testing.T) {
		svc, sessions, guestCarts, _, _ := newSessionFixture()
		sessions.On("FindByToken", mock.Anything, TestSessionToken).Return(nil, nil)

		err := svc.Delete(context.Background(), TestSessionToken)

		assert.ErrorIs(t, err, ErrSessionExpiredOrMissing)
		guestCarts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	})
}
