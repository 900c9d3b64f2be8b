package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuestSession_Expired(t *testing.T) {
	expiresAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := GuestSession{Token: "t", ExpiresAt: expiresAt}

	assert.False(t, session.Expired(expiresAt.Add(-time.Second)))
	// Expiry instant itself is already dead.
	assert.True(t, session.Expired(expiresAt))
	assert.True(t, session.Expired(expiresAt.Add(time.Second)))
}

func TestGuestSession_Converted(t *testing.T) {
	session := GuestSession{Token: "t"}
	assert.False(t, session.Converted())

	uid := uint64(42)
	session.ConvertedToUserID = &uid
	assert.True(t, session.Converted())
}
