package service

import (
	"context"
	"farsihub_backend/internal/util"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestInvalidateBumpsRevision(t *testing.T) {
	s := NewSessionService(nil, nil, nil)
	ctx := context.Background()

	assert.Equal(t, int64(0), s.Revision(ctx, "u1"))

	s.Invalidate(ctx, "u1", ReasonApproved)
	assert.Equal(t, int64(1), s.Revision(ctx, "u1"))

	s.Invalidate(ctx, "u1", ReasonYearSet)
	s.Invalidate(ctx, "u1", ReasonProfileUpdated)
	assert.Equal(t, int64(3), s.Revision(ctx, "u1"))

	// Other users are unaffected.
	assert.Equal(t, int64(0), s.Revision(ctx, "u2"))
}

func TestInvalidateNotifiesHub(t *testing.T) {
	hub := NewSessionHub(nil)
	c := newTestClient(hub, "u1")
	hub.subscribe(c)

	s := NewSessionService(nil, nil, hub)
	s.Invalidate(context.Background(), "u1", ReasonApproved)

	event := receiveEvent(t, c)
	assert.Equal(t, ReasonApproved, event.Reason)
}

func claimsWithExpiry(userID, jti string, expiresIn time.Duration) *util.Claims {
	return &util.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	s := NewSessionService(nil, nil, nil)
	ctx := context.Background()

	claims := claimsWithExpiry("u1", "jti-1", time.Hour)

	assert.False(t, s.IsRevoked(ctx, "jti-1"))
	assert.NoError(t, s.Logout(ctx, claims))
	assert.True(t, s.IsRevoked(ctx, "jti-1"))

	// Other tokens of the same user are untouched.
	assert.False(t, s.IsRevoked(ctx, "jti-2"))
}

func TestLogoutExpiredToken(t *testing.T) {
	s := NewSessionService(nil, nil, nil)
	ctx := context.Background()

	claims := claimsWithExpiry("u1", "jti-old", -time.Minute)

	// Nothing to revoke: the token is already unusable.
	assert.NoError(t, s.Logout(ctx, claims))
	assert.False(t, s.IsRevoked(ctx, "jti-old"))
}

func TestIsRevokedEmptyJti(t *testing.T) {
	s := NewSessionService(nil, nil, nil)
	assert.False(t, s.IsRevoked(context.Background(), ""))
}

func TestLogoutNilClaims(t *testing.T) {
	s := NewSessionService(nil, nil, nil)
	assert.NoError(t, s.Logout(context.Background(), nil))
}
