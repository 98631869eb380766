package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobenguyent/note-hub/internal/crypto"
	"github.com/kobenguyent/note-hub/internal/model"
)

func newTestResetService(t *testing.T, ttl time.Duration, users ...model.User) (*ResetService, *fakeUserStore, *fakeResetStore) {
	t.Helper()
	userStore := newFakeUserStore(users...)
	resetStore := newFakeResetStore()
	return NewResetService(userStore, resetStore, ttl, nil), userStore, resetStore
}

func TestResetRequestUnknownIdentityIsSilent(t *testing.T) {
	svc, _, _ := newTestResetService(t, time.Hour)

	token, err := svc.Request(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestResetRoundTrip(t *testing.T) {
	user := testUser(t, "u1", "alice", "old password", totpTestSecret)
	svc, _, resetStore := newTestResetService(t, time.Hour, user)
	ctx := context.Background()

	token, err := svc.Request(ctx, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Redemption succeeds without a TOTP code even though 2FA is enabled.
	require.NoError(t, svc.Redeem(ctx, token, "brand new password"))

	hash := resetStore.consumedHash["u1"]
	require.NotEmpty(t, hash)
	assert.True(t, crypto.CheckPassword("brand new password", hash))
	assert.NotEqual(t, user.PasswordHash, hash)
}

func TestResetTokenSingleUse(t *testing.T) {
	svc, _, _ := newTestResetService(t, time.Hour, testUser(t, "u1", "alice", "old password", ""))
	ctx := context.Background()

	token, err := svc.Request(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Redeem(ctx, token, "first new password"))

	// The second redemption fails even with a different password.
	err = svc.Redeem(ctx, token, "second new password")
	assert.ErrorIs(t, err, model.ErrTokenAlreadyUsed)
}

func TestResetTokenExpiry(t *testing.T) {
	svc, _, _ := newTestResetService(t, -time.Minute, testUser(t, "u1", "alice", "old password", ""))
	ctx := context.Background()

	token, err := svc.Request(ctx, "alice")
	require.NoError(t, err)

	err = svc.Redeem(ctx, token, "new password")
	assert.ErrorIs(t, err, model.ErrExpiredToken)
}

func TestResetRetiresPriorTokens(t *testing.T) {
	svc, _, _ := newTestResetService(t, time.Hour, testUser(t, "u1", "alice", "old password", ""))
	ctx := context.Background()

	first, err := svc.Request(ctx, "alice")
	require.NoError(t, err)
	second, err := svc.Request(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Issuing a new token retires the old one.
	err = svc.Redeem(ctx, first, "new password")
	assert.ErrorIs(t, err, model.ErrTokenAlreadyUsed)

	require.NoError(t, svc.Redeem(ctx, second, "new password"))
}

func TestResetRejectsUnknownToken(t *testing.T) {
	svc, _, _ := newTestResetService(t, time.Hour)

	err := svc.Redeem(context.Background(), "never-issued", "new password")
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestResetRejectsWeakPassword(t *testing.T) {
	svc, _, _ := newTestResetService(t, time.Hour, testUser(t, "u1", "alice", "old password", ""))
	ctx := context.Background()

	token, err := svc.Request(ctx, "alice")
	require.NoError(t, err)

	err = svc.Redeem(ctx, token, "short")
	assert.ErrorIs(t, err, crypto.ErrPasswordTooShort)

	// The failed attempt must not consume the token.
	require.NoError(t, svc.Redeem(ctx, token, "long enough password"))
}
