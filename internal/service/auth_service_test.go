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

const totpTestSecret = "JBSWY3DPEHPK3PXP"

func newTestAuthService(t *testing.T, users ...model.User) (*AuthService, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore(users...)
	return NewAuthService(store, newTestTokenService(), nil, "Note Hub"), store
}

func currentTOTPCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := crypto.GenerateTOTPCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

func testUser(t *testing.T, id string, username string, password string, totpSecret string) model.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return model.User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		TOTPSecret:   totpSecret,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestRegister(t *testing.T) {
	svc, store := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.TwoFactorEnabled)

	stored, err := store.FindByIdentity(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)

	_, err = svc.Register(ctx, model.RegisterRequest{Username: "alice", Password: "another pass"})
	assert.ErrorIs(t, err, model.ErrUserAlreadyExists)

	// An email already on file conflicts even under a fresh username;
	// the case-insensitive unique index surfaces through the store.
	_, err = svc.Register(ctx, model.RegisterRequest{
		Username: "carol",
		Email:    "Alice@Example.com",
		Password: "another pass",
	})
	assert.ErrorIs(t, err, model.ErrUserAlreadyExists)

	_, err = svc.Register(ctx, model.RegisterRequest{Username: "bob", Password: "short"})
	assert.Error(t, err)
}

func TestLoginUniformFailure(t *testing.T) {
	svc, _ := newTestAuthService(t, testUser(t, "u1", "alice", "correct horse", ""))
	ctx := context.Background()

	// Unknown identity and wrong password must be indistinguishable.
	_, err := svc.Login(ctx, "nobody", "whatever", "")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "alice", "wrong password", "")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginWithoutSecondFactor(t *testing.T) {
	svc, store := newTestAuthService(t, testUser(t, "u1", "alice", "correct horse", ""))
	ctx := context.Background()

	result, err := svc.Login(ctx, "alice", "correct horse", "")
	require.NoError(t, err)
	assert.False(t, result.SecondFactorRequired)
	require.NotNil(t, result.Tokens)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	stored, err := store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginSecondFactorGate(t *testing.T) {
	svc, _ := newTestAuthService(t, testUser(t, "u1", "alice", "correct horse", totpTestSecret))
	ctx := context.Background()

	// Correct password alone must not yield tokens.
	result, err := svc.Login(ctx, "alice", "correct horse", "")
	require.NoError(t, err)
	assert.True(t, result.SecondFactorRequired)
	assert.NotEmpty(t, result.PendingToken)
	assert.Nil(t, result.Tokens)

	// A wrong code is retryable while the pending token lives.
	_, err = svc.CompleteSecondFactor(ctx, result.PendingToken, "000000")
	assert.ErrorIs(t, err, model.ErrInvalidSecondFactorCode)

	pair, err := svc.CompleteSecondFactor(ctx, result.PendingToken, currentTOTPCode(t, totpTestSecret))
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestLoginInlineCode(t *testing.T) {
	svc, _ := newTestAuthService(t, testUser(t, "u1", "alice", "correct horse", totpTestSecret))
	ctx := context.Background()

	_, err := svc.Login(ctx, "alice", "correct horse", "000000")
	assert.ErrorIs(t, err, model.ErrInvalidSecondFactorCode)

	result, err := svc.Login(ctx, "alice", "correct horse", currentTOTPCode(t, totpTestSecret))
	require.NoError(t, err)
	require.NotNil(t, result.Tokens)
}

func TestCompleteSecondFactorRejectsBadTokens(t *testing.T) {
	svc, store := newTestAuthService(t, testUser(t, "u1", "alice", "correct horse", totpTestSecret))
	ctx := context.Background()

	_, err := svc.CompleteSecondFactor(ctx, "garbage", "123456")
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	// An access token must not stand in for a pending token.
	access, err := svc.tokens.IssueAccessToken("u1")
	require.NoError(t, err)
	_, err = svc.CompleteSecondFactor(ctx, access, "123456")
	assert.ErrorIs(t, err, model.ErrWrongTokenKind)

	// Disabling 2FA invalidates an outstanding pending token.
	result, err := svc.Login(ctx, "alice", "correct horse", "")
	require.NoError(t, err)
	require.NoError(t, store.UpdateTOTPSecret(ctx, "u1", ""))
	_, err = svc.CompleteSecondFactor(ctx, result.PendingToken, "123456")
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTOTPEnrollment(t *testing.T) {
	svc, store := newTestAuthService(t, testUser(t, "u1", "alice", "correct horse", ""))
	ctx := context.Background()

	enrollment, err := svc.BeginTOTPEnrollment(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.Contains(t, enrollment.URI, "otpauth://totp/")

	// Nothing is persisted until the code is confirmed.
	stored, err := store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.TOTPSecret)

	err = svc.ConfirmTOTPEnrollment(ctx, "u1", enrollment.Secret, "000000")
	assert.ErrorIs(t, err, model.ErrInvalidSecondFactorCode)

	require.NoError(t, svc.ConfirmTOTPEnrollment(ctx, "u1", enrollment.Secret, currentTOTPCode(t, enrollment.Secret)))

	stored, err = store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enrollment.Secret, stored.TOTPSecret)

	require.NoError(t, svc.DisableTOTP(ctx, "u1"))
	stored, err = store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.TOTPSecret)
}

func TestEnsureAdmin(t *testing.T) {
	svc, store := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "changeme1"))
	admin, err := store.FindByIdentity(ctx, "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, admin.PasswordHash)

	// A populated user table is never touched.
	require.NoError(t, svc.EnsureAdmin(ctx, "admin2", "changeme1"))
	_, err = store.FindByIdentity(ctx, "admin2")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}
