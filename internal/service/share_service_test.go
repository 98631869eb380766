package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobenguyent/note-hub/internal/model"
)

func newTestShareService() (*ShareService, *fakeShareStore) {
	notes := newFakeNoteStore(testNote("n1", "owner"))
	shares := newFakeShareStore()
	users := newFakeUserStore(
		model.User{ID: "owner", Username: "alice"},
		model.User{ID: "friend", Username: "bob"},
	)
	return NewShareService(notes, shares, users, nil), shares
}

func TestShare(t *testing.T) {
	svc, shares := newTestShareService()
	ctx := context.Background()

	grant, err := svc.Share(ctx, "owner", "n1", "bob", false)
	require.NoError(t, err)
	assert.Equal(t, "friend", grant.GranteeID)
	assert.Equal(t, "owner", grant.GrantorID)
	assert.False(t, grant.CanEdit)

	// Re-sharing the same note to the same user updates the permission in
	// place instead of stacking a second grant.
	_, err = svc.Share(ctx, "owner", "n1", "bob", true)
	require.NoError(t, err)

	all, err := shares.ListByNote(ctx, "n1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].CanEdit)
}

func TestShareRejections(t *testing.T) {
	svc, _ := newTestShareService()
	ctx := context.Background()

	_, err := svc.Share(ctx, "friend", "n1", "bob", false)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	_, err = svc.Share(ctx, "owner", "n1", "alice", false)
	assert.ErrorIs(t, err, model.ErrSelfShare)

	_, err = svc.Share(ctx, "owner", "n1", "nobody", false)
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = svc.Share(ctx, "owner", "ghost", "bob", false)
	assert.ErrorIs(t, err, model.ErrNoteNotFound)
}

func TestRevokeRejections(t *testing.T) {
	svc, _ := newTestShareService()
	ctx := context.Background()

	// Revoking a grant that never existed reports the missing share.
	err := svc.Revoke(ctx, "owner", "n1", "bob")
	assert.ErrorIs(t, err, model.ErrShareNotFound)

	err = svc.Revoke(ctx, "owner", "n1", "nobody")
	assert.ErrorIs(t, err, model.ErrShareNotFound)

	_, err = svc.Share(ctx, "owner", "n1", "bob", false)
	require.NoError(t, err)
	err = svc.Revoke(ctx, "friend", "n1", "bob")
	assert.ErrorIs(t, err, model.ErrAccessDenied)
}

func TestListGrantsOwnerOnly(t *testing.T) {
	svc, _ := newTestShareService()
	ctx := context.Background()

	_, err := svc.Share(ctx, "owner", "n1", "bob", true)
	require.NoError(t, err)

	grants, err := svc.ListGrants(ctx, "owner", "n1")
	require.NoError(t, err)
	assert.Len(t, grants, 1)

	_, err = svc.ListGrants(ctx, "friend", "n1")
	assert.ErrorIs(t, err, model.ErrAccessDenied)
}
