package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobenguyent/note-hub/internal/model"
)

func newTestNoteService(notes *fakeNoteStore, shares *fakeShareStore) *NoteService {
	return NewNoteService(notes, NewAccessService(notes, shares))
}

func TestNoteCreateDefaultTitle(t *testing.T) {
	svc := newTestNoteService(newFakeNoteStore(), newFakeShareStore())

	note, err := svc.Create(context.Background(), "owner", model.NoteRequest{Title: "  ", Body: "milk, eggs"})
	require.NoError(t, err)
	assert.Equal(t, "Untitled", note.Title)
	assert.Equal(t, "owner", note.OwnerID)
}

func TestNoteReadWriteThroughGrants(t *testing.T) {
	notes := newFakeNoteStore(testNote("n1", "owner"))
	shares := newFakeShareStore(
		model.ShareGrant{ID: "g1", NoteID: "n1", GrantorID: "owner", GranteeID: "reader", CanEdit: false},
	)
	svc := newTestNoteService(notes, shares)
	ctx := context.Background()

	note, err := svc.Get(ctx, "reader", "n1")
	require.NoError(t, err)
	assert.Equal(t, "groceries", note.Title)

	_, err = svc.Update(ctx, "reader", "n1", model.NoteRequest{Body: "changed"})
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	_, err = svc.Get(ctx, "stranger", "n1")
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	updated, err := svc.Update(ctx, "owner", "n1", model.NoteRequest{Title: "chores", Body: "changed"})
	require.NoError(t, err)
	assert.Equal(t, "chores", updated.Title)
	assert.Equal(t, "changed", updated.Body)
}

func TestNoteDeleteOwnerOnly(t *testing.T) {
	notes := newFakeNoteStore(testNote("n1", "owner"))
	shares := newFakeShareStore(
		model.ShareGrant{ID: "g1", NoteID: "n1", GrantorID: "owner", GranteeID: "editor", CanEdit: true},
	)
	svc := newTestNoteService(notes, shares)
	ctx := context.Background()

	// Even a read-write grantee may not delete.
	err := svc.Delete(ctx, "editor", "n1")
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	require.NoError(t, svc.Delete(ctx, "owner", "n1"))

	_, err = svc.Get(ctx, "owner", "n1")
	assert.ErrorIs(t, err, model.ErrNoteNotFound)
}
