package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kobenguyent/note-hub/internal/event"
	"github.com/kobenguyent/note-hub/internal/model"
)

// ShareService manages grants on notes. Only the owner may share or revoke;
// a repeated share of the same note to the same user updates the permission
// in place rather than stacking grants.
type ShareService struct {
	notes  NoteStore
	shares ShareStore
	users  UserStore
	bus    event.Bus
}

func NewShareService(notes NoteStore, shares ShareStore, users UserStore, bus event.Bus) *ShareService {
	return &ShareService{notes: notes, shares: shares, users: users, bus: bus}
}

func (s *ShareService) Share(ctx context.Context, ownerID string, noteID string, granteeUsername string, canEdit bool) (model.ShareGrant, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return model.ShareGrant{}, err
	}
	if note.OwnerID != ownerID {
		return model.ShareGrant{}, model.ErrAccessDenied
	}

	grantee, err := s.users.FindByIdentity(ctx, granteeUsername)
	if err != nil {
		return model.ShareGrant{}, err
	}
	if grantee.ID == ownerID {
		return model.ShareGrant{}, model.ErrSelfShare
	}

	grant := model.ShareGrant{
		ID:        uuid.NewString(),
		NoteID:    noteID,
		GrantorID: ownerID,
		GranteeID: grantee.ID,
		CanEdit:   canEdit,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.shares.Upsert(ctx, grant); err != nil {
		return model.ShareGrant{}, fmt.Errorf("store grant: %w", err)
	}

	s.publish(event.TypeNoteShared, ownerID, "note:"+noteID, fmt.Sprintf("grantee=%s can_edit=%t", grantee.Username, canEdit))
	return grant, nil
}

// Revoke removes a grant. Takes effect immediately: the grantee's next
// access check fails even if they hold a live access token.
func (s *ShareService) Revoke(ctx context.Context, ownerID string, noteID string, granteeUsername string) error {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.OwnerID != ownerID {
		return model.ErrAccessDenied
	}

	grantee, err := s.users.FindByIdentity(ctx, granteeUsername)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.ErrShareNotFound
		}
		return err
	}

	if err := s.shares.Revoke(ctx, noteID, grantee.ID); err != nil {
		return err
	}

	s.publish(event.TypeNoteUnshared, ownerID, "note:"+noteID, "grantee="+grantee.Username)
	return nil
}

// ListGrants returns the grants on a note. Owner only: grantees may read
// the note but not enumerate who else can.
func (s *ShareService) ListGrants(ctx context.Context, ownerID string, noteID string) ([]model.ShareGrant, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.OwnerID != ownerID {
		return nil, model.ErrAccessDenied
	}

	return s.shares.ListByNote(ctx, noteID)
}

func (s *ShareService) publish(t event.Type, actorID string, resource string, detail string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      t,
		ActorID:   actorID,
		Resource:  resource,
		Status:    "ok",
		Detail:    detail,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
