package service

import (
	"context"
	"errors"

	"github.com/kobenguyent/note-hub/internal/model"
)

// AccessService answers a single question: may this user perform this
// action on this note. Owners may do anything; grantees are limited by
// their grant; everyone else is denied.
type AccessService struct {
	notes  NoteStore
	shares ShareStore
}

func NewAccessService(notes NoteStore, shares ShareStore) *AccessService {
	return &AccessService{notes: notes, shares: shares}
}

func (s *AccessService) Can(ctx context.Context, userID string, noteID string, action model.Action) error {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return err
	}

	if note.OwnerID == userID {
		return nil
	}

	grant, err := s.shares.Find(ctx, noteID, userID)
	if err != nil {
		if errors.Is(err, model.ErrShareNotFound) {
			return model.ErrAccessDenied
		}
		return err
	}

	switch action {
	case model.ActionRead:
		return nil
	case model.ActionWrite:
		if grant.CanEdit {
			return nil
		}
		return model.ErrAccessDenied
	default:
		return model.ErrAccessDenied
	}
}
