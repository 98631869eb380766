package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kobenguyent/note-hub/internal/model"
)

// NoteService is the note CRUD surface. Every read and write goes through
// the access service; deletion stays owner-only regardless of grants.
type NoteService struct {
	notes  NoteStore
	access *AccessService
}

func NewNoteService(notes NoteStore, access *AccessService) *NoteService {
	return &NoteService{notes: notes, access: access}
}

func (s *NoteService) Create(ctx context.Context, ownerID string, req model.NoteRequest) (model.Note, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled"
	}

	now := time.Now().UTC()
	note := model.Note{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return model.Note{}, err
	}
	return note, nil
}

func (s *NoteService) Get(ctx context.Context, userID string, noteID string) (model.Note, error) {
	if err := s.access.Can(ctx, userID, noteID, model.ActionRead); err != nil {
		return model.Note{}, err
	}
	return s.notes.FindByID(ctx, noteID)
}

func (s *NoteService) Update(ctx context.Context, userID string, noteID string, req model.NoteRequest) (model.Note, error) {
	if err := s.access.Can(ctx, userID, noteID, model.ActionWrite); err != nil {
		return model.Note{}, err
	}

	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return model.Note{}, err
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		note.Title = title
	}
	note.Body = req.Body
	note.UpdatedAt = time.Now().UTC()

	if err := s.notes.Update(ctx, note); err != nil {
		return model.Note{}, err
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID string, noteID string) error {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.OwnerID != userID {
		return model.ErrAccessDenied
	}
	return s.notes.Delete(ctx, noteID)
}

// List returns every note the user can see: their own plus those shared
// with them.
func (s *NoteService) List(ctx context.Context, userID string) ([]model.Note, error) {
	return s.notes.ListVisible(ctx, userID)
}
