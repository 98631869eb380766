package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kobenguyent/note-hub/internal/model"
)

// In-memory stores backing the service tests.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByIdentity(_ context.Context, identity string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == identity {
			return u, nil
		}
		if u.Email != "" && strings.EqualFold(u.Email, identity) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return model.ErrUserAlreadyExists
		}
		if u.Email != "" && existing.Email != "" && strings.EqualFold(existing.Email, u.Email) {
			return model.ErrUserAlreadyExists
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[userID] = u
	return nil
}

func (s *fakeUserStore) UpdateTOTPSecret(_ context.Context, userID string, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.TOTPSecret = secret
	s.users[userID] = u
	return nil
}

func (s *fakeUserStore) RecordLogin(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.LastLogin = &at
	s.users[userID] = u
	return nil
}

func (s *fakeUserStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

type fakeResetStore struct {
	mu           sync.Mutex
	tokens       map[string]model.PasswordResetToken
	consumedHash map[string]string
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{
		tokens:       make(map[string]model.PasswordResetToken),
		consumedHash: make(map[string]string),
	}
}

func (s *fakeResetStore) Issue(_ context.Context, t model.PasswordResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.tokens {
		if existing.UserID == t.UserID && !existing.Used {
			existing.Used = true
			s.tokens[id] = existing
		}
	}
	s.tokens[t.ID] = t
	return nil
}

func (s *fakeResetStore) Find(_ context.Context, token string) (model.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Token == token {
			return t, nil
		}
	}
	return model.PasswordResetToken{}, model.ErrInvalidToken
}

func (s *fakeResetStore) Consume(_ context.Context, tokenID string, userID string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenID]
	if !ok {
		return model.ErrInvalidToken
	}
	if t.Used {
		return model.ErrTokenAlreadyUsed
	}
	t.Used = true
	s.tokens[tokenID] = t
	s.consumedHash[userID] = passwordHash
	return nil
}

type fakeNoteStore struct {
	mu    sync.Mutex
	notes map[string]model.Note
}

func newFakeNoteStore(notes ...model.Note) *fakeNoteStore {
	s := &fakeNoteStore{notes: make(map[string]model.Note)}
	for _, n := range notes {
		s.notes[n.ID] = n
	}
	return s
}

func (s *fakeNoteStore) Create(_ context.Context, n model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[n.ID] = n
	return nil
}

func (s *fakeNoteStore) FindByID(_ context.Context, id string) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return model.Note{}, model.ErrNoteNotFound
	}
	return n, nil
}

func (s *fakeNoteStore) Update(_ context.Context, n model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[n.ID]; !ok {
		return model.ErrNoteNotFound
	}
	s.notes[n.ID] = n
	return nil
}

func (s *fakeNoteStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return model.ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *fakeNoteStore) ListVisible(_ context.Context, _ string) ([]model.Note, error) {
	return nil, nil
}

type fakeShareStore struct {
	mu     sync.Mutex
	grants map[string]model.ShareGrant
}

func newFakeShareStore(grants ...model.ShareGrant) *fakeShareStore {
	s := &fakeShareStore{grants: make(map[string]model.ShareGrant)}
	for _, g := range grants {
		s.grants[g.NoteID+"/"+g.GranteeID] = g
	}
	return s
}

func (s *fakeShareStore) Upsert(_ context.Context, g model.ShareGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := g.NoteID + "/" + g.GranteeID
	if existing, ok := s.grants[key]; ok {
		existing.CanEdit = g.CanEdit
		s.grants[key] = existing
		return nil
	}
	s.grants[key] = g
	return nil
}

func (s *fakeShareStore) Find(_ context.Context, noteID string, granteeID string) (model.ShareGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grants[noteID+"/"+granteeID]
	if !ok {
		return model.ShareGrant{}, model.ErrShareNotFound
	}
	return g, nil
}

func (s *fakeShareStore) ListByNote(_ context.Context, noteID string) ([]model.ShareGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ShareGrant
	for _, g := range s.grants {
		if g.NoteID == noteID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *fakeShareStore) Revoke(_ context.Context, noteID string, granteeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := noteID + "/" + granteeID
	if _, ok := s.grants[key]; !ok {
		return model.ErrShareNotFound
	}
	delete(s.grants, key)
	return nil
}
