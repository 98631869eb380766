package model

import "time"

type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShareGrant gives a non-owner access to a note. At most one grant exists
// per (note, grantee) pair; the grantee is never the owner.
type ShareGrant struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"note_id"`
	GrantorID string    `json:"grantor_id"`
	GranteeID string    `json:"grantee_id"`
	CanEdit   bool      `json:"can_edit"`
	CreatedAt time.Time `json:"created_at"`
}

// Action is the kind of access being requested on a note.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)
