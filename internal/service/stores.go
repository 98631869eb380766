package service

import (
	"context"
	"time"

	"github.com/kobenguyent/note-hub/internal/model"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them in production; tests substitute in-memory fakes.

type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByIdentity(ctx context.Context, identity string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u model.User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	UpdateTOTPSecret(ctx context.Context, userID string, secret string) error
	RecordLogin(ctx context.Context, userID string, at time.Time) error
	Count(ctx context.Context) (int, error)
}

type ResetTokenStore interface {
	Issue(ctx context.Context, t model.PasswordResetToken) error
	Find(ctx context.Context, token string) (model.PasswordResetToken, error)
	Consume(ctx context.Context, tokenID string, userID string, passwordHash string) error
}

type NoteStore interface {
	Create(ctx context.Context, n model.Note) error
	FindByID(ctx context.Context, id string) (model.Note, error)
	Update(ctx context.Context, n model.Note) error
	Delete(ctx context.Context, id string) error
	ListVisible(ctx context.Context, userID string) ([]model.Note, error)
}

type ShareStore interface {
	Upsert(ctx context.Context, g model.ShareGrant) error
	Find(ctx context.Context, noteID string, granteeID string) (model.ShareGrant, error)
	ListByNote(ctx context.Context, noteID string) ([]model.ShareGrant, error)
	Revoke(ctx context.Context, noteID string, granteeID string) error
}

type AuditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}
