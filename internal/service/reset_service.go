package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kobenguyent/note-hub/internal/crypto"
	"github.com/kobenguyent/note-hub/internal/event"
	"github.com/kobenguyent/note-hub/internal/model"
)

const resetTokenBytes = 32

// ResetService issues and redeems single-use password reset tokens.
// Requesting a reset for an unknown identity succeeds silently so the
// endpoint cannot be used to probe which accounts exist.
type ResetService struct {
	users    UserStore
	resets   ResetTokenStore
	tokenTTL time.Duration
	bus      event.Bus
}

func NewResetService(users UserStore, resets ResetTokenStore, tokenTTL time.Duration, bus event.Bus) *ResetService {
	return &ResetService{
		users:    users,
		resets:   resets,
		tokenTTL: tokenTTL,
		bus:      bus,
	}
}

// Request issues a fresh reset token for the account, retiring any earlier
// unused ones. The token is returned to the caller for delivery; this
// service does not send mail.
func (s *ResetService) Request(ctx context.Context, identity string) (string, error) {
	user, err := s.users.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			slog.Debug("password reset requested for unknown identity")
			return "", nil
		}
		return "", err
	}

	token, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	now := time.Now().UTC()
	record := model.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	}
	if err := s.resets.Issue(ctx, record); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	s.publish(event.TypeResetRequested, user.ID, "user:"+user.ID, "ok")
	return token, nil
}

// Redeem consumes a reset token and sets the new password in one step.
// Redemption never asks for the second factor: the token itself is the
// proof of account control, and a user locked out of their authenticator
// must still be able to recover.
func (s *ResetService) Redeem(ctx context.Context, token string, newPassword string) error {
	record, err := s.resets.Find(ctx, token)
	if err != nil {
		return err
	}
	if record.Used {
		return model.ErrTokenAlreadyUsed
	}
	if time.Now().After(record.ExpiresAt) {
		return model.ErrExpiredToken
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.resets.Consume(ctx, record.ID, record.UserID, hash); err != nil {
		return err
	}

	s.publish(event.TypeResetRedeemed, record.UserID, "user:"+record.UserID, "ok")
	return nil
}

func randomToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *ResetService) publish(t event.Type, actorID string, resource string, status string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      t,
		ActorID:   actorID,
		Resource:  resource,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
