package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kobenguyent/note-hub/internal/crypto"
	"github.com/kobenguyent/note-hub/internal/event"
	"github.com/kobenguyent/note-hub/internal/model"
	"github.com/kobenguyent/note-hub/pkg/apierror"
)

// AuthService owns registration, the two-step login state machine, and TOTP
// enrollment. Credential failures are reported uniformly: a caller cannot
// tell an unknown identity from a wrong password.
type AuthService struct {
	users      UserStore
	tokens     *TokenService
	bus        event.Bus
	totpIssuer string
}

func NewAuthService(users UserStore, tokens *TokenService, bus event.Bus, totpIssuer string) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bus:        bus,
		totpIssuer: totpIssuer,
	}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthUser, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return model.AuthUser{}, apierror.New("BAD_REQUEST", "username is required", "username", http.StatusBadRequest)
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooShort) {
			return model.AuthUser{}, apierror.New("WEAK_PASSWORD",
				fmt.Sprintf("password must be at least %d characters", crypto.MinPasswordLength),
				"password", http.StatusBadRequest)
		}
		return model.AuthUser{}, fmt.Errorf("hash password: %w", err)
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return model.AuthUser{}, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return model.AuthUser{}, model.ErrUserAlreadyExists
	}

	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthUser{}, err
	}

	s.publish(event.TypeUserRegistered, user.ID, "user:"+user.ID, "ok", "")
	return user.Public(), nil
}

// Login runs the credential step. With two-factor authentication enabled and
// no code supplied, the result carries a pending token instead of a token
// pair; a code supplied inline completes both steps in one call.
func (s *AuthService) Login(ctx context.Context, identity string, password string, totpCode string) (model.LoginResult, error) {
	user, err := s.users.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.publish(event.TypeLoginFailed, "", "", "denied", "unknown identity")
			return model.LoginResult{}, model.ErrInvalidCredentials
		}
		return model.LoginResult{}, err
	}

	if !crypto.CheckPassword(password, user.PasswordHash) {
		s.publish(event.TypeLoginFailed, user.ID, "user:"+user.ID, "denied", "bad password")
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	if user.TwoFactorEnabled() {
		if totpCode == "" {
			pending, err := s.tokens.IssuePendingToken(user.ID)
			if err != nil {
				return model.LoginResult{}, fmt.Errorf("issue pending token: %w", err)
			}
			s.publish(event.TypeSecondFactorPending, user.ID, "user:"+user.ID, "pending", "")
			return model.LoginResult{SecondFactorRequired: true, PendingToken: pending}, nil
		}
		if !crypto.VerifyTOTP(user.TOTPSecret, totpCode, time.Now()) {
			s.publish(event.TypeSecondFactorFailed, user.ID, "user:"+user.ID, "denied", "bad code")
			return model.LoginResult{}, model.ErrInvalidSecondFactorCode
		}
	}

	tokens, err := s.finishLogin(ctx, user)
	if err != nil {
		return model.LoginResult{}, err
	}
	return model.LoginResult{Tokens: &tokens}, nil
}

// CompleteSecondFactor finishes a login started with Login. A stale or
// tampered pending token fails closed; a wrong code is retryable while the
// pending token lives.
func (s *AuthService) CompleteSecondFactor(ctx context.Context, pendingToken string, code string) (model.TokenPair, error) {
	claims, err := s.tokens.Validate(pendingToken, TokenKindPending)
	if err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.TokenPair{}, model.ErrInvalidToken
		}
		return model.TokenPair{}, err
	}
	if !user.TwoFactorEnabled() {
		// 2FA was disabled after the credential step. The pending token no
		// longer matches the account state.
		return model.TokenPair{}, model.ErrInvalidToken
	}

	if !crypto.VerifyTOTP(user.TOTPSecret, code, time.Now()) {
		s.publish(event.TypeSecondFactorFailed, user.ID, "user:"+user.ID, "denied", "bad code")
		return model.TokenPair{}, model.ErrInvalidSecondFactorCode
	}

	return s.finishLogin(ctx, user)
}

func (s *AuthService) finishLogin(ctx context.Context, user model.User) (model.TokenPair, error) {
	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}

	if err := s.users.RecordLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		slog.Warn("failed to record login time", "user_id", user.ID, "error", err)
	}

	s.publish(event.TypeLoginSucceeded, user.ID, "user:"+user.ID, "ok", "")
	return pair, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AuthUser{}, err
	}
	return user.Public(), nil
}

// BeginTOTPEnrollment generates a candidate secret and its otpauth URI.
// Nothing is persisted until ConfirmTOTPEnrollment proves the user's
// authenticator produces matching codes.
func (s *AuthService) BeginTOTPEnrollment(ctx context.Context, userID string) (model.TOTPEnrollment, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.TOTPEnrollment{}, err
	}

	secret, err := crypto.GenerateTOTPSecret()
	if err != nil {
		return model.TOTPEnrollment{}, fmt.Errorf("generate totp secret: %w", err)
	}

	return model.TOTPEnrollment{
		Secret: secret,
		URI:    crypto.TOTPProvisioningURI(secret, user.Username, s.totpIssuer),
	}, nil
}

func (s *AuthService) ConfirmTOTPEnrollment(ctx context.Context, userID string, secret string, code string) error {
	if !crypto.VerifyTOTP(secret, code, time.Now()) {
		return model.ErrInvalidSecondFactorCode
	}

	if err := s.users.UpdateTOTPSecret(ctx, userID, secret); err != nil {
		return err
	}

	s.publish(event.TypeTOTPEnabled, userID, "user:"+userID, "ok", "")
	return nil
}

// DisableTOTP turns the second factor off. The caller already holds a valid
// access token, which is the only gate the original flow applies.
func (s *AuthService) DisableTOTP(ctx context.Context, userID string) error {
	if err := s.users.UpdateTOTPSecret(ctx, userID, ""); err != nil {
		return err
	}

	s.publish(event.TypeTOTPDisabled, userID, "user:"+userID, "ok", "")
	return nil
}

// EnsureAdmin creates the bootstrap account when the user table is empty.
// Called once at startup; a non-empty table is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, username string, password string) error {
	if username == "" || password == "" {
		return nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	slog.Info("bootstrap admin account created", "username", username)
	return nil
}

func (s *AuthService) publish(t event.Type, actorID string, resource string, status string, detail string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      t,
		ActorID:   actorID,
		Resource:  resource,
		Status:    status,
		Detail:    detail,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
