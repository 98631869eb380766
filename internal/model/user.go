package model

import "time"

type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	TOTPSecret   string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// TwoFactorEnabled reports whether a TOTP secret is configured. A configured
// secret makes the second factor mandatory on every login.
func (u User) TwoFactorEnabled() bool {
	return u.TOTPSecret != ""
}

type AuthUser struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email,omitempty"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

func (u User) Public() AuthUser {
	return AuthUser{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		TwoFactorEnabled: u.TwoFactorEnabled(),
	}
}

type AuthClaims struct {
	UserID  string `json:"sub"`
	Kind    string `json:"typ"`
	TokenID string `json:"jti"`
}

type TokenPair struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	User         AuthUser `json:"user"`
}

// AccessToken is the result of a refresh: a new access token and nothing
// else. Refresh tokens are never re-issued, so their lifetime stays bounded
// by the original 30 days.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// LoginResult is the outcome of the credential step. When the account has
// two-factor authentication enabled and no code was supplied inline, Tokens
// is empty and PendingToken carries the signed marker the client must send
// back together with a TOTP code to finish the login.
type LoginResult struct {
	SecondFactorRequired bool       `json:"second_factor_required"`
	PendingToken         string     `json:"pending_token,omitempty"`
	Tokens               *TokenPair `json:"tokens,omitempty"`
}

type PasswordResetToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// TOTPEnrollment holds a candidate secret and its provisioning URI. The
// secret is not persisted until the user confirms it with a valid code.
type TOTPEnrollment struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}
