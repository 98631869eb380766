package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kobenguyent/note-hub/internal/model"
)

// Token kinds carried in the "typ" claim. A pending token is the short-lived
// marker handed to a client between the credential step and the second
// factor; it grants nothing on its own.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
	TokenKindPending = "pending_2fa"
)

// TokenService signs and validates the HS256 tokens used by API callers.
// Validation needs no store access: validity is signature plus expiry plus
// kind, which also means an issued token cannot be revoked before it
// expires. Logout is client-side discard.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	pendingTTL time.Duration
}

func NewTokenService(secret string, accessTTL time.Duration, refreshTTL time.Duration, pendingTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		pendingTTL: pendingTTL,
	}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Kind string `json:"typ"`
}

func (s *TokenService) IssueAccessToken(userID string) (string, error) {
	return s.sign(userID, TokenKindAccess, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	return s.sign(userID, TokenKindRefresh, s.refreshTTL)
}

func (s *TokenService) IssuePendingToken(userID string) (string, error) {
	return s.sign(userID, TokenKindPending, s.pendingTTL)
}

func (s *TokenService) IssuePair(user model.User) (model.TokenPair, error) {
	access, err := s.IssueAccessToken(user.ID)
	if err != nil {
		return model.TokenPair{}, err
	}

	refresh, err := s.IssueRefreshToken(user.ID)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         user.Public(),
	}, nil
}

// Validate checks signature, expiry, and kind, in that order of failure:
// an expired token reports ErrExpiredToken, a live token of the wrong kind
// ErrWrongTokenKind, anything else ErrInvalidToken.
func (s *TokenService) Validate(tokenString string, kind string) (*model.AuthClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, model.ErrInvalidToken
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrExpiredToken
		}
		return nil, model.ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	if claims.Kind != kind {
		return nil, model.ErrWrongTokenKind
	}
	if claims.Subject == "" {
		return nil, model.ErrInvalidToken
	}

	return &model.AuthClaims{
		UserID:  claims.Subject,
		Kind:    claims.Kind,
		TokenID: claims.ID,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. The
// refresh token itself is never re-issued.
func (s *TokenService) Refresh(refreshToken string) (model.AccessToken, error) {
	claims, err := s.Validate(refreshToken, TokenKindRefresh)
	if err != nil {
		return model.AccessToken{}, err
	}

	access, err := s.IssueAccessToken(claims.UserID)
	if err != nil {
		return model.AccessToken{}, err
	}

	return model.AccessToken{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *TokenService) sign(userID string, kind string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Kind: kind,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
