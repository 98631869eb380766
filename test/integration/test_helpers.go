//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kobenguyent/note-hub/internal/config"
	"github.com/kobenguyent/note-hub/internal/database"
	"github.com/kobenguyent/note-hub/internal/event"
	"github.com/kobenguyent/note-hub/internal/handler"
	"github.com/kobenguyent/note-hub/internal/middleware"
	"github.com/kobenguyent/note-hub/internal/repository"
	"github.com/kobenguyent/note-hub/internal/router"
	"github.com/kobenguyent/note-hub/internal/service"
)

const testJWTSecret = "integration-test-secret-0123456789abcdef"

// newTestServer wires the full stack against the database named by
// TEST_DATABASE_URL. Tests are skipped when it is unset.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, databaseURL, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		JWTSecret:        testJWTSecret,
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    24 * time.Hour,
		JWTPendingTTL:    5 * time.Minute,
		ResetTokenTTL:    time.Hour,
		TOTPIssuer:       "Note Hub",
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	resetTokenRepo := repository.NewResetTokenRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	shareRepo := repository.NewShareRepository(pool)

	bus := event.NewBus()
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, cfg.JWTPendingTTL)
	authService := service.NewAuthService(userRepo, tokenService, bus, cfg.TOTPIssuer)
	resetService := service.NewResetService(userRepo, resetTokenRepo, cfg.ResetTokenTTL, bus)
	accessService := service.NewAccessService(noteRepo, shareRepo)
	noteService := service.NewNoteService(noteRepo, accessService)
	shareService := service.NewShareService(noteRepo, shareRepo, userRepo, bus)
	auditService := service.NewAuditService(repository.NewAuditRepository(pool))

	appRouter := router.New(cfg,
		middleware.NewAuthMiddleware(tokenService),
		middleware.NewAdminMiddleware(userRepo, "admin"),
		router.Handlers{
			Auth:  handler.NewAuthHandler(authService, tokenService, resetService),
			Note:  handler.NewNoteHandler(noteService),
			Share: handler.NewShareHandler(shareService),
			Audit: handler.NewAuditHandler(auditService),
		})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)
	return server
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func postJSON(t *testing.T, url string, payload any) (*http.Response, apiEnvelope) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func doAuthJSON(t *testing.T, method string, url string, payload any, accessToken string) (*http.Response, apiEnvelope) {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

// registerAndLogin creates a fresh user with a unique name and returns its
// username and access token.
func registerAndLogin(t *testing.T, serverURL string) (string, string) {
	t.Helper()

	username := fmt.Sprintf("user-%s", uuid.NewString()[:8])
	password := "integration-pass-1"

	resp, _ := postJSON(t, serverURL+"/api/v1/auth/register", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := postJSON(t, serverURL+"/api/v1/auth/login", map[string]string{
		"identity": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	require.NotEmpty(t, result.Tokens.AccessToken)

	return username, result.Tokens.AccessToken
}
