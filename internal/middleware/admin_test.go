package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kobenguyent/note-hub/internal/model"
)

type stubDirectory struct {
	users map[string]model.User
}

func (s *stubDirectory) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func TestRequireAdmin(t *testing.T) {
	directory := &stubDirectory{users: map[string]model.User{
		"u-admin":   {ID: "u-admin", Username: "admin"},
		"u-mallory": {ID: "u-mallory", Username: "mallory"},
	}}

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name          string
		adminUsername string
		userID        string
		wantStatus    int
	}{
		{"admin account passes", "admin", "u-admin", http.StatusOK},
		{"ordinary user refused", "admin", "u-mallory", http.StatusForbidden},
		{"deleted user refused", "admin", "u-gone", http.StatusForbidden},
		{"no admin configured refuses everyone", "", "u-admin", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAdminMiddleware(directory, tt.adminUsername)
			handler := mw.RequireAdmin(okHandler)

			req := httptest.NewRequest("GET", "/api/v1/audit", nil)
			ctx := context.WithValue(req.Context(), authClaimsContextKey, &model.AuthClaims{UserID: tt.userID, Kind: "access"})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

// The full chain: a valid access token belonging to a non-admin account
// must not reach the audit trail.
func TestRequireAdminChainedAfterRequireAuth(t *testing.T) {
	directory := &stubDirectory{users: map[string]model.User{
		"u-mallory": {ID: "u-mallory", Username: "mallory"},
	}}
	validator := &stubValidator{claims: &model.AuthClaims{UserID: "u-mallory", Kind: "access"}}

	authMW := NewAuthMiddleware(validator)
	adminMW := NewAdminMiddleware(directory, "admin")

	handler := authMW.RequireAuth(adminMW.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest("GET", "/api/v1/audit", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Without any token the request never reaches the admin check.
	req = httptest.NewRequest("GET", "/api/v1/audit", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
