package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobenguyent/note-hub/internal/model"
)

type stubValidator struct {
	claims *model.AuthClaims
	err    error
}

func (s *stubValidator) Validate(_ string, _ string) (*model.AuthClaims, error) {
	return s.claims, s.err
}

func TestRequireAuth(t *testing.T) {
	valid := &stubValidator{claims: &model.AuthClaims{UserID: "u1", Kind: "access"}}
	invalid := &stubValidator{err: model.ErrInvalidToken}

	tests := []struct {
		name       string
		validator  tokenValidator
		authHeader string
		wantStatus int
	}{
		{"valid bearer token", valid, "Bearer some-token", http.StatusOK},
		{"lowercase scheme accepted", valid, "bearer some-token", http.StatusOK},
		{"missing header", valid, "", http.StatusUnauthorized},
		{"wrong scheme", valid, "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"rejected token", invalid, "Bearer some-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAuthMiddleware(tt.validator)

			var gotClaims *model.AuthClaims
			handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotClaims, _ = ClaimsFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/api/v1/notes", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, gotClaims)
				assert.Equal(t, "u1", gotClaims.UserID)
			}
		})
	}
}
