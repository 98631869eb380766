package middleware

import (
	"context"
	"net/http"

	"github.com/kobenguyent/note-hub/internal/model"
)

type userDirectory interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

// AdminMiddleware restricts a route to the bootstrap admin account. There
// is no role column; the admin is the account named by ADMIN_USERNAME.
type AdminMiddleware struct {
	users         userDirectory
	adminUsername string
}

func NewAdminMiddleware(users userDirectory, adminUsername string) *AdminMiddleware {
	return &AdminMiddleware{users: users, adminUsername: adminUsername}
}

// RequireAdmin must run after RequireAuth: it reads the claims that
// RequireAuth put on the context and re-resolves the account, so a renamed
// or deleted user loses admin access on the next request.
func (m *AdminMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeUnauthorized(w, "authentication required")
			return
		}

		user, err := m.users.FindByID(r.Context(), claims.UserID)
		if err != nil || m.adminUsername == "" || user.Username != m.adminUsername {
			writeForbidden(w, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)

	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "FORBIDDEN",
			Message: message,
		},
	})
}
