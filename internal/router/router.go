package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kobenguyent/note-hub/internal/config"
	"github.com/kobenguyent/note-hub/internal/handler"
	"github.com/kobenguyent/note-hub/internal/middleware"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	Note  *handler.NoteHandler
	Share *handler.ShareHandler
	Audit *handler.AuditHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.Post("/2fa", h.Auth.CompleteSecondFactor)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.Post("/forgot-password", h.Auth.ForgotPassword)
			auth.Post("/reset-password", h.Auth.ResetPassword)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
			auth.With(authMiddleware.RequireAuth).Post("/2fa/setup", h.Auth.SetupTOTP)
			auth.With(authMiddleware.RequireAuth).Post("/2fa/enable", h.Auth.EnableTOTP)
			auth.With(authMiddleware.RequireAuth).Post("/2fa/disable", h.Auth.DisableTOTP)
		})

		api.Route("/notes", func(notes chi.Router) {
			notes.Use(authMiddleware.RequireAuth)

			notes.Post("/", h.Note.Create)
			notes.Get("/", h.Note.List)
			notes.Get("/{noteID}", h.Note.Get)
			notes.Put("/{noteID}", h.Note.Update)
			notes.Delete("/{noteID}", h.Note.Delete)

			notes.Post("/{noteID}/shares", h.Share.Share)
			notes.Get("/{noteID}/shares", h.Share.List)
			notes.Delete("/{noteID}/shares/{username}", h.Share.Revoke)
		})

		api.With(authMiddleware.RequireAuth, adminMiddleware.RequireAdmin).Get("/audit", h.Audit.List)
	})

	return r
}
