package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kobenguyent/note-hub/internal/config"
	"github.com/kobenguyent/note-hub/internal/database"
	"github.com/kobenguyent/note-hub/internal/event"
	"github.com/kobenguyent/note-hub/internal/handler"
	"github.com/kobenguyent/note-hub/internal/middleware"
	"github.com/kobenguyent/note-hub/internal/repository"
	"github.com/kobenguyent/note-hub/internal/router"
	"github.com/kobenguyent/note-hub/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	resetTokenRepo := repository.NewResetTokenRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	shareRepo := repository.NewShareRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	slog.Info("database ready")

	bus := event.NewBus()

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, cfg.JWTPendingTTL)
	authService := service.NewAuthService(userRepo, tokenService, bus, cfg.TOTPIssuer)
	resetService := service.NewResetService(userRepo, resetTokenRepo, cfg.ResetTokenTTL, bus)
	accessService := service.NewAccessService(noteRepo, shareRepo)
	noteService := service.NewNoteService(noteRepo, accessService)
	shareService := service.NewShareService(noteRepo, shareRepo, userRepo, bus)
	auditService := service.NewAuditService(auditRepo)

	if err := authService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	recorderCtx, recorderCancel := context.WithCancel(context.Background())
	events, unsubscribe := bus.Subscribe()
	go auditService.Record(recorderCtx, events)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	adminMiddleware := middleware.NewAdminMiddleware(userRepo, cfg.AdminUsername)

	appRouter := router.New(cfg, authMiddleware, adminMiddleware, router.Handlers{
		Auth:  handler.NewAuthHandler(authService, tokenService, resetService),
		Note:  handler.NewNoteHandler(noteService),
		Share: handler.NewShareHandler(shareService),
		Audit: handler.NewAuditHandler(auditService),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			unsubscribe,
			recorderCancel,
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
