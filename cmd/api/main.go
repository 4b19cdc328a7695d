package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rehome/rehome-go/internal/config"
	"github.com/rehome/rehome-go/internal/handler"
	"github.com/rehome/rehome-go/internal/middleware"
	"github.com/rehome/rehome-go/internal/repository"
	"github.com/rehome/rehome-go/internal/service"
	"github.com/rehome/rehome-go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		slog.Error("image store setup failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	adoptionRepo := repository.NewAdoptionRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	sessionService := service.NewSessionService(sessionRepo, cfg.SessionSecret, cfg.SessionTTL)
	authService := service.NewAuthService(userRepo, sessionService)
	caseService := service.NewCaseService(caseRepo, userRepo, images)
	adoptionService := service.NewAdoptionService(caseRepo, adoptionRepo)

	authHandler := handler.NewAuthHandler(authService, sessionService)
	caseHandler := handler.NewCaseHandler(caseService, adoptionService, authService)

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/v1/auth/register", authHandler.HandleRegister)
		r.Post("/api/v1/auth/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessionService))
		r.Post("/api/v1/auth/logout", authHandler.HandleLogout)
		r.Get("/api/v1/auth/me", authHandler.HandleMe)

		r.Get("/api/v1/home", caseHandler.HandleHome)
		r.Post("/api/v1/cases", caseHandler.HandleCreateCase)
		r.Get("/api/v1/cases/adoptable", caseHandler.HandleListAdoptable)
		r.Get("/api/v1/cases/{case_id}", caseHandler.HandleGetCase)
		r.Get("/api/v1/cases/{case_id}/image", caseHandler.HandleCaseImage)
		r.Post("/api/v1/cases/{case_id}/adopt", caseHandler.HandleAdopt)
		r.Delete("/api/v1/cases/{case_id}/adopt", caseHandler.HandleUnadopt)
	})

	go sweepSessions(ctx, sessionService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "image_driver", cfg.ImageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newImageStore(ctx context.Context, cfg config.Config) (storage.ImageStore, error) {
	if cfg.ImageDriver == "s3" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return storage.NewFilesystemStore(cfg.ImageDir)
}

// sweepSessions periodically deletes expired session rows.
func sweepSessions(ctx context.Context, sessions *service.SessionService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Sweep(ctx)
		}
	}
}
