package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joshua-sigston/brianwave/brianwave/config"
	"github.com/joshua-sigston/brianwave/brianwave/controllers"
	"github.com/joshua-sigston/brianwave/brianwave/middlewares"
	"github.com/joshua-sigston/brianwave/brianwave/routes"
	"github.com/joshua-sigston/brianwave/brianwave/services/identity"
	"github.com/joshua-sigston/brianwave/brianwave/services/llm"
	"github.com/joshua-sigston/brianwave/brianwave/services/summary"
	"github.com/joshua-sigston/brianwave/brianwave/sources/cache"
	"github.com/joshua-sigston/brianwave/brianwave/sources/psql"
	"github.com/joshua-sigston/brianwave/brianwave/sources/psql/dao"
	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.ErrorLogger.Error("configuration error", zap.Error(err))
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	var viewCache cache.ViewCache = cache.NopCache{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			logging.ErrorLogger.Error("redis connection error", zap.Error(err))
			os.Exit(1)
		}
		viewCache = redisCache
	}

	gateway := identity.NewGoTrueClient(cfg.IdentityURL, cfg.IdentityAnonKey)

	// No provider when the key is absent; the summarization path reports
	// ConfigurationMissing instead of the whole app refusing to start.
	var provider llm.Provider
	if cfg.OpenAIAPIKey != "" {
		provider = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		logging.AppLogger.Info("OPENAI_API_KEY not set, summarization disabled")
	}

	noteDAO := dao.NewNoteDAO(db.DB)
	notesCtrl := controllers.NewNotesController(noteDAO, viewCache)
	authCtrl := controllers.NewAuthController(gateway, cfg.SiteURL)
	healthCtrl := controllers.NewHealthController()
	summarizer := summary.NewService(noteDAO, provider, viewCache)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middlewares.SessionGuard(gateway))

	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/notes", routes.NotesRoutes(notesCtrl, summarizer, viewCache))
	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/", routes.PageRoutes(notesCtrl, viewCache))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	logging.AppLogger.Info("server started", zap.String("addr", cfg.Addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
