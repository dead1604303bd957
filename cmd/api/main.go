package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/justsurfingit/brightpath/internal/auth"
	"github.com/justsurfingit/brightpath/internal/config"
	"github.com/justsurfingit/brightpath/internal/database"
	"github.com/justsurfingit/brightpath/internal/handlers"
	"github.com/justsurfingit/brightpath/internal/logger"
	"github.com/justsurfingit/brightpath/internal/services"
	"github.com/justsurfingit/brightpath/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "brightpath-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Options{JSON: cfg.Log.JSON, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(cfg, log)
	if err != nil {
		return err
	}
	appService := services.NewApplicationService(repo, log)

	// The AI routes answer 503 without a key; everything else still works.
	var generator handlers.Generator
	llmService, err := services.NewLLMService(ctx, cfg.LLM.APIKey, cfg.LLM.Model, log)
	if err != nil {
		log.Warnw("AI generation disabled", "error", err)
	} else {
		generator = llmService
	}

	if llmService != nil {
		startInboxWatcher(ctx, cfg, services.ApplicationStore{Service: appService}, llmService, log)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Applications:    handlers.NewApplicationHandler(appService, log),
		AI:              handlers.NewAIHandler(generator, log),
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		AIRatePerMinute: cfg.Server.AIRatePerMinute,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infow("Server starting", "port", cfg.Server.Port, "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openRepository(cfg *config.Config, log *zap.SugaredLogger) (database.ApplicationRepository, error) {
	if cfg.Database.Driver == "memory" {
		log.Warnw("Using the in-memory repository, data is lost on restart")
		return database.NewMemoryRepository(), nil
	}
	db, err := database.Connect(cfg.Database.DSN, log)
	if err != nil {
		return nil, err
	}
	return database.NewGormRepository(db), nil
}

// startInboxWatcher runs the Gmail sync in the background when a cached token exists.
func startInboxWatcher(ctx context.Context, cfg *config.Config, store services.ApplicationStore, llm *services.LLMService, log *zap.SugaredLogger) {
	httpClient, err := auth.GmailHTTPClient(ctx, cfg.Gmail.Credentials, cfg.Gmail.Token, nil, nil)
	if err != nil {
		log.Warnw("Gmail watcher disabled", "error", err)
		return
	}
	gmailService, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		log.Warnw("Failed to create Gmail service", "error", err)
		return
	}
	state, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		log.Warnw("Gmail watcher disabled, no state storage", "error", err)
		return
	}

	inbox := services.NewInboxService(store, services.NewGmailSource(gmailService, log), llm, state, log)
	go func() {
		_ = inbox.StartWatcher(ctx, cfg.Inbox.Interval)
	}()
	log.Infow("Gmail watcher started", "interval", cfg.Inbox.Interval)
}
