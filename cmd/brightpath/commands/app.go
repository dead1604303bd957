// Package commands implements the brightpath CLI.
package commands

import (
	"context"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/aiclient"
	"github.com/justsurfingit/brightpath/internal/auth"
	"github.com/justsurfingit/brightpath/internal/config"
	"github.com/justsurfingit/brightpath/internal/httpapi"
	"github.com/justsurfingit/brightpath/internal/lifecycle"
	"github.com/justsurfingit/brightpath/internal/logger"
	"github.com/justsurfingit/brightpath/internal/persistence"
	"github.com/justsurfingit/brightpath/internal/persistence/local"
	"github.com/justsurfingit/brightpath/internal/persistence/remote"
	"github.com/justsurfingit/brightpath/internal/storage"
)

// Set by the root command's persistent flags.
var (
	ConfigFile string
	EnvFile    string
	Verbose    bool
)

// App is everything a command needs, assembled once from configuration.
type App struct {
	Config    *config.Config
	Logger    *zap.SugaredLogger
	Storage   storage.Storage
	Tokens    *auth.StorageTokenSource
	Store     persistence.Store
	AI        *aiclient.Client
	Indicator *remote.Indicator
}

// Setup loads configuration and assembles the App.
func Setup(ctx context.Context) (*App, error) {
	cfg, err := config.Load(config.Options{ConfigFile: ConfigFile, EnvFile: EnvFile})
	if err != nil {
		return nil, err
	}
	opts := logger.Options{JSON: cfg.Log.JSON, Level: cfg.Log.Level}
	if Verbose {
		opts.Level = "debug"
	}
	log, err := logger.New(opts)
	if err != nil {
		return nil, err
	}
	s, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, s, log), nil
}

// NewApp wires the persistence strategy cfg selects on top of s.
func NewApp(cfg *config.Config, s storage.Storage, log *zap.SugaredLogger) *App {
	log = logger.OrNop(log)
	app := &App{
		Config:    cfg,
		Logger:    log,
		Storage:   s,
		Tokens:    auth.NewStorageTokenSource(s, cfg.Storage.TokenKey),
		Indicator: &remote.Indicator{},
	}

	api := httpapi.New(httpapi.Config{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Tokens:  app.Tokens,
		Logger:  log,
	})
	app.AI = aiclient.New(api, aiclient.Config{
		Development: cfg.IsDevelopment(),
		ForceMock:   cfg.UseMock(),
		Indicator:   app.Indicator,
		Logger:      log,
	})

	switch cfg.Persistence.Strategy {
	case config.StrategyRemote:
		backend := remote.NewFallback(remote.NewClient(api, log), remote.NewMock(), remote.FallbackConfig{
			Development: cfg.IsDevelopment(),
			ForceMock:   cfg.UseMock(),
			Indicator:   app.Indicator,
			Logger:      log,
		})
		app.Store = remote.NewStore(backend)
		log.Debugw("Using remote persistence", "url", cfg.API.URL)
	default:
		app.Store = local.NewStore(s, local.Config{Key: cfg.Storage.Key, Logger: log})
		log.Debugw("Using local persistence", "driver", cfg.Storage.Driver)
	}
	return app
}

// Controller returns a lifecycle controller over the App's store.
func (a *App) Controller(confirm lifecycle.Confirmer) *lifecycle.Controller {
	return lifecycle.New(a.Store, confirm, a.Logger)
}

// MockBanner tells the user when sample data stood in for the backend.
func (a *App) MockBanner() {
	if !a.Indicator.Active() {
		return
	}
	op, _ := a.Indicator.Last()
	pterm.Warning.Printfln("Mock mode: the backend is unreachable, showing sample data (last: %s)", op)
}
