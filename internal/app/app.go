package app

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"odds-forecaster/internal/alerting"
	"odds-forecaster/internal/config"
	"odds-forecaster/internal/fetcher"
	"odds-forecaster/internal/history"
	"odds-forecaster/internal/service"
	"odds-forecaster/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer

	source fetcher.OddsSource
	mirror storage.ForecastStore
	now    func() time.Time
}

var errNoDatabase = errors.New("database.dsn not configured")

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger.With().Str("component", "app").Logger(),
		Out:    os.Stdout,
		now:    time.Now,
	}
}

// newOddsSource fails with config.ErrMissingAPIKey before any request is
// made when no credential is configured.
func (a *App) newOddsSource() (fetcher.OddsSource, error) {
	if a.source != nil {
		return a.source, nil
	}
	if err := a.Config.RequireOddsAPI(); err != nil {
		return nil, err
	}

	return fetcher.NewOddsAPI(fetcher.OddsAPIOptions{
		BaseURL:   a.Config.OddsAPI.BaseURL,
		APIKey:    a.Config.OddsAPI.APIKey,
		Regions:   a.Config.OddsAPI.Regions,
		Markets:   a.Config.OddsAPI.Markets,
		Timeout:   a.Config.OddsAPI.RequestTimeout,
		UserAgent: a.Config.OddsAPI.UserAgent,
	}, a.Logger), nil
}

func (a *App) historyStore() *history.FileStore {
	return history.NewFileStore(a.Config.Forecast.HistoryPath, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if !a.Config.Alerting.Enabled {
		return nil
	}
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}

	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// requireMirror opens the Postgres mirror for commands that cannot work
// without it.
func (a *App) requireMirror(ctx context.Context) (storage.ForecastStore, func(), error) {
	if a.mirror != nil {
		return a.mirror, nil, nil
	}
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, errNoDatabase
	}
	return store, closeStore, nil
}

// openMirror opens the optional Postgres mirror. Failures only disable it,
// the history file stays authoritative.
func (a *App) openMirror(ctx context.Context) (storage.ForecastStore, func()) {
	if a.mirror != nil {
		return a.mirror, nil
	}
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("database unavailable; mirror disabled")
		return nil, nil
	}
	if store == nil {
		a.Logger.Debug().Msg("database.dsn not configured; mirror disabled")
		return nil, nil
	}
	return store, closeStore
}

func (a *App) newForecaster(src fetcher.OddsSource, mirror storage.ForecastStore) (*service.Forecaster, error) {
	loc, err := a.Config.Location()
	if err != nil {
		return nil, err
	}

	lockKey := int64(0)
	if mirror != nil {
		lockKey = a.Config.Scheduler.AdvisoryLockKey
	}

	return service.New(service.Options{
		Competitions:    a.Config.Forecast.Competitions,
		TopN:            a.Config.Forecast.TopN,
		WindowDays:      a.Config.Forecast.WindowDays,
		Location:        loc,
		AdvisoryLockKey: lockKey,
		Now:             a.now,
	}, src, a.historyStore(), mirror, a.newNotifier(), a.Logger), nil
}

// ForecastOptions configure the forecast command.
type ForecastOptions struct {
	All    bool
	DryRun bool
}

// WatchOptions configure the watch loop.
type WatchOptions struct {
	RunImmediately bool
}

// HistoryOptions configure the history command.
type HistoryOptions struct {
	Limit  int
	FromDB bool
}

// ExportOptions hold parameters for exporting stored forecasts.
type ExportOptions struct {
	PNGPath    string
	CSVPath    string
	MaxRecords int
}

// BackfillOptions configure the mirror backfill.
type BackfillOptions struct {
	DryRun bool
}
