package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"techvibe/internal/config"
	"techvibe/internal/infrastructure/blob"
	"techvibe/internal/infrastructure/feed"
	"techvibe/internal/infrastructure/gemini"
	"techvibe/internal/infrastructure/scheduler"
	"techvibe/internal/infrastructure/storage"
	"techvibe/internal/infrastructure/tts"
	"techvibe/internal/logging"
	"techvibe/internal/server"
	"techvibe/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	db        *sql.DB
	server    *server.Server
	scheduler *usecase.Scheduler
	logger    *slog.Logger
}

// New builds a runnable application instance with explicit dependency
// injection; credentials come only from config.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repository := storage.NewPostgresRepository(db)

	aggregator := feed.NewAggregator(
		feed.NewFetcher(nil),
		feed.NewParser(),
		cfg.Feeds,
		baseLogger.With("component", "aggregator"),
	)

	generator := usecase.NewGenerator(usecase.GeneratorDeps{
		Source:     aggregator,
		Scripts:    gemini.NewClient(cfg.Gemini),
		Speech:     tts.NewClient(cfg.TTS),
		Repository: repository,
		Blobs:      blob.NewClient(cfg.Storage),
		Logger:     baseLogger.With("component", "generator"),
	})

	handler := server.NewHandler(generator, repository, baseLogger.With("component", "server"))
	srv := server.New(cfg.Server, handler)

	var sched *usecase.Scheduler
	if cfg.Scheduler.Enabled {
		driver := scheduler.NewTickerScheduler(cfg.Scheduler.IntervalDuration())
		sched = usecase.NewScheduler(driver, generator)
	}

	return &Application{
		cfg:       cfg,
		db:        db,
		server:    srv,
		scheduler: sched,
		logger:    baseLogger,
	}, nil
}

// Run starts the optional recurring trigger and blocks on the HTTP server.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() { _ = a.scheduler.Stop(ctx) }()
	}

	a.logger.Info("listening", "addr", a.cfg.Server.Addr)
	err := a.server.ListenAndServe(ctx)

	if closeErr := a.db.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close database: %w", closeErr)
	}

	return err
}
