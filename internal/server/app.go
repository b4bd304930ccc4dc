// Package server собирает зависимости SmartNLP backend и запускает HTTP сервер
// с корректным завершением по сигналу.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/smartnlp/internal/config"
	"github.com/iudanet/smartnlp/internal/server/aiclient"
	"github.com/iudanet/smartnlp/internal/server/archive"
	"github.com/iudanet/smartnlp/internal/server/identity"
	"github.com/iudanet/smartnlp/internal/server/jwt"
	"github.com/iudanet/smartnlp/internal/server/middleware"
	"github.com/iudanet/smartnlp/internal/server/storage/sqldb"
)

const (
	shutdownTimeout      = 10 * time.Second
	sessionPurgeInterval = time.Hour
)

// App владеет всеми долгоживущими ресурсами сервера
type App struct {
	config   *config.Config
	logger   *slog.Logger
	storage  *sqldb.Storage
	identity *identity.Store
	limiter  *middleware.RateLimiter
	server   *http.Server
}

// NewApp открывает хранилище и собирает зависимости
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*App, error) {
	db, err := sqldb.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	audio, err := archive.New(ctx, cfg.S3)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive init error: %w", err)
	}

	ids := identity.NewStore(logger, db, db, jwt.NewService(cfg.JWT.Secret, cfg.JWT.ExpiresIn))
	proxies, err := cfg.RateLimit.Proxies()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rate limit config error: %w", err)
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger, proxies...)

	backend := aiclient.New(aiclient.Config{
		BaseURL: cfg.AIModel.BaseURL,
		APIKey:  cfg.AIModel.APIKey,
		Timeout: cfg.AIModel.Timeout,
	}, logger)

	router := NewRouter(Deps{
		Logger:     logger,
		Identity:   ids,
		Operations: db,
		Backend:    backend,
		Archive:    audio,
		DB:         db,
		Limiter:    limiter,
		Version:    version,
	})

	return &App{
		config:   cfg,
		logger:   logger,
		storage:  db,
		identity: ids,
		limiter:  limiter,
		server: &http.Server{
			Addr:         cfg.HTTPServer.Address,
			Handler:      router,
			ReadTimeout:  cfg.HTTPServer.ReadTimeout,
			WriteTimeout: cfg.HTTPServer.WriteTimeout,
			IdleTimeout:  cfg.HTTPServer.IdleTimeout,
			ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
	}, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.identity.RunSessionPurge(ctx, sessionPurgeInterval)

	errC := make(chan error, 1)
	go func() {
		a.logger.InfoContext(ctx, "starting HTTP server",
			slog.String("address", a.server.Addr),
			slog.String("db_driver", a.config.Database.Driver),
			slog.Bool("audio_archive", a.config.S3.Enabled()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err, ok := <-errC:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down HTTP server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	return nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	a.limiter.Stop()
	return a.storage.Close()
}
