// Package server initializes and runs the GophAuth server: it selects the
// storage backend, applies migrations, and serves gRPC plus metrics until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/passwords"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	repos       repomanager.RepositoryManager
	authService *services.AuthService
	metrics     *metrics.Metrics
}

// NewApp validates c and opens the configured stores. Nothing is served
// until Run.
func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, _ := logging.ParseLevel(c.LogLevel)
	logger := logging.NewJSONLogger(os.Stdout, level)

	app := &App{config: c, logger: logger, metrics: metrics.New()}
	if err := app.openStores(); err != nil {
		app.close()
		return nil, err
	}

	app.authService = services.NewAuthService(
		app.repos,
		passwords.NewArgon2idHasher(c.HashingConcurrency),
		auth.NewJWTSigner(),
		services.NewTokenConfig(c),
		services.WithLogger(logger),
	)

	return app, nil
}

func (app *App) openStores() error {
	if app.config.SessionBackend == config.BackendMemory {
		app.repos = repomanager.NewInMemoryRepositoryManager()
		return nil
	}

	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	if app.config.SessionBackend == config.BackendRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     app.config.RedisAddr,
			Password: app.config.RedisPassword,
		})
		app.redis = rdb

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis init error: %w", err)
		}

		app.repos = repomanager.NewPostgresRedisRepositoryManager(db, rdb)
		return nil
	}

	app.repos = repomanager.NewPostgresRepositoryManager(db)
	return nil
}

// ready reports whether every backing store answers.
func (app *App) ready(ctx context.Context) error {
	var errs []error
	if app.db != nil {
		if err := app.db.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	if app.redis != nil {
		if err := app.redis.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run migrates the schema, then serves gRPC and metrics until ctx is
// cancelled, a shutdown signal arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) error {
	defer app.close()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "session_backend", app.config.SessionBackend)

	if err := app.repos.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migrations failed", logging.ErrorAttrs(err)...)
		return fmt.Errorf("migrations: %w", err)
	}

	app.initSignalHandler(ctx, cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.metrics)
		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, "grpc server failed", logging.ErrorAttrs(err)...)
			return err
		}
		return nil
	})

	if app.config.MetricsAddr != "" {
		g.Go(func() error {
			s := metrics.NewServer(app.config.MetricsAddr, app.metrics, app.ready, app.logger)
			if err := s.Run(ctx); err != nil {
				app.logger.Error(ctx, "metrics server failed", logging.ErrorAttrs(err)...)
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

func (app *App) close() {
	if app.redis != nil {
		_ = app.redis.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
}
