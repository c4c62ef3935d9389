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

	"github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/quizdesk/internal/answerkey"
	httpapi "github.com/aussiebroadwan/quizdesk/internal/http"
	"github.com/aussiebroadwan/quizdesk/internal/service"
	"github.com/aussiebroadwan/quizdesk/internal/store"
	"github.com/aussiebroadwan/quizdesk/internal/store/drivers/postgres"
	"github.com/aussiebroadwan/quizdesk/internal/store/drivers/sqlite"
	"github.com/aussiebroadwan/quizdesk/internal/verifier"
	"github.com/aussiebroadwan/quizdesk/pkg/cryptox"
	"github.com/aussiebroadwan/quizdesk/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application is one running service process with its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	redis *redis.Client

	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger for cfg.
func NewLogger(cfg Config) *slog.Logger {
	name := "quizdesk"
	if cfg.Role != "" {
		name = string(cfg.Role) + "-service"
	}
	return slogx.New(slogx.Config{
		Service: name,
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// OpenStore connects to the configured database without migrating it.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		return postgres.Open(ctx, cfg.DBDSN)
	case "sqlite":
		return sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// New wires the process for cfg.Role: store, services and router.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	router := httpapi.NewRouter(app.db, BuildVersion, app.logger)
	var err error
	switch cfg.Role {
	case RoleAuth:
		err = app.initAuth(router)
	case RoleQuiz:
		err = app.initQuiz(ctx, router)
	case RoleUsers:
		app.initUsers(router)
	default:
		err = fmt.Errorf("unknown role %q", cfg.Role)
	}
	if err != nil {
		app.closeResources()
		return nil, err
	}

	router.ApplyRoutes()
	app.router = router
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return app, nil
}

// Handler exposes the routed handler, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves until ctx is cancelled, a shutdown signal arrives or the
// listener fails.
func (app *Application) Run(ctx context.Context) error {
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
	}

	app.logger.Info("service starting", "role", app.cfg.Role, "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.closeResources()
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
	case <-ctx.Done():
		app.logger.Info("context cancelled")
	}

	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the pools.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down", "role", app.cfg.Role)

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.closeResources(); err != nil {
		return err
	}

	app.logger.Info("service stopped", "role", app.cfg.Role)
	return nil
}

func (app *Application) closeResources() error {
	if app.housekeepingService != nil {
		app.housekeepingService.Stop()
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			return err
		}
	}
	return nil
}

func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", db.Driver())
	return nil
}

func (app *Application) initAuth(router *httpapi.Router) error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	router.IdentityService = &service.IdentityService{
		Store:    app.db,
		Hasher:   cryptox.NewHasher(pepper, app.cfg.HashConcurrency, cryptox.DefaultParams),
		TokenTTL: app.cfg.TokenTTL,
		Timeout:  app.cfg.StoreTimeout,
	}

	hk := service.NewHousekeepingService(app.db, app.logger, app.cfg.HousekeepingInterval)
	hk.Timeout = app.cfg.StoreTimeout
	app.housekeepingService = hk
	return nil
}

func (app *Application) initQuiz(ctx context.Context, router *httpapi.Router) error {
	var key answerkey.Source = answerkey.NewStore(app.db)
	if app.cfg.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
		})
		cache := answerkey.NewRedis(app.redis, key, app.cfg.AnswerCacheTTL, app.logger)
		if err := cache.Ping(ctx); err != nil {
			// The grader falls back to the store while redis is down.
			app.logger.Warn("answer cache unreachable at startup", "addr", app.cfg.RedisAddr, "error", err)
		}
		router.Cache = cache
		key = cache
		app.logger.Info("answer cache enabled", "addr", app.cfg.RedisAddr, "ttl", app.cfg.AnswerCacheTTL)
	}

	router.Verifier = verifier.NewRemote(app.cfg.AuthURL, app.cfg.AuthTimeout, app.logger)
	router.QuestionService = &service.QuestionService{Store: app.db, Timeout: app.cfg.StoreTimeout}
	router.GraderService = &service.GraderService{Store: app.db, AnswerKey: key, Timeout: app.cfg.StoreTimeout}
	return nil
}

func (app *Application) initUsers(router *httpapi.Router) {
	router.Verifier = verifier.NewRemote(app.cfg.AuthURL, app.cfg.AuthTimeout, app.logger)
	router.LedgerService = &service.LedgerService{Store: app.db, Timeout: app.cfg.StoreTimeout}
}
