package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/infrastructure/config"
	"github.com/orris-inc/ticketry/internal/infrastructure/database"
	"github.com/orris-inc/ticketry/internal/infrastructure/migration"
	"github.com/orris-inc/ticketry/internal/infrastructure/tracing"
	"github.com/orris-inc/ticketry/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/ticketry/internal/interfaces/http"
	"github.com/orris-inc/ticketry/internal/shared/goroutine"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

const eventBufferSize = 100

var (
	opts               bootstrap.Options
	autoMigrate        bool
	skipMigrationCheck bool
)

func NewCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the ticketry presale, webhook and control API server with the specified configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), version)
		},
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending migrations on startup (not recommended for production)")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")

	return cmd
}

func run(ctx context.Context, version string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := bootstrap.Setup(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	bootstrap.ConfigureGin(cfg.Server.Mode)

	log.Infow("starting server",
		"environment", opts.Env,
		"version", version,
		"auto_migrate", autoMigrate,
	)

	shutdownTracing, err := tracing.Init(&cfg.Tracing, version, log)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warnw("failed to flush traces", "error", err)
		}
	}()

	if err := handleMigrations(cfg, log); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	redisClient, err := bootstrap.ConnectRedis(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	dispatcher := events.NewInMemoryDispatcher(eventBufferSize, log)
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	defer func() {
		if err := dispatcher.Stop(); err != nil {
			log.Errorw("failed to stop event dispatcher", "error", err)
		}
	}()
	log.Infow("event dispatcher started")

	container, err := httpRouter.NewContainer(httpRouter.Dependencies{
		DB:      database.Get(),
		Redis:   redisClient,
		Config:  cfg,
		Events:  dispatcher,
		Mail:    bootstrap.NewMailSender(cfg, log),
		Version: version,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	container.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
			"base_url", cfg.Server.BaseURL,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(cfg *config.Config, log logger.Interface) error {
	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	if autoMigrate {
		if bootstrap.MapEnvToGinMode(opts.Env) == "release" {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}

		manager, err := migration.NewManager(cfg.Database.Driver, false, log)
		if err != nil {
			return err
		}
		return manager.Migrate(database.Get())
	}

	strategy, err := migration.NewGooseStrategy(cfg.Database.Driver, log)
	if err != nil {
		return err
	}
	version, err := strategy.GetVersion(database.Get())
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", version)
	return nil
}
