package worker

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	orderUsecases "github.com/orris-inc/ticketry/internal/application/order/usecases"
	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/infrastructure/database"
	"github.com/orris-inc/ticketry/internal/infrastructure/repository"
	"github.com/orris-inc/ticketry/internal/infrastructure/scheduler"
	"github.com/orris-inc/ticketry/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

var opts bootstrap.Options

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run background jobs",
		Long:  `Run the scheduled jobs, currently the expiry of pending orders past their deadline.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Setup(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log = log.Named("worker")
	log.Infow("starting worker", "environment", opts.Env)

	dispatcher := events.NewInMemoryDispatcher(64, log)
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	defer func() {
		if err := dispatcher.Stop(); err != nil {
			log.Errorw("failed to stop event dispatcher", "error", err)
		}
	}()

	expire := orderUsecases.NewExpireOrdersUseCase(
		repository.NewOrderRepository(database.Get()),
		dispatcher,
		cfg.Worker.ExpiryBatchSize,
		log,
	)

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	interval := time.Duration(cfg.Worker.ExpiryIntervalSeconds) * time.Second
	if err := manager.RegisterOrderExpiryJob(expire, interval, cfg.Worker.ExpiryBatchSize); err != nil {
		return fmt.Errorf("failed to register order expiry job: %w", err)
	}

	manager.Start()
	log.Infow("worker started", "expiry_interval", interval.String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	signal.Stop(quit)

	log.Infow("received signal, shutting down", "signal", sig.String())
	if err := manager.Shutdown(); err != nil {
		log.Errorw("scheduler shutdown failed", "error", err)
		return err
	}

	log.Infow("worker stopped")
	return nil
}
