// Package bootstrap holds the startup steps shared by the CLI commands.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	orderUsecases "github.com/orris-inc/ticketry/internal/application/order/usecases"
	"github.com/orris-inc/ticketry/internal/infrastructure/cache"
	"github.com/orris-inc/ticketry/internal/infrastructure/config"
	"github.com/orris-inc/ticketry/internal/infrastructure/database"
	"github.com/orris-inc/ticketry/internal/infrastructure/email"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// Options are the flags every command shares.
type Options struct {
	Env        string
	ConfigPath string
}

// Setup loads the configuration and initializes the logger, the business
// timezone and the database connection. Callers close the database.
func Setup(opts Options) (*config.Config, logger.Interface, error) {
	if envVar := os.Getenv("ENV"); envVar != "" {
		opts.Env = envVar
	}

	cfg, err := config.Load(opts.Env, opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = MapEnvToGinMode(opts.Env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == gin.DebugMode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, log, nil
}

// ConfigureGin sets the gin mode and silences its debug route printing,
// which the request logger replaces.
func ConfigureGin(mode string) {
	gin.SetMode(mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(string, string, string, int) {}
}

// ConnectRedis returns nil when Redis is optional and unreachable. With the
// redis session backend a failed connection is an error.
func ConnectRedis(ctx context.Context, cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	required := cfg.Checkout.SessionBackend == "redis"
	if !required && cfg.Checkout.PlaceOrderPerMinute <= 0 {
		return nil, nil
	}

	client, err := cache.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		if required {
			return nil, err
		}
		log.Warnw("redis unavailable, order placement is not rate limited", "error", err)
		return nil, nil
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	return client, nil
}

// NewMailSender sends over SMTP when a host is configured and only logs
// otherwise.
func NewMailSender(cfg *config.Config, log logger.Interface) orderUsecases.MailSender {
	if cfg.Email.SMTPHost == "" {
		return email.NewNopSender(log)
	}
	return email.NewSMTPSender(cfg.Email, log)
}

func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
