package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	catalogApp "github.com/orris-inc/ticketry/internal/application/catalog"
	paymentUsecases "github.com/orris-inc/ticketry/internal/application/payment/usecases"
	seedApp "github.com/orris-inc/ticketry/internal/application/seed"
	"github.com/orris-inc/ticketry/internal/infrastructure/database"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/providers"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/stripe"
	"github.com/orris-inc/ticketry/internal/infrastructure/repository"
	tmpl "github.com/orris-inc/ticketry/internal/infrastructure/template"
	"github.com/orris-inc/ticketry/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/ticketry/internal/shared/db"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

var (
	opts bootstrap.Options
	file string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load an event fixture",
		Long:  `Create an organizer, an event, its catalog and payment provider settings from a YAML fixture.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the fixture (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	fh, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open fixture: %w", err)
	}
	defer fh.Close()

	fixture, err := seedApp.Parse(fh)
	if err != nil {
		return err
	}

	cfg, log, err := bootstrap.Setup(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	gdb := database.Get()
	tx := db.NewTransactionManager(gdb)
	orders := repository.NewOrderRepository(gdb)
	settings := repository.NewEventSettingRepository(gdb, log)
	events := repository.NewEventRepository(gdb)

	catalog := catalogApp.NewServiceDDD(catalogApp.Repositories{
		Categories: repository.NewCategoryRepository(gdb),
		Items:      repository.NewItemRepository(gdb),
		Questions:  repository.NewQuestionRepository(gdb),
		Quotas:     repository.NewQuotaRepository(gdb),
		Orders:     orders,
	}, tx, log)

	registry, err := providers.NewRegistry(stripe.NewAPIGateway(cfg.Stripe, nil, log))
	if err != nil {
		return err
	}
	renderer, err := tmpl.NewHTMLRenderer("", log)
	if err != nil {
		return err
	}
	set := paymentUsecases.NewProviderSet(registry, settings, renderer, nil, log)

	loader := seedApp.NewLoader(events, catalog, paymentUsecases.NewUpdateProviderSettingsUseCase(set, settings, tx, log), log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := loader.Load(ctx, fixture)
	if err != nil {
		log.Errorw("failed to load fixture", "file", file, "error", err)
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nSeeded %s/%s (event id %d)\n", fixture.Organizer.Slug, fixture.Event.Slug, res.EventID)
	fmt.Fprintf(out, "  Categories: %d\n", res.Categories)
	fmt.Fprintf(out, "  Items:      %d\n", res.Items)
	fmt.Fprintf(out, "  Questions:  %d\n", res.Questions)
	fmt.Fprintf(out, "  Quotas:     %d\n", res.Quotas)
	fmt.Fprintf(out, "  Providers:  %d\n", res.Providers)
	return nil
}
