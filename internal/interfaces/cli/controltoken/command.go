package controltoken

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/ticketry/internal/infrastructure/auth"
	"github.com/orris-inc/ticketry/internal/infrastructure/config"
)

var (
	env        string
	configPath string
	operator   string
	organizer  string
	ttl        time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "control-token",
		Short: "Issue a control API token",
		Long:  `Print a short-lived signed token for the control API, optionally limited to one organizer.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVar(&operator, "operator", "", "Name of the operator the token is issued to (required)")
	cmd.Flags().StringVar(&organizer, "organizer", "", "Limit the token to this organizer slug")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("operator")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	token, err := auth.NewControlTokenService(cfg.Server.ControlToken).Issue(operator, organizer, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
