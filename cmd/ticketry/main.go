package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/ticketry/internal/interfaces/cli/controltoken"
	"github.com/orris-inc/ticketry/internal/interfaces/cli/migrate"
	"github.com/orris-inc/ticketry/internal/interfaces/cli/seed"
	"github.com/orris-inc/ticketry/internal/interfaces/cli/server"
	"github.com/orris-inc/ticketry/internal/interfaces/cli/worker"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "ticketry",
		Short:   "Ticketry - event ticket shop",
		Long:    `Ticketry sells event tickets with pluggable payment providers. It ships the shop server, the background worker, migration tools and fixture loading.`,
		Version: Version,
	}

	rootCmd.AddCommand(
		server.NewCommand(Version),
		worker.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
		controltoken.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
