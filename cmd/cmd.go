package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/veriseal-network/supply-indexer/internal/config"
	"github.com/veriseal-network/supply-indexer/pkg/logger"
	"github.com/veriseal-network/supply-indexer/pkg/logger/slogx"
)

var cmd = &cobra.Command{
	Use:  "veriseal",
	Long: `Veriseal supply indexer: indexes client-side-validated fungible asset operations and serves supply state.`,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g.  `./config.yaml`")
	flags.String("network", "mainnet", "network to connect to, E.g. `mainnet` or `testnet`")

	// Bind flags to configuration
	config.BindPFlag("network", flags.Lookup("network"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		conf := config.Parse(configFile)

		if err := logger.Init(conf.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", conf.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	cmd.AddCommand(
		NewRunCommand(),
		NewVersionCommand(),
		NewMigrateCommand(),
	)

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Panic("Failed to execute root command", slogx.Error(err))
	}
}
