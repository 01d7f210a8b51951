// Package root contains the root command for the application
package root

import (
	"fjacquet/donation-docs/internal/config"
	"fjacquet/donation-docs/internal/fileutils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, available after
	// PersistentPreRun has executed.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "donation-docs",
		Short: "Generate donation-on-behalf notices and allocation detail tables.",
		Long: `donation-docs reads charity ledgers and unit-holding rosters, renders one
donation notice per donated product from a template, and splits each donated
amount across the product's holders in proportion to their shares, with exact
decimal arithmetic.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to donation-docs!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			fileutils.SetLogger(Log)
		},
	}
)
