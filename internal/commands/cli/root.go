// Package cli provides the CLI command structure for go_arqc.
package cli

import (
	"fmt"

	"github.com/andrei-cloud/go_arqc/internal/config"
	"github.com/andrei-cloud/go_arqc/internal/logging"
	"github.com/spf13/cobra"
)

// NewRootCommand creates and returns the root command with all subcommands.
func NewRootCommand() (*cobra.Command, error) {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "go_arqc",
		Short: "EMV application cryptogram generator and verifier",
		Long: `Generate and verify EMV Application Request Cryptograms (ARQC) for Visa and
Mastercard cards, derive card and session keys and inspect Issuer Application Data.
The serve command exposes the same functions over TCP and HTTP.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Initialize configuration before running any command.
			if err := config.Initialize(cfgFile, cmd.Flags()); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			cfg := config.Get()
			logging.InitLogger(cfg.Log.Level, cfg.Log.Format)

			return nil
		},
	}

	// Add persistent flags that affect all commands.
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.go_arqc/config.yaml)")

	// Add global flags that can override config file settings.
	rootCmd.PersistentFlags().String("log-level", "info", "logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "human", "logging format (human, json)")

	// Register all commands.
	if err := RegisterCommands(rootCmd); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	return rootCmd, nil
}
