// Package cli implements the goquant command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evdnx/goquant/config"
	"github.com/evdnx/goquant/internal/logger"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

const serviceName = "goquant"

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	configPath string
	logLevel   string

	cfg config.IndicatorConfig
	log *slog.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "goquant",
		Short: "goquant - technical indicator engine",
		Long: `goquant computes technical-analysis indicators (moving averages, oscillators,
volatility bands, trend strength) over OHLCV bars fetched from a market data
service, Yahoo Finance or a local CSV file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newCalcCmd(a))
	rootCmd.AddCommand(newSummaryCmd(a))
	rootCmd.AddCommand(newFetchCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.New(cmd.ErrOrStderr(), serviceName, level)
	return nil
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goquant %s\n", Version)
		},
	}
}
