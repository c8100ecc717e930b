package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rupeewave/teller/internal/config"
	"github.com/rupeewave/teller/internal/gateway"
	"github.com/rupeewave/teller/internal/log"
	"github.com/rupeewave/teller/internal/session"
	"github.com/rupeewave/teller/internal/tui"
)

var (
	flagAPIURL    string
	flagLogLevel  string
	flagLogFormat string
	flagLogFile   string
)

var rootCmd = &cobra.Command{
	Use:   "teller",
	Short: "Terminal client for the RupeeWave banking service",
	Long: `teller is an interactive terminal for bank staff and customers.
It signs in against the RupeeWave backend and drives the full set of
counter operations: account and user creation, deposits, withdrawals,
transfers, balance enquiry, PIN changes, contact updates, and
transaction history.

The backend endpoint is resolved from --api-url, the TELLER_API_URL
environment variable, or the config file, in that order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "banking service base URL (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format (json, text)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write structured logs to this file")
}

// resolveConfig loads the file and environment configuration, then lets
// flags win
func resolveConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if flagAPIURL != "" {
		cfg.BaseURL = strings.TrimRight(flagAPIURL, "/")
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
	return cfg, nil
}

// newLogger builds the logger for a resolved configuration. Without a
// log file everything is discarded; the alternate screen belongs to the
// UI.
func newLogger(cfg config.Config) *log.Logger {
	out := log.OutputDiscard()
	if cfg.LogFile != "" {
		out = log.OutputFile(cfg.LogFile)
	}
	return log.New(log.Config{
		Level:       log.ParseLevel(cfg.LogLevel),
		Format:      log.ParseFormat(cfg.LogFormat),
		Output:      out,
		ServiceName: "teller",
	})
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	log.SetDefaultLogger(logger)

	gw := gateway.NewClient(cfg.BaseURL, gateway.WithLogger(logger))
	sessions := session.NewController(gw, logger)

	logger.Info("starting terminal", "base_url", cfg.BaseURL)
	return tui.Run(cmd.Context(), gw, sessions, logger)
}
