// Package cmd defines and implements the CLI commands for the winecrawler executable.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/wine-searcher-crawler/internal/config"
	"github.com/JakeFAU/wine-searcher-crawler/internal/logging"
)

// env is what PersistentPreRunE resolves for every subcommand.
type env struct {
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
}

// newLogger is a variable so tests can silence output.
var newLogger = logging.New

// newRootCmd creates and configures the root command and its subcommands.
func newRootCmd() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:   "winecrawler",
		Short: "Look up wine ratings and prices on wine-searcher.com.",
		Long: `winecrawler fetches a wine-searcher find page through a browser-impersonating
HTTP client, extracts the wine, its critic ratings, and its average price,
and returns them as JSON. It runs as an HTTP service or as one-shot commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		// Config and logger are built once here, before any subcommand's RunE.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(e.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := newLogger(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("logger init failed: %w", err)
			}
			e.cfg = cfg
			e.logger = logger
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&e.cfgFile, "config", "", "config file (yaml, toml or json)")

	cmd.AddCommand(newServeCmd(e))
	cmd.AddCommand(newSearchCmd(e))
	cmd.AddCommand(newFetchCmd(e))

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeLine(w io.Writer, s string) error {
	if _, err := fmt.Fprintln(w, s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
