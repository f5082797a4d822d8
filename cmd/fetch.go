package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/wine-searcher-crawler/internal/config"
	"github.com/JakeFAU/wine-searcher-crawler/internal/fetcher/impersonate"
	"github.com/JakeFAU/wine-searcher-crawler/internal/server"
)

func newFetchCmd(e *env) *cobra.Command {
	var (
		fetch  fetchFlags
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a page with the configured backend and print the body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := fetch.resolve(cmd, e.cfg)
			if err != nil {
				return err
			}

			if dryRun {
				if e.cfg.Fetch.Backend != config.BackendImpersonate {
					return errors.New("--dry-run requires fetch.backend=impersonate")
				}
				f := impersonate.New(impersonate.Config{
					BinaryDir:      e.cfg.Fetch.BinaryDir,
					MaxOutputBytes: e.cfg.Fetch.MaxOutputBytes,
				}, e.logger)
				c, err := f.Command(args[0], opts)
				if err != nil {
					return err
				}
				return writeLine(cmd.OutOrStdout(), c.String())
			}

			f, err := server.NewFetcher(e.cfg, e.logger.Named("fetcher"))
			if err != nil {
				return err
			}
			body, err := f.Fetch(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), body)
		},
	}
	fetch.register(cmd, true)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the escaped command line instead of running it")
	return cmd
}
