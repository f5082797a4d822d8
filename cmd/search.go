package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/wine-searcher-crawler/internal/search"
	"github.com/JakeFAU/wine-searcher-crawler/internal/server"
)

func newSearchCmd(e *env) *cobra.Command {
	var (
		q     search.Query
		fetch fetchFlags
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search one wine and print the result as JSON",
		Example: `  winecrawler search --winery "Opus One" --variety "Cabernet Sauvignon" \
    --vintage 2018 --region "Napa Valley"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := q.Validate(time.Now()); err != nil {
				return err
			}
			opts, err := fetch.resolve(cmd, e.cfg)
			if err != nil {
				return err
			}
			cfg := e.cfg
			cfg.Fetch.BrowserProfile = string(opts.BrowserProfile)
			cfg.Fetch.TimeoutMs = opts.TimeoutMs

			service, err := server.NewSearchService(cfg, e.logger)
			if err != nil {
				return err
			}
			result, err := service.Search(cmd.Context(), q)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Winery, "winery", "", "winery name")
	cmd.Flags().StringVar(&q.Variety, "variety", "", "grape variety")
	cmd.Flags().IntVar(&q.Vintage, "vintage", 0, "vintage year")
	cmd.Flags().StringVar(&q.Region, "region", "", "wine region")
	for _, name := range []string{"winery", "variety", "vintage", "region"} {
		_ = cmd.MarkFlagRequired(name)
	}
	fetch.register(cmd, false)
	return cmd
}
