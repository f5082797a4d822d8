package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/wine-searcher-crawler/internal/config"
	"github.com/JakeFAU/wine-searcher-crawler/internal/crawler"
)

// fetchFlags are the per-invocation overrides of the configured fetch policy.
type fetchFlags struct {
	profile   string
	timeoutMs int
	headers   []string
	userAgent string
}

func (f *fetchFlags) register(cmd *cobra.Command, withHeaders bool) {
	cmd.Flags().StringVar(&f.profile, "profile", string(crawler.DefaultBrowserProfile),
		"browser profile to impersonate ("+joinProfiles()+")")
	cmd.Flags().IntVar(&f.timeoutMs, "timeout-ms", crawler.DefaultTimeoutMs, "fetch timeout in milliseconds")
	if withHeaders {
		cmd.Flags().StringArrayVar(&f.headers, "header", nil, "extra request header as name:value (repeatable)")
		cmd.Flags().StringVar(&f.userAgent, "user-agent", "", "override the User-Agent header")
	}
}

// resolve starts from cfg and applies only the flags the user set.
func (f *fetchFlags) resolve(cmd *cobra.Command, cfg config.Config) (crawler.FetchOptions, error) {
	opts := cfg.FetchOptions()
	flags := cmd.Flags()
	if flags.Changed("profile") {
		p, err := crawler.ParseBrowserProfile(f.profile)
		if err != nil {
			return crawler.FetchOptions{}, err
		}
		opts.BrowserProfile = p
	}
	if flags.Changed("timeout-ms") {
		if f.timeoutMs <= 0 {
			return crawler.FetchOptions{}, fmt.Errorf("--timeout-ms must be > 0")
		}
		opts.TimeoutMs = f.timeoutMs
	}
	if flags.Changed("user-agent") {
		opts.UserAgent = f.userAgent
	}
	if len(f.headers) > 0 {
		merged := make(map[string]string, len(opts.Headers)+len(f.headers))
		for k, v := range opts.Headers {
			merged[k] = v
		}
		for _, raw := range f.headers {
			name, value, ok := strings.Cut(raw, ":")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				return crawler.FetchOptions{}, fmt.Errorf("invalid --header %q, want name:value", raw)
			}
			merged[name] = strings.TrimSpace(value)
		}
		opts.Headers = merged
	}
	return opts, nil
}

func joinProfiles() string {
	profiles := crawler.BrowserProfiles()
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
