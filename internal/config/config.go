// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/wine-searcher-crawler/internal/crawler"
	"github.com/JakeFAU/wine-searcher-crawler/internal/extractor"
	"github.com/JakeFAU/wine-searcher-crawler/internal/fetcher/impersonate"
	"github.com/JakeFAU/wine-searcher-crawler/internal/search"
)

// Fetch backends selectable through fetch.backend.
const (
	BackendImpersonate = "impersonate"
	BackendColly       = "colly"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig        `mapstructure:"server"`
	Logging   LoggingConfig       `mapstructure:"logging"`
	Fetch     FetchConfig         `mapstructure:"fetch"`
	Site      SiteConfig          `mapstructure:"site"`
	Selectors extractor.Selectors `mapstructure:"selectors"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int `mapstructure:"port"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// FetchConfig selects the fetch backend and the default per-request policy.
type FetchConfig struct {
	Backend        string            `mapstructure:"backend"`
	BrowserProfile string            `mapstructure:"browser_profile"`
	TimeoutMs      int               `mapstructure:"timeout_ms"`
	UserAgent      string            `mapstructure:"user_agent"`
	Headers        map[string]string `mapstructure:"headers"`
	MaxOutputBytes int               `mapstructure:"max_output_bytes"`
	BinaryDir      string            `mapstructure:"binary_dir"`
}

// SiteConfig names the site searched and where it lives.
type SiteConfig struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WINECRAWLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 60)
	v.SetDefault("logging.development", true)
	v.SetDefault("fetch.backend", BackendImpersonate)
	v.SetDefault("fetch.browser_profile", string(crawler.DefaultBrowserProfile))
	v.SetDefault("fetch.timeout_ms", crawler.DefaultTimeoutMs)
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.headers", map[string]string{})
	v.SetDefault("fetch.max_output_bytes", impersonate.DefaultMaxOutputBytes)
	v.SetDefault("fetch.binary_dir", "")
	v.SetDefault("site.name", search.DefaultSiteName)
	v.SetDefault("site.base_url", search.DefaultBaseURL)

	sel := extractor.DefaultSelectors()
	v.SetDefault("selectors.wine_name", sel.WineName)
	v.SetDefault("selectors.vintage", sel.Vintage)
	v.SetDefault("selectors.region", sel.Region)
	v.SetDefault("selectors.winery", sel.Winery)
	v.SetDefault("selectors.variety", sel.Variety)
	v.SetDefault("selectors.rating_list", sel.RatingList)
	v.SetDefault("selectors.rating_item", sel.RatingItem)
	v.SetDefault("selectors.rating_source", sel.RatingSource)
	v.SetDefault("selectors.rating_score", sel.RatingScore)
	v.SetDefault("selectors.rating_critic", sel.RatingCritic)
	v.SetDefault("selectors.rating_review_count", sel.RatingReviewCount)
	v.SetDefault("selectors.price_average", sel.PriceAverage)
	v.SetDefault("selectors.price_currency", sel.PriceCurrency)
	v.SetDefault("selectors.price_range", sel.PriceRange)
	v.SetDefault("selectors.price_updated_at", sel.PriceUpdatedAt)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be > 0")
	}
	switch c.Fetch.Backend {
	case BackendImpersonate, BackendColly:
	default:
		return fmt.Errorf("fetch.backend %q is not one of %s, %s", c.Fetch.Backend, BackendImpersonate, BackendColly)
	}
	if _, err := crawler.ParseBrowserProfile(c.Fetch.BrowserProfile); err != nil {
		return fmt.Errorf("fetch.browser_profile: %w", err)
	}
	if c.Fetch.TimeoutMs <= 0 {
		return fmt.Errorf("fetch.timeout_ms must be > 0")
	}
	if c.Fetch.MaxOutputBytes < impersonate.DefaultMaxOutputBytes {
		return fmt.Errorf("fetch.max_output_bytes must be >= %d", impersonate.DefaultMaxOutputBytes)
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("site.base_url must be an absolute http(s) URL, got %q", c.Site.BaseURL)
	}
	if len(c.Selectors.WineName) == 0 {
		return fmt.Errorf("selectors.wine_name must list at least one locator")
	}
	return nil
}

// FetchOptions converts the fetch section into the per-request policy the
// search use case receives. Validate must have passed.
func (c Config) FetchOptions() crawler.FetchOptions {
	var headers map[string]string
	if len(c.Fetch.Headers) > 0 {
		headers = make(map[string]string, len(c.Fetch.Headers))
		for k, v := range c.Fetch.Headers {
			headers[k] = v
		}
	}
	profile, _ := crawler.ParseBrowserProfile(c.Fetch.BrowserProfile)
	return crawler.FetchOptions{
		BrowserProfile: profile,
		TimeoutMs:      c.Fetch.TimeoutMs,
		Headers:        headers,
		UserAgent:      c.Fetch.UserAgent,
	}
}

// SearchConfig is the use case configuration derived from the site and fetch sections.
func (c Config) SearchConfig() search.Config {
	return search.Config{
		BaseURL:  c.Site.BaseURL,
		SiteName: c.Site.Name,
		Fetch:    c.FetchOptions(),
	}
}

// RequestTimeout bounds a single API request end to end.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}
