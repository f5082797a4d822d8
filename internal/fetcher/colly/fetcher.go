// Package collyfetcher implements crawler.Fetcher in-process using gocolly.
// It offers no TLS impersonation and is meant for environments where the
// curl-impersonate binaries are not installed.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/wine-searcher-crawler/internal/crawler"
	"github.com/JakeFAU/wine-searcher-crawler/internal/metrics"
)

const (
	backendName = "colly"

	// DefaultMaxBodyBytes matches the impersonate backend's output ceiling.
	DefaultMaxBodyBytes = 10 << 20
)

// Config controls collector behavior.
type Config struct {
	MaxBodyBytes int
}

// Fetcher implements crawler.Fetcher using the Colly collector.
type Fetcher struct {
	cfg       Config
	transport http.RoundTripper
	logger    *zap.Logger
}

var _ crawler.Fetcher = (*Fetcher)(nil)

type collectorHooks interface {
	OnRequest(colly.RequestCallback)
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher sharing one pooled transport across fetches.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.MaxBodyBytes < DefaultMaxBodyBytes {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{cfg: cfg, transport: newHTTPTransport(), logger: logger}
}

// Fetch executes a single HTTP GET using Colly.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts crawler.FetchOptions) (string, error) {
	opts = opts.WithDefaults()
	f.logger.Debug("colly fetch ignores browser profile",
		zap.String("url", url),
		zap.String("profile", string(opts.BrowserProfile)),
	)

	start := time.Now()
	body, err := f.fetch(ctx, url, opts)
	metrics.ObserveFetch(backendName, outcomeLabel(err), time.Since(start), len(body))
	if err != nil {
		return "", err
	}
	return body, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string, opts crawler.FetchOptions) (string, error) {
	var (
		body     []byte
		fetchErr error
	)
	collector := f.buildCollector(opts)
	f.configureCollectorHooks(collector, opts, &body, &fetchErr)

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout())
	defer cancel()
	if err := runCollector(runCtx, collector, url, &fetchErr); err != nil {
		return "", classify(runCtx, url, opts.TimeoutMs, err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", &crawler.NetworkError{URL: url, Err: crawler.ErrEmptyResponse}
	}
	return string(body), nil
}

// buildCollector creates a fresh collector per fetch; colly's request timeout
// lives on a client shared between clones, so clones cannot carry their own.
func (f *Fetcher) buildCollector(opts crawler.FetchOptions) *colly.Collector {
	collector := colly.NewCollector(
		colly.Async(false),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
	)
	collector.WithTransport(f.transport)
	collector.SetRequestTimeout(opts.Timeout())
	collector.MaxBodySize = f.cfg.MaxBodyBytes
	if opts.UserAgent != "" {
		collector.UserAgent = opts.UserAgent
	}
	return collector
}

func (f *Fetcher) configureCollectorHooks(
	hooks collectorHooks,
	opts crawler.FetchOptions,
	body *[]byte,
	fetchErr *error,
) {
	hooks.OnRequest(func(r *colly.Request) {
		copyHeaders(opts, r)
	})

	hooks.OnResponse(func(r *colly.Response) {
		*body = append([]byte(nil), r.Body...)
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			err = fmt.Errorf("status %d: %w", r.StatusCode, err)
		}
		*fetchErr = err
	})
}

func runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		return nil
	}
}

func classify(runCtx context.Context, url string, timeoutMs int, err error) error {
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &crawler.TimeoutError{URL: url, TimeoutMs: timeoutMs}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &crawler.TimeoutError{URL: url, TimeoutMs: timeoutMs}
	}
	return &crawler.NetworkError{URL: url, Err: err}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case crawler.ErrorKind(err) == crawler.KindTimeout:
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeNetworkError
	}
}

func copyHeaders(opts crawler.FetchOptions, r *colly.Request) {
	for _, key := range opts.HeaderKeys() {
		r.Headers.Set(key, opts.Headers[key])
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
