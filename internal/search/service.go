// Package search composes a wine query into a find-page URL, fetches it,
// extracts WineData, and shapes the response. It adds no recovery: fetch
// and extraction errors reach the caller unchanged.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/wine-searcher-crawler/internal/crawler"
)

// Config is resolved at the outermost boundary and passed in whole.
type Config struct {
	BaseURL  string
	SiteName string
	Fetch    crawler.FetchOptions
}

// Service runs searches. It holds no per-request state and may be shared.
type Service struct {
	fetcher   crawler.Fetcher
	extractor crawler.Extractor
	cfg       Config
	logger    *zap.Logger
}

// NewService wires the fetch and extraction collaborators.
func NewService(fetcher crawler.Fetcher, extractor crawler.Extractor, cfg Config, logger *zap.Logger) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.SiteName == "" {
		cfg.SiteName = DefaultSiteName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fetcher: fetcher, extractor: extractor, cfg: cfg, logger: logger}
}

// URL returns the find-page URL Search would fetch for q.
func (s *Service) URL(q Query) string {
	return BuildURL(s.cfg.BaseURL, q)
}

// Search fetches and parses the find page for q.
func (s *Service) Search(ctx context.Context, q Query) (Result, error) {
	url := s.URL(q)
	start := time.Now()

	html, err := s.fetcher.Fetch(ctx, url, s.cfg.Fetch)
	if err != nil {
		s.logger.Info("fetch failed", zap.String("url", url), zap.String("kind", crawler.ErrorKind(err)), zap.Error(err))
		return Result{}, err
	}

	data, err := s.extractor.Extract(html, url)
	if err != nil {
		s.logger.Info("extraction failed", zap.String("url", url), zap.Error(err))
		return Result{}, err
	}

	s.logger.Debug("search completed",
		zap.String("url", url),
		zap.Int("ratings", len(data.Ratings)),
		zap.Bool("price", data.Price != nil),
		zap.Duration("elapsed", time.Since(start)),
	)
	return NewResult(data, s.cfg.SiteName), nil
}
