package crawler

import (
	"context"
	"time"

	"github.com/JakeFAU/wine-searcher-crawler/internal/wine"
)

// Fetcher retrieves the raw body of a URL as text.
// Implementations fail with *NetworkError or *TimeoutError.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts FetchOptions) (string, error)
}

// Extractor parses raw HTML into WineData, failing with *ParsingError.
type Extractor interface {
	Extract(html string, sourceURL string) (wine.WineData, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
