// Package main hosts the winecrawler entrypoint.
//
// Architecture overview:
//   - Domain: internal/wine holds the validated value objects (WineName, Vintage, Score), the Wine aggregate,
//     Rating, Price, and the WineData bundle. Constructors fail fast with *wine.ValidationError.
//   - Fetch: internal/fetcher/impersonate runs a curl-impersonate binary chosen by browser profile, passing the URL,
//     headers, and user agent as an argument vector. internal/fetcher/colly is an in-process alternative without TLS
//     impersonation. Failures surface as *crawler.NetworkError or *crawler.TimeoutError; nothing is retried.
//   - Extraction: internal/extractor applies configurable goquery locators. A missing wine name fails the page with
//     *crawler.ParsingError; malformed rating items are logged and skipped.
//   - Orchestration: internal/search builds the find-page URL, fetches, extracts, and shapes the JSON result.
//   - Surfaces: internal/api serves GET /v1/wines/search over chi; cmd provides serve, search, and fetch.
//   - Plumbing: Viper loads config from file and WINECRAWLER_* env vars; zap logs; Prometheus metrics are exported
//     on /metrics.
//
// Quick checklist:
//   - Install the curl-impersonate wrappers (curl_chrome116, curl_chrome110, curl_ff109) on PATH or set
//     WINECRAWLER_FETCH_BINARY_DIR. Use WINECRAWLER_FETCH_BACKEND=colly where they are unavailable.
//   - Run locally: go run . serve --config config.yaml, or go run . search --winery ... --vintage ....
package main
