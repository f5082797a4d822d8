// Package api hosts the HTTP server, middleware, and handlers that expose
// wine search over HTTP. Routes:
//   - GET /healthz and /readyz for probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /v1/wines/search?region=&winery=&variety=&vintage= for lookups.
package api
