// Package api hosts the HTTP server, middleware, and REST handlers for the
// ingest service. Notable routes:
//   - POST /webhook for ingesting scraped exports (JSON or CSV-by-URL).
//   - GET / for a platform-debugging status payload.
//   - GET /healthz and /readyz for liveness/readiness probes.
//   - GET /metrics for Prometheus scraping.
//   - POST /v1/scrape/launch and GET /v1/scrape/{container_id}/status for
//     triggering and polling the upstream scraping agents.
package api
