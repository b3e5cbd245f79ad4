// Package main hosts the ingest service entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes the /webhook ingestion endpoint, a root status payload,
//     health/readiness probes, Prometheus metrics, and the /v1/scrape endpoints that proxy the upstream
//     scraping-agent API (launch and container status polling).
//   - Ingestion pipeline: internal/ingest.Pipeline decodes the webhook envelope (embedded JSON array or
//     CSV referenced by URL), classifies each record as company or post, resolves fields through ordered
//     candidate-key lists, and persists company profiles, posts, and append-only engagement snapshots.
//     Records are processed strictly sequentially so same-key upserts within a batch resolve in arrival
//     order; a failing record is logged and counted, never fatal to the batch.
//   - Persistence: internal/store/postgres upserts by natural key (company name, linkedin post id) via
//     pgxpool with ON CONFLICT ... RETURNING id; internal/store/memory backs tests and database-free runs.
//   - Supporting plumbing: the Colly-based fetcher downloads CSV exports with a hard timeout; raw
//     envelopes are archived to GCS or the local filesystem for audit/replay; batch summaries fan out via
//     Pub/Sub when a topic is configured. Archive and publish failures are logged, never batch-fatal.
//   - Configuration & observability: Viper populates config from env (INGEST_ prefix) and optional files,
//     with .env loading for development; zap provides structured logging; Prometheus collectors track
//     batches, records, CSV download volume, scrape launches, and HTTP traffic.
//
// Operational notes:
//   - Concurrency model: one goroutine per webhook request, no intra-batch parallelism. The store is
//     expected to serialize concurrent upserts to the same natural key.
//   - Error contract: envelope and CSV-download failures return 400; an unreachable store returns 500;
//     per-record failures are absorbed and only visible via the processed/total counts and logs.
//   - Run locally: go run ./cmd/ingestd -config config.yaml (or rely solely on INGEST_* env overrides).
//     Without INGEST_DB_DSN the service runs against the in-memory store.
package main
