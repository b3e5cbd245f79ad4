// Package ingest implements the webhook ingestion pipeline: decoding
// scraper export envelopes (embedded JSON results or linked CSV files),
// classifying and extracting records, computing engagement metrics, and
// persisting company profiles, posts, and engagement rows.
package ingest
