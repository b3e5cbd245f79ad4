// Package store groups the persistence implementations behind ingest.Store:
// postgres for production and memory for tests and database-free deployments.
package store
