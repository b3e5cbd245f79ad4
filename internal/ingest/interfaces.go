package ingest

import (
	"context"
	"time"
)

// Store persists the canonical entities. Upserts return the persisted row
// identity; engagement rows reference that identity and are append-only.
type Store interface {
	// UpsertCompany writes a company profile keyed by name and returns the row id.
	UpsertCompany(ctx context.Context, company CompanyProfile) (int64, error)
	// UpsertPost writes a post keyed by linkedin_post_id and returns the row id.
	UpsertPost(ctx context.Context, post Post) (int64, error)
	// InsertEngagement appends one engagement snapshot for a persisted post.
	InsertEngagement(ctx context.Context, metrics EngagementMetrics) error
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// CSVFetcher downloads the CSV payload referenced by a webhook envelope.
type CSVFetcher interface {
	Fetch(ctx context.Context, url string) (CSVPayload, error)
}

// CSVPayload is the downloaded CSV body plus response metadata.
type CSVPayload struct {
	Body        []byte
	ContentType string
	StatusCode  int
}

// BlobStore archives raw webhook envelopes for audit/replay and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Publisher pushes batch summaries to downstream consumers (Pub/Sub or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Hasher computes hex digests for derived post identities and archive keys.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces batch IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
