package ingest

import "time"

// RawRecord is one loosely-typed record from the upstream export. Values are
// whatever the wire carried: JSON scalars/lists/objects, or plain strings when
// the batch arrived as CSV. The same logical field may hide behind several
// alternative keys; see fields.go.
type RawRecord map[string]any

// Format identifies the wire shape a batch arrived in.
type Format string

// Wire formats accepted by the webhook.
const (
	FormatJSON Format = "JSON"
	FormatCSV  Format = "CSV"
)

// RecordKind is the classifier's verdict for a single record.
type RecordKind string

// Record kinds produced by Classify.
const (
	KindCompany RecordKind = "company"
	KindPost    RecordKind = "post"
	KindUnknown RecordKind = "unknown"
)

// CompanyProfile is the canonical company entity, upserted by name.
type CompanyProfile struct {
	Name        string    `json:"name"`
	LinkedInURL string    `json:"linkedin_url"`
	Website     string    `json:"website"`
	Description string    `json:"description"`
	Industry    string    `json:"industry"`
	CompanySize string    `json:"company_size"`
	Location    string    `json:"location"`
	Followers   int       `json:"followers"`
	Specialties []string  `json:"specialties"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Post is the canonical post entity, upserted by LinkedInPostID.
// PublishedAt stays an opaque string: upstream date formats vary by agent and
// the value is never compared, only stored.
type Post struct {
	LinkedInPostID string    `json:"linkedin_post_id"`
	Content        string    `json:"content"`
	PostType       string    `json:"post_type"`
	PublishedAt    string    `json:"published_at"`
	AuthorID       string    `json:"author_id"`
	Hashtags       []string  `json:"hashtags"`
	Mentions       []string  `json:"mentions"`
	RawData        RawRecord `json:"raw_data"`
}

// EngagementMetrics is one append-only engagement snapshot for a post.
// Rows are inserted, never updated, so repeated scrapes build a time series.
type EngagementMetrics struct {
	PostID         int64     `json:"post_id"`
	Likes          int       `json:"likes"`
	Comments       int       `json:"comments"`
	Shares         int       `json:"shares"`
	Impressions    int       `json:"impressions"`
	Clicks         int       `json:"clicks"`
	EngagementRate float64   `json:"engagement_rate"`
	MeasuredAt     time.Time `json:"measured_at"`
}

// BatchSummary is the aggregate outcome of one webhook batch.
type BatchSummary struct {
	BatchID    string `json:"batch_id"`
	Format     Format `json:"format"`
	Total      int    `json:"total_count"`
	Processed  int    `json:"processed_count"`
	Companies  int    `json:"companies"`
	Posts      int    `json:"posts"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	ArchiveURI string `json:"archive_uri,omitempty"`
}
