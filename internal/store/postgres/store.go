// Package postgres provides the Postgres-backed persistence layer for
// company profiles, posts, and engagement snapshots.
//
// Expected schema (managed outside this service; no migration tooling):
//
//	CREATE TABLE company_profile (
//	    id BIGSERIAL PRIMARY KEY, name TEXT NOT NULL UNIQUE,
//	    linkedin_url TEXT, website TEXT, description TEXT, industry TEXT,
//	    company_size TEXT, location TEXT, followers BIGINT,
//	    specialties TEXT[], fetched_at TIMESTAMPTZ NOT NULL);
//	CREATE TABLE posts (
//	    id BIGSERIAL PRIMARY KEY, linkedin_post_id TEXT NOT NULL UNIQUE,
//	    content TEXT, post_type TEXT, published_at TEXT, author_id TEXT,
//	    hashtags TEXT[], mentions TEXT[], raw_data JSONB);
//	CREATE TABLE engagement_metrics (
//	    id BIGSERIAL PRIMARY KEY, post_id BIGINT NOT NULL REFERENCES posts(id),
//	    likes BIGINT, comments BIGINT, shares BIGINT, impressions BIGINT,
//	    clicks BIGINT, engagement_rate DOUBLE PRECISION,
//	    measured_at TIMESTAMPTZ NOT NULL);
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/draftline-io/linkedin-ingest/internal/ingest"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Store implements ingest.Store on a pgx connection pool. Upserts are keyed
// by the natural key (company name, linkedin post id) and return the row id;
// engagement rows are append-only.
type Store struct {
	pool pool
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: p}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(p pool) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: p}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("store is not configured")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

const upsertCompanySQL = `
INSERT INTO company_profile (
	name,
	linkedin_url,
	website,
	description,
	industry,
	company_size,
	location,
	followers,
	specialties,
	fetched_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)
ON CONFLICT (name) DO UPDATE SET
	linkedin_url = EXCLUDED.linkedin_url,
	website = EXCLUDED.website,
	description = EXCLUDED.description,
	industry = EXCLUDED.industry,
	company_size = EXCLUDED.company_size,
	location = EXCLUDED.location,
	followers = EXCLUDED.followers,
	specialties = EXCLUDED.specialties,
	fetched_at = EXCLUDED.fetched_at
RETURNING id`

// UpsertCompany writes a company profile keyed by name and returns the row id.
func (s *Store) UpsertCompany(ctx context.Context, company ingest.CompanyProfile) (int64, error) {
	if company.Name == "" {
		return 0, fmt.Errorf("company name is required")
	}
	specialties := company.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	var id int64
	err := s.pool.QueryRow(ctx, upsertCompanySQL,
		company.Name,
		company.LinkedInURL,
		company.Website,
		company.Description,
		company.Industry,
		company.CompanySize,
		company.Location,
		company.Followers,
		specialties,
		company.FetchedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert company %q: %w", company.Name, err)
	}
	return id, nil
}

const upsertPostSQL = `
INSERT INTO posts (
	linkedin_post_id,
	content,
	post_type,
	published_at,
	author_id,
	hashtags,
	mentions,
	raw_data
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8
)
ON CONFLICT (linkedin_post_id) DO UPDATE SET
	content = EXCLUDED.content,
	post_type = EXCLUDED.post_type,
	published_at = EXCLUDED.published_at,
	author_id = EXCLUDED.author_id,
	hashtags = EXCLUDED.hashtags,
	mentions = EXCLUDED.mentions,
	raw_data = EXCLUDED.raw_data
RETURNING id`

// UpsertPost writes a post keyed by linkedin_post_id and returns the row id.
func (s *Store) UpsertPost(ctx context.Context, post ingest.Post) (int64, error) {
	if post.LinkedInPostID == "" {
		return 0, fmt.Errorf("linkedin post id is required")
	}
	rawData, err := json.Marshal(post.RawData)
	if err != nil {
		return 0, fmt.Errorf("marshal raw data: %w", err)
	}
	hashtags := post.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	mentions := post.Mentions
	if mentions == nil {
		mentions = []string{}
	}
	var id int64
	err = s.pool.QueryRow(ctx, upsertPostSQL,
		post.LinkedInPostID,
		post.Content,
		post.PostType,
		post.PublishedAt,
		post.AuthorID,
		hashtags,
		mentions,
		rawData,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert post %q: %w", post.LinkedInPostID, err)
	}
	return id, nil
}

const insertEngagementSQL = `
INSERT INTO engagement_metrics (
	post_id,
	likes,
	comments,
	shares,
	impressions,
	clicks,
	engagement_rate,
	measured_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8
)`

// InsertEngagement appends one engagement snapshot for a persisted post.
// Snapshots are never updated, so repeated scrapes build a time series.
func (s *Store) InsertEngagement(ctx context.Context, metrics ingest.EngagementMetrics) error {
	if metrics.PostID == 0 {
		return fmt.Errorf("post id is required")
	}
	_, err := s.pool.Exec(ctx, insertEngagementSQL,
		metrics.PostID,
		metrics.Likes,
		metrics.Comments,
		metrics.Shares,
		metrics.Impressions,
		metrics.Clicks,
		metrics.EngagementRate,
		metrics.MeasuredAt,
	)
	if err != nil {
		return fmt.Errorf("insert engagement for post %d: %w", metrics.PostID, err)
	}
	return nil
}
