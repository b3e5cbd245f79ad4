// Package memory provides an in-memory ingest.Store for tests and
// development deployments without a database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/draftline-io/linkedin-ingest/internal/ingest"
)

// Store keeps entities in maps keyed by their natural keys. Upserts overwrite
// prior rows but keep their ids stable; engagement rows are append-only,
// mirroring the Postgres store semantics.
type Store struct {
	mu          sync.RWMutex
	nextID      int64
	companyIDs  map[string]int64
	companies   map[string]ingest.CompanyProfile
	postIDs     map[string]int64
	posts       map[string]ingest.Post
	engagements []ingest.EngagementMetrics

	// PingErr, when set, makes Ping fail so tests can simulate an
	// unreachable store.
	PingErr error
}

// New creates an empty in-memory Store.
func New() *Store {
	return &Store{
		companyIDs: make(map[string]int64),
		companies:  make(map[string]ingest.CompanyProfile),
		postIDs:    make(map[string]int64),
		posts:      make(map[string]ingest.Post),
	}
}

// Ping reports the configured availability.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PingErr
}

// UpsertCompany stores the profile keyed by name and returns a stable id.
func (s *Store) UpsertCompany(_ context.Context, company ingest.CompanyProfile) (int64, error) {
	if company.Name == "" {
		return 0, fmt.Errorf("company name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.companyIDs[company.Name]
	if !ok {
		s.nextID++
		id = s.nextID
		s.companyIDs[company.Name] = id
	}
	s.companies[company.Name] = company
	return id, nil
}

// UpsertPost stores the post keyed by linkedin post id and returns a stable id.
func (s *Store) UpsertPost(_ context.Context, post ingest.Post) (int64, error) {
	if post.LinkedInPostID == "" {
		return 0, fmt.Errorf("linkedin post id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.postIDs[post.LinkedInPostID]
	if !ok {
		s.nextID++
		id = s.nextID
		s.postIDs[post.LinkedInPostID] = id
	}
	s.posts[post.LinkedInPostID] = post
	return id, nil
}

// InsertEngagement appends one engagement snapshot.
func (s *Store) InsertEngagement(_ context.Context, metrics ingest.EngagementMetrics) error {
	if metrics.PostID == 0 {
		return fmt.Errorf("post id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engagements = append(s.engagements, metrics)
	return nil
}

// Company returns the stored profile for a name, if any.
func (s *Store) Company(name string) (ingest.CompanyProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[name]
	return c, ok
}

// Post returns the stored post for a linkedin post id, if any.
func (s *Store) Post(linkedinPostID string) (ingest.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[linkedinPostID]
	return p, ok
}

// Engagements returns a copy of all recorded engagement snapshots.
func (s *Store) Engagements() []ingest.EngagementMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ingest.EngagementMetrics, len(s.engagements))
	copy(out, s.engagements)
	return out
}

// Counts reports how many distinct companies and posts are stored.
func (s *Store) Counts() (companies, posts, engagements int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.companies), len(s.posts), len(s.engagements)
}
