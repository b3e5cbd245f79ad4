package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/draftline-io/linkedin-ingest/internal/ingest"
)

func TestUpsertCompanyKeepsIDStable(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()

	first, err := store.UpsertCompany(ctx, ingest.CompanyProfile{Name: "Acme Corp", Followers: 100})
	require.NoError(t, err)

	second, err := store.UpsertCompany(ctx, ingest.CompanyProfile{Name: "Acme Corp", Followers: 250})
	require.NoError(t, err)
	require.Equal(t, first, second)

	company, ok := store.Company("Acme Corp")
	require.True(t, ok)
	require.Equal(t, 250, company.Followers, "later upsert wins")
}

func TestUpsertCompanyRequiresName(t *testing.T) {
	t.Parallel()

	store := New()
	_, err := store.UpsertCompany(context.Background(), ingest.CompanyProfile{})
	require.Error(t, err)
}

func TestEngagementsAreAppendOnly(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()

	postID, err := store.UpsertPost(ctx, ingest.Post{LinkedInPostID: "post-1"})
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()
	for i := 0; i < 2; i++ {
		err = store.InsertEngagement(ctx, ingest.EngagementMetrics{PostID: postID, Likes: 10 + i, MeasuredAt: now})
		require.NoError(t, err)
	}

	rows := store.Engagements()
	require.Len(t, rows, 2)
	require.Equal(t, 10, rows[0].Likes)
	require.Equal(t, 11, rows[1].Likes)
}

func TestPingReturnsConfiguredError(t *testing.T) {
	t.Parallel()

	store := New()
	require.NoError(t, store.Ping(context.Background()))

	store.PingErr = errors.New("down for maintenance")
	require.Error(t, store.Ping(context.Background()))
}
