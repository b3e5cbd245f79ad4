package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/draftline-io/linkedin-ingest/internal/ingest"
)

func TestUpsertCompanyReturnsRowID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()
	company := ingest.CompanyProfile{
		Name:        "Acme Corp",
		LinkedInURL: "https://www.linkedin.com/company/acme",
		Website:     "https://acme.example",
		Description: "We make anvils",
		Industry:    "Manufacturing",
		CompanySize: "51-200",
		Location:    "Springfield",
		Followers:   1200,
		FetchedAt:   now,
	}

	mock.ExpectQuery("INSERT INTO company_profile").
		WithArgs(
			company.Name,
			company.LinkedInURL,
			company.Website,
			company.Description,
			company.Industry,
			company.CompanySize,
			company.Location,
			company.Followers,
			[]string{},
			company.FetchedAt,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := store.UpsertCompany(context.Background(), company)
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertCompanyRequiresName(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock)
	require.NoError(t, err)

	_, err = store.UpsertCompany(context.Background(), ingest.CompanyProfile{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPostReturnsRowID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock)
	require.NoError(t, err)

	post := ingest.Post{
		LinkedInPostID: "urn:li:activity:7213",
		Content:        "Launching #anvil",
		PostType:       "image",
		PublishedAt:    "2025-06-01T10:00:00Z",
		AuthorID:       "acme",
		Hashtags:       []string{"#anvil"},
		Mentions:       []string{},
		RawData:        ingest.RawRecord{"postId": "urn:li:activity:7213"},
	}

	mock.ExpectQuery("INSERT INTO posts").
		WithArgs(
			post.LinkedInPostID,
			post.Content,
			post.PostType,
			post.PublishedAt,
			post.AuthorID,
			post.Hashtags,
			post.Mentions,
			[]byte(`{"postId":"urn:li:activity:7213"}`),
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := store.UpsertPost(context.Background(), post)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEngagementAppendsRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()
	metrics := ingest.EngagementMetrics{
		PostID:         42,
		Likes:          10,
		Comments:       5,
		Shares:         3,
		Impressions:    50,
		Clicks:         2,
		EngagementRate: 40.0,
		MeasuredAt:     now,
	}

	mock.ExpectExec("INSERT INTO engagement_metrics").
		WithArgs(
			metrics.PostID,
			metrics.Likes,
			metrics.Comments,
			metrics.Shares,
			metrics.Impressions,
			metrics.Clicks,
			metrics.EngagementRate,
			metrics.MeasuredAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = store.InsertEngagement(context.Background(), metrics)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEngagementRequiresPostID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock)
	require.NoError(t, err)

	err = store.InsertEngagement(context.Background(), ingest.EngagementMetrics{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPingWrapsPoolError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock)
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = store.Ping(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "ping postgres")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWithPoolRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := NewWithPool(nil)
	require.Error(t, err)
}
