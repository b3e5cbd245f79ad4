package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostIdentity(t *testing.T) {
	t.Parallel()

	// The echo hasher returns its input, so derived identities are legible.
	hasher := &fakeHasher{}

	t.Run("explicit id wins", func(t *testing.T) {
		rec := RawRecord{"postId": "urn:li:activity:99", "postUrl": "https://example.com/p"}
		id, err := PostIdentity(rec, hasher)
		require.NoError(t, err)
		require.Equal(t, "urn:li:activity:99", id)
	})

	t.Run("url fallback", func(t *testing.T) {
		rec := RawRecord{"postUrl": "https://www.linkedin.com/feed/update/42"}
		id, err := PostIdentity(rec, hasher)
		require.NoError(t, err)
		require.Equal(t, "https://www.linkedin.com/feed/update/42", id)
	})

	t.Run("content and date fallback", func(t *testing.T) {
		rec := RawRecord{"content": "hello world", "publishedAt": "2025-06-01"}
		id, err := PostIdentity(rec, hasher)
		require.NoError(t, err)
		require.Equal(t, "hello world|2025-06-01", id)
	})

	t.Run("content alone is enough", func(t *testing.T) {
		id, err := PostIdentity(RawRecord{"content": "hello"}, hasher)
		require.NoError(t, err)
		require.Equal(t, "hello|", id)
	})

	t.Run("nothing to key on", func(t *testing.T) {
		_, err := PostIdentity(RawRecord{"postType": "article"}, hasher)
		require.ErrorIs(t, err, errNoPostIdentity)
	})

	t.Run("hasher error propagates", func(t *testing.T) {
		broken := &fakeHasher{err: errors.New("hash failed")}
		_, err := PostIdentity(RawRecord{"content": "hello"}, broken)
		require.Error(t, err)
	})
}
