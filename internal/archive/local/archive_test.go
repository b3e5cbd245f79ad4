package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutObjectWritesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive, err := New(Config{BaseDir: dir})
	require.NoError(t, err)

	uri, err := archive.PutObject(context.Background(), "webhooks/batch-1.json", "application/json", []byte(`{"resultObject":"[]"}`))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "file://"))

	content, err := os.ReadFile(filepath.Join(dir, "webhooks", "batch-1.json"))
	require.NoError(t, err)
	require.Equal(t, `{"resultObject":"[]"}`, string(content))
}

func TestPutObjectRejectsTraversal(t *testing.T) {
	t.Parallel()

	archive, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = archive.PutObject(context.Background(), "../escape.json", "", []byte("x"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "path traversal")
}

func TestNewRequiresBaseDir(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)
}

func TestNewCreatesMissingBaseDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "archive")
	_, err := New(Config{BaseDir: dir})
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
