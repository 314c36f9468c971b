package reindex

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/quaerolabs/quaero/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunner_EmptyCorpus(t *testing.T) {
	store := openTestStore(t)
	var buf bytes.Buffer

	err := NewRunner(store, nil, &buf).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No articles found")
}

func TestRunner_RebuildsIndex(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	titles := []string{"Quantum Computing", "Python Language", "Go Concurrency"}
	for _, title := range titles {
		_, err := store.UpsertArticle(ctx, title, "body for "+title)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	err := NewRunner(store, &Config{BatchSize: 2, ReportInterval: 1}, &buf).Run(ctx)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Starting reindex of 3 articles")
	assert.Contains(t, output, "Reindex complete. Processed 3 articles")

	// Index rows still resolve after the rebuild.
	ids, err := store.LookupByKeyword(ctx, "quantum")
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

type failingStore struct {
	ids []int64
}

func (f *failingStore) ListIDs(ctx context.Context) ([]int64, error) {
	return f.ids, nil
}

func (f *failingStore) RebuildIndex(ctx context.Context, ids ...int64) error {
	return errors.New("index write failed")
}

func TestRunner_BatchFailure(t *testing.T) {
	var buf bytes.Buffer
	runner := NewRunner(&failingStore{ids: []int64{1, 2, 3}}, nil, &buf)

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to rebuild batch")
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	runner := NewRunner(&failingStore{ids: []int64{1}}, nil, &buf)

	err := runner.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
