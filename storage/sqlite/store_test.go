package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quaerolabs/quaero/core"
	"github.com/quaerolabs/quaero/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "corpus.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.UpsertArticle(context.Background(), "Cat", "Cats are mammals.")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not disturb existing data.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenUnwritablePath(t *testing.T) {
	// A regular file where a directory is needed.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := Open(filepath.Join(blocker, "sub", "corpus.db"))
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestUpsertArticleRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	article, err := store.UpsertArticle(ctx, "Cat", "Cats are mammals...")
	require.NoError(t, err)
	require.NotZero(t, article.ID)

	ids, err := store.LookupByKeyword(ctx, "cat")
	require.NoError(t, err)
	require.Equal(t, []int64{article.ID}, ids)

	got, err := store.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cat", got.Title)
	assert.Equal(t, "Cats are mammals...", got.Content)
	assert.Equal(t, "Cats are mammals...", got.Summary)
	assert.False(t, got.LastUpdated.IsZero())
}

func TestUpsertArticleReplacesByTitle(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := openTestStore(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	first, err := store.UpsertArticle(ctx, "Cat", "Old text.")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	second, err := store.UpsertArticle(ctx, "Cat", "New text about cats.")
	require.NoError(t, err)

	// Natural key: still one article under the title, content and
	// timestamp replaced.
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.GetArticle(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "New text about cats.", got.Content)
	assert.Equal(t, "New text about cats.", got.Summary)
	assert.True(t, got.LastUpdated.After(first.LastUpdated))

	// The old id is gone along with its index rows.
	if first.ID != second.ID {
		_, err = store.GetArticle(ctx, first.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}
	ids, err := store.LookupByKeyword(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID}, ids)
}

func TestUpsertArticleSummaryTruncation(t *testing.T) {
	store := openTestStore(t)

	content := strings.Repeat("x", core.SummaryLength+200)
	article, err := store.UpsertArticle(context.Background(), "Long", content)
	require.NoError(t, err)

	got, err := store.GetArticle(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Len(t, got.Summary, core.SummaryLength)
	assert.Equal(t, content, got.Content)
}

func TestUpsertArticleValidation(t *testing.T) {
	store := openTestStore(t)

	_, err := store.UpsertArticle(context.Background(), "", "text")
	assert.ErrorIs(t, err, core.ErrInvalidArticle)

	_, err = store.UpsertArticle(context.Background(), "Title", "")
	assert.ErrorIs(t, err, core.ErrInvalidArticle)
}

func TestLookupByKeyword(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	quantum, err := store.UpsertArticle(ctx, "Quantum Computing", "Quantum computers use qubits.")
	require.NoError(t, err)
	mech, err := store.UpsertArticle(ctx, "Quantum Mechanics", "Physics of the very small.")
	require.NoError(t, err)

	t.Run("shared keyword returns both, ordered by id", func(t *testing.T) {
		ids, err := store.LookupByKeyword(ctx, "quantum")
		require.NoError(t, err)
		assert.Equal(t, []int64{quantum.ID, mech.ID}, ids)
	})

	t.Run("exact match only", func(t *testing.T) {
		ids, err := store.LookupByKeyword(ctx, "quant")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("keywords come from titles, not content", func(t *testing.T) {
		ids, err := store.LookupByKeyword(ctx, "qubits")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestDuplicateTitleTokens(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	article, err := store.UpsertArticle(ctx, "War and War", "A novel.")
	require.NoError(t, err)

	// Index rows are a multiset: the repeated token is stored twice...
	rows, err := store.IndexRowCount(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)

	// ...but lookups return the article once.
	ids, err := store.LookupByKeyword(ctx, "war")
	require.NoError(t, err)
	assert.Equal(t, []int64{article.ID}, ids)
}

func TestListTitles(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := openTestStore(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := store.UpsertArticle(ctx, title, title+" body")
		require.NoError(t, err)
		now = now.Add(time.Minute)
	}

	titles, err := store.ListTitles(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma", "Beta"}, titles)

	// A fresh call re-scans from the top.
	titles, err = store.ListTitles(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma", "Beta", "Alpha"}, titles)
}

func TestRebuildIndex(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	article, err := store.UpsertArticle(ctx, "Quantum Computing", "Qubits.")
	require.NoError(t, err)

	require.NoError(t, store.RebuildIndex(ctx, article.ID))

	ids, err := store.LookupByKeyword(ctx, "computing")
	require.NoError(t, err)
	assert.Equal(t, []int64{article.ID}, ids)

	assert.ErrorIs(t, store.RebuildIndex(ctx, 9999), storage.ErrNotFound)
}
