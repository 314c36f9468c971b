package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/quaerolabs/quaero/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArticle(t *testing.T, dir, title, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, title+".txt"), []byte(content), 0o644)
	require.NoError(t, err)
}

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBuildIngestsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeArticle(t, dir, "Beta", "second article body")
	writeArticle(t, dir, "Alpha", "first article body")

	store := openTestStore(t)

	count, err := NewBuilder().Build(context.Background(), dir, store)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	total, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	ids, err := store.LookupByKeyword(context.Background(), "first")
	require.NoError(t, err)
	require.Len(t, ids, 1)

	art, err := store.GetArticle(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Alpha", art.Title)
	assert.Equal(t, "first article body", art.Content)
}

func TestBuildRespectsLimit(t *testing.T) {
	dir := t.TempDir()
	writeArticle(t, dir, "Alpha", "a")
	writeArticle(t, dir, "Beta", "b")
	writeArticle(t, dir, "Gamma", "c")

	store := openTestStore(t)

	count, err := NewBuilder(WithLimit(2)).Build(context.Background(), dir, store)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Lexicographic order means the cap keeps Alpha and Beta.
	ids, err := store.LookupByKeyword(context.Background(), "gamma")
	require.NoError(t, err)
	assert.Empty(t, ids)
	titles, err := store.ListTitles(context.Background(), 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alpha", "Beta"}, titles)
}

func TestBuildLimitCountsIngestedArticles(t *testing.T) {
	dir := t.TempDir()
	// First in lexicographic order but unreadable; it must not consume
	// a cap slot.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Alpha.txt"), 0o755))
	writeArticle(t, dir, "Beta", "b")
	writeArticle(t, dir, "Gamma", "c")

	store := openTestStore(t)

	count, err := NewBuilder(WithLimit(2)).Build(context.Background(), dir, store)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	titles, err := store.ListTitles(context.Background(), 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Beta", "Gamma"}, titles)
}

func TestBuildSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	writeArticle(t, dir, "Good", "readable body")
	// A directory with a .txt suffix matches the glob but cannot be read
	// as a file.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Bad.txt"), 0o755))

	store := openTestStore(t)

	count, err := NewBuilder().Build(context.Background(), dir, store)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBuildEmptyDirectory(t *testing.T) {
	store := openTestStore(t)

	count, err := NewBuilder().Build(context.Background(), t.TempDir(), store)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// newCorpusTree lays out base/articles the way an externally produced
// corpus does; the metadata record lives beside the articles directory.
func newCorpusTree(t *testing.T) (base, dir string) {
	t.Helper()
	base = t.TempDir()
	dir = filepath.Join(base, "articles")
	require.NoError(t, os.Mkdir(dir, 0o755))
	return base, dir
}

func TestMetadataOnlyRewrittenWhenPresent(t *testing.T) {
	t.Run("absent stays absent", func(t *testing.T) {
		base, dir := newCorpusTree(t)
		writeArticle(t, dir, "Alpha", "a")

		store := openTestStore(t)
		_, err := NewBuilder().Build(context.Background(), dir, store)
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(base, metadataFile))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sibling record gets updated", func(t *testing.T) {
		base, dir := newCorpusTree(t)
		writeArticle(t, dir, "Alpha", "a")
		writeArticle(t, dir, "Beta", "b")
		require.NoError(t, os.WriteFile(filepath.Join(base, metadataFile), []byte(`{"count": 0, "lang": "xx"}`), 0o644))

		store := openTestStore(t)
		_, err := NewBuilder(WithLang("de")).Build(context.Background(), dir, store)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(base, metadataFile))
		require.NoError(t, err)

		var meta metadata
		require.NoError(t, json.Unmarshal(data, &meta))
		assert.Equal(t, 2, meta.Count)
		assert.Equal(t, "de", meta.Lang)
	})

	t.Run("record inside the articles directory is not the one", func(t *testing.T) {
		base, dir := newCorpusTree(t)
		writeArticle(t, dir, "Alpha", "a")
		inner := filepath.Join(dir, metadataFile)
		require.NoError(t, os.WriteFile(inner, []byte(`{"count": 0, "lang": "xx"}`), 0o644))

		store := openTestStore(t)
		_, err := NewBuilder().Build(context.Background(), dir, store)
		require.NoError(t, err)

		data, err := os.ReadFile(inner)
		require.NoError(t, err)
		assert.JSONEq(t, `{"count": 0, "lang": "xx"}`, string(data))

		_, err = os.Stat(filepath.Join(base, metadataFile))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestBuildIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeArticle(t, dir, "Alpha", "body one")

	store := openTestStore(t)
	b := NewBuilder()

	_, err := b.Build(context.Background(), dir, store)
	require.NoError(t, err)
	_, err = b.Build(context.Background(), dir, store)
	require.NoError(t, err)

	total, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
