package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/quaerolabs/quaero/storage"
)

// Builder ingests per-article text files into a corpus store.
type Builder struct {
	limit    int
	poolSize int
	lang     string
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLimit caps the number of ingested articles. Zero means no cap.
func WithLimit(limit int) Option {
	return func(b *Builder) {
		if limit > 0 {
			b.limit = limit
		}
	}
}

// WithPoolSize sets the worker pool size for concurrent file reads.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) {
		if size >= 1 {
			b.poolSize = size
		}
	}
}

// WithLang sets the language code written into the metadata record.
// Default is "en".
func WithLang(lang string) Option {
	return func(b *Builder) {
		if lang != "" {
			b.lang = lang
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
	}
}

// NewBuilder creates a corpus builder.
func NewBuilder(opts ...Option) *Builder {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	b := &Builder{
		poolSize: poolSize,
		lang:     "en",
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// article is a read file awaiting upsert.
type article struct {
	title   string
	content string
	ok      bool
}

// Build ingests every *.txt file under articlesDir into the store, in
// lexicographic filename order. Unreadable files and failed upserts are
// skipped with a warning; the cap counts successful ingests, so a skipped
// file does not consume a slot. Returns the number of articles ingested
// and updates the sibling metadata record afterwards.
func (b *Builder) Build(ctx context.Context, articlesDir string, store storage.CorpusStore) (int, error) {
	// Glob returns paths already sorted lexicographically.
	paths, err := filepath.Glob(filepath.Join(articlesDir, "*.txt"))
	if err != nil {
		return 0, err
	}

	pool, err := ants.NewPool(b.poolSize)
	if err != nil {
		return 0, err
	}
	defer pool.Release()

	// Read concurrently; slots keep filename order for the upsert pass.
	articles := make([]article, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				b.logger.Warn("skipping unreadable article file", "path", path, "err", readErr)
				return
			}
			articles[i] = article{
				title:   strings.TrimSuffix(filepath.Base(path), ".txt"),
				content: string(data),
				ok:      true,
			}
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return 0, submitErr
		}
	}
	wg.Wait()

	count := 0
	for _, a := range articles {
		if b.limit > 0 && count >= b.limit {
			break
		}
		if !a.ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if _, err := store.UpsertArticle(ctx, a.title, a.content); err != nil {
			b.logger.Warn("skipping article", "title", a.title, "err", err)
			continue
		}
		count++
	}

	b.logger.Info("corpus build complete", "articles", count, "dir", articlesDir)

	if err := b.writeMetadata(articlesDir, count); err != nil {
		b.logger.Warn("failed to update corpus metadata", "err", err)
	}
	return count, nil
}
