package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/quaerolabs/quaero/core"
	"github.com/quaerolabs/quaero/storage"
)

// State is the readiness state of a Searcher.
type State int

const (
	// StateUninitialized means the corpus has not been checked yet.
	StateUninitialized State = iota
	// StateBuilding means a corpus build is in progress.
	StateBuilding
	// StateReady means the corpus is populated and serving lookups.
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Builder populates an empty corpus store. It reports how many articles it
// ingested.
type Builder interface {
	Build(ctx context.Context) (int, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(ctx context.Context) (int, error)

// Build calls f.
func (f BuilderFunc) Build(ctx context.Context) (int, error) { return f(ctx) }

// Searcher provides ranked keyword search over the offline corpus.
type Searcher struct {
	store   storage.CorpusStore
	builder Builder
	state   State
	logger  *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithBuilder sets the builder invoked when the corpus is found empty.
// Without a builder an empty corpus is served as-is (every lookup misses).
func WithBuilder(builder Builder) Option {
	return func(s *Searcher) error {
		s.builder = builder
		return nil
	}
}

// NewSearcher creates a new searcher over the corpus store.
func NewSearcher(store storage.CorpusStore, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrCorpusStoreRequired
	}

	s := &Searcher{
		store:  store,
		state:  StateUninitialized,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// State returns the current readiness state.
func (s *Searcher) State() State {
	return s.state
}

// EnsureReady makes the corpus servable. If the store already holds
// articles the gate closes immediately; otherwise the configured builder
// runs once. Subsequent calls short-circuit.
func (s *Searcher) EnsureReady(ctx context.Context) error {
	if s.state == StateReady {
		return nil
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 || s.builder == nil {
		s.state = StateReady
		return nil
	}

	s.state = StateBuilding
	s.logger.Info("corpus empty, building")
	ingested, err := s.builder.Build(ctx)
	if err != nil {
		s.state = StateUninitialized
		return fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	s.logger.Info("corpus build finished", "articles", ingested)
	s.state = StateReady
	return nil
}

// Search tokenizes the query and returns the content of the best-matching
// article: the one whose title shares the most tokens with the query, ties
// broken by most recent update. Returns storage.ErrNotFound when no token
// matches any indexed keyword.
func (s *Searcher) Search(ctx context.Context, query string) (string, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor is Search with observation hooks.
// The monitor receives callbacks at each stage of the lookup.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) (string, error) {
	article, err := s.lookup(ctx, query, monitor)
	if err != nil {
		return "", err
	}
	return article.Content, nil
}

// SearchSummary is Search returning the article's condensed summary.
func (s *Searcher) SearchSummary(ctx context.Context, query string) (string, error) {
	article, err := s.lookup(ctx, query, nil)
	if err != nil {
		return "", err
	}
	return article.Summary, nil
}

func (s *Searcher) lookup(ctx context.Context, query string, monitor SearchMonitor) (*core.Article, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}

	tokens := core.Keywords(query)
	if len(tokens) == 0 {
		return nil, storage.ErrNotFound
	}

	// Tally how many query tokens each article matches.
	hits := make(map[int64]int)
	for _, token := range tokens {
		ids, err := s.store.LookupByKeyword(ctx, token)
		if err != nil {
			return nil, err
		}
		monitor.AfterTokenLookup(token, ids)
		for _, id := range ids {
			hits[id]++
		}
	}
	if len(hits) == 0 {
		return nil, storage.ErrNotFound
	}

	best := 0
	for _, n := range hits {
		if n > best {
			best = n
		}
	}

	var candidates []*core.Article
	for id, n := range hits {
		if n != best {
			continue
		}
		article, err := s.store.GetArticle(ctx, id)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, article)
	}
	monitor.AfterCandidateRetrieval(candidates)

	// Most recently updated wins; id breaks remaining ties for a stable
	// result on a given store state.
	slices.SortFunc(candidates, func(a, b *core.Article) int {
		if !a.LastUpdated.Equal(b.LastUpdated) {
			if a.LastUpdated.After(b.LastUpdated) {
				return -1
			}
			return 1
		}
		if a.ID > b.ID {
			return -1
		}
		if a.ID < b.ID {
			return 1
		}
		return 0
	})
	monitor.Finish(candidates[0])
	return candidates[0], nil
}

// ListArticles returns up to limit titles for operator introspection.
func (s *Searcher) ListArticles(ctx context.Context, limit int) ([]string, error) {
	return s.store.ListTitles(ctx, limit)
}

// ArticleCount returns the total number of articles in the corpus.
func (s *Searcher) ArticleCount(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
