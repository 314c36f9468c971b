package storage

import (
	"context"

	"github.com/quaerolabs/quaero/core"
)

// CorpusStore provides operations over the persisted article corpus and its
// keyword index. Ingestion is the single writer; query serving only reads.
type CorpusStore interface {
	// UpsertArticle inserts or replaces the article identified by title,
	// recomputing summary and last-updated, and rebuilds that article's
	// keyword index rows from the new title. The article row and its index
	// rows commit together or not at all. The internal id may be
	// regenerated on replace.
	UpsertArticle(ctx context.Context, title, content string) (*core.Article, error)

	// LookupByKeyword returns the ids of articles whose title contains the
	// normalized keyword. Each matching article id appears once, ordered by
	// id; duplicate tokens within one title do not multiply results.
	LookupByKeyword(ctx context.Context, keyword string) ([]int64, error)

	// GetArticle retrieves a single article by id.
	// Returns ErrNotFound if the article doesn't exist.
	GetArticle(ctx context.Context, id int64) (*core.Article, error)

	// ListTitles returns up to limit titles, most recently updated first.
	ListTitles(ctx context.Context, limit int) ([]string, error)

	// Count returns the total number of articles.
	Count(ctx context.Context) (int, error)

	// Close closes the store and releases resources.
	Close() error
}

// ResultCache memoizes query results under their (query, mode) pair.
type ResultCache interface {
	// Get returns the cached result for (query, mode).
	// Returns ErrNotFound on a miss.
	Get(ctx context.Context, query string, mode core.Mode) (*core.QueryResult, error)

	// Put stores the result under its (query, mode) pair.
	// On key collision the most recent write wins.
	Put(ctx context.Context, result *core.QueryResult) error

	// Clear removes all cached results. It never touches history.
	Clear(ctx context.Context) error
}

// HistoryLog is an append-only, time-ordered record of answered queries.
type HistoryLog interface {
	// Append adds an entry to the log. Entries are never mutated or deleted.
	Append(ctx context.Context, entry *core.HistoryEntry) error

	// Recent returns up to limit entries, most recent first.
	// A limit <= 0 defaults to 10.
	Recent(ctx context.Context, limit int) ([]*core.HistoryEntry, error)
}

// Settings persists small operator-settable values across invocations.
type Settings interface {
	// Mode returns the persisted mode. The second return is false when no
	// mode has been persisted yet.
	Mode(ctx context.Context) (core.Mode, bool, error)

	// SetMode persists the mode.
	SetMode(ctx context.Context, mode core.Mode) error
}
