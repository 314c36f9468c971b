package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/quaerolabs/quaero/core"
	"github.com/quaerolabs/quaero/storage"

	_ "modernc.org/sqlite"
)

// timeLayout is the timestamp format written by the external corpus
// tooling (sqlite's datetime('now')). Reading tolerates RFC 3339 as well.
const timeLayout = "2006-01-02 15:04:05"

// schema must stay byte-compatible with externally produced corpora.
const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id            INTEGER PRIMARY KEY,
	title         TEXT UNIQUE NOT NULL,
	content       TEXT NOT NULL,
	summary       TEXT,
	last_updated  TIMESTAMP
);

CREATE TABLE IF NOT EXISTS search_index (
	id          INTEGER PRIMARY KEY,
	article_id  INTEGER NOT NULL,
	keyword     TEXT NOT NULL,
	FOREIGN KEY (article_id) REFERENCES articles(id)
);
`

// Store implements storage.CorpusStore over a sqlite database file.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ storage.CorpusStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// WithClock overrides the time source used for last_updated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens (creating if absent) the corpus database at path and ensures
// the schema exists. It is idempotent: opening an already initialized
// corpus leaves it untouched. An unreadable or unwritable path surfaces as
// storage.ErrUnavailable.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: creating corpus directory: %w", storage.ErrUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening corpus: %w", storage.ErrUnavailable, err)
	}
	// sqlite allows a single writer; funnel all statements through one
	// connection so per-article transactions never contend with each other.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: initializing schema: %w", storage.ErrUnavailable, err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertArticle inserts or replaces the article identified by title and
// rebuilds its keyword index rows. The whole operation is one transaction.
func (s *Store) UpsertArticle(ctx context.Context, title, content string) (*core.Article, error) {
	article := &core.Article{
		Title:       title,
		Content:     content,
		Summary:     core.Summarize(content),
		LastUpdated: s.now().UTC().Truncate(time.Second),
	}
	if err := core.ValidateArticle(article); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: beginning upsert: %w", storage.ErrUnavailable, err)
	}
	defer tx.Rollback()

	// Drop index rows of a previous version first: INSERT OR REPLACE
	// regenerates the row id, which would otherwise orphan them.
	var oldID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM articles WHERE title = ?`, title).Scan(&oldID)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `DELETE FROM search_index WHERE article_id = ?`, oldID); err != nil {
			return nil, fmt.Errorf("%w: clearing index: %w", storage.ErrUnavailable, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		// first insert
	default:
		return nil, fmt.Errorf("%w: looking up title: %w", storage.ErrUnavailable, err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO articles (title, content, summary, last_updated) VALUES (?, ?, ?, ?)`,
		article.Title, article.Content, article.Summary, article.LastUpdated.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("%w: upserting article %q: %w", storage.ErrUnavailable, title, err)
	}
	article.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: reading article id: %w", storage.ErrUnavailable, err)
	}

	// Keywords come from the title only; duplicate tokens produce duplicate
	// rows, matching externally produced corpora.
	for _, keyword := range core.Keywords(title) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO search_index (article_id, keyword) VALUES (?, ?)`,
			article.ID, keyword); err != nil {
			return nil, fmt.Errorf("%w: indexing keyword %q: %w", storage.ErrUnavailable, keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing upsert: %w", storage.ErrUnavailable, err)
	}
	return article, nil
}

// LookupByKeyword returns the ids of articles indexed under the normalized
// keyword, each at most once, ordered by id.
func (s *Store) LookupByKeyword(ctx context.Context, keyword string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT article_id FROM search_index WHERE keyword = ? ORDER BY article_id`, keyword)
	if err != nil {
		return nil, fmt.Errorf("%w: keyword lookup: %w", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning keyword row: %w", storage.ErrUnavailable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading keyword rows: %w", storage.ErrUnavailable, err)
	}
	return ids, nil
}

// GetArticle retrieves a single article by id.
func (s *Store) GetArticle(ctx context.Context, id int64) (*core.Article, error) {
	article := &core.Article{}
	var summary sql.NullString
	var updated sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, summary, last_updated FROM articles WHERE id = ?`, id).
		Scan(&article.ID, &article.Title, &article.Content, &summary, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading article %d: %w", storage.ErrUnavailable, id, err)
	}
	article.Summary = summary.String
	if updated.Valid {
		article.LastUpdated = parseTimestamp(updated.String)
	}
	return article, nil
}

// ListTitles returns up to limit titles, most recently updated first.
func (s *Store) ListTitles(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM articles ORDER BY last_updated DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing titles: %w", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("%w: scanning title: %w", storage.ErrUnavailable, err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading titles: %w", storage.ErrUnavailable, err)
	}
	return titles, nil
}

// Count returns the total number of articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting articles: %w", storage.ErrUnavailable, err)
	}
	return count, nil
}

// ListIDs returns the ids of all articles, ascending. Used by reindexing.
func (s *Store) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM articles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing ids: %w", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning id: %w", storage.ErrUnavailable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading ids: %w", storage.ErrUnavailable, err)
	}
	return ids, nil
}

// RebuildIndex deletes and rebuilds the keyword index rows for the given
// articles from their current titles, one transaction per batch.
func (s *Store) RebuildIndex(ctx context.Context, ids ...int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning reindex: %w", storage.ErrUnavailable, err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		var title string
		err := tx.QueryRowContext(ctx, `SELECT title FROM articles WHERE id = ?`, id).Scan(&title)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: reading title for %d: %w", storage.ErrUnavailable, id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM search_index WHERE article_id = ?`, id); err != nil {
			return fmt.Errorf("%w: clearing index for %d: %w", storage.ErrUnavailable, id, err)
		}
		for _, keyword := range core.Keywords(title) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO search_index (article_id, keyword) VALUES (?, ?)`, id, keyword); err != nil {
				return fmt.Errorf("%w: indexing keyword %q: %w", storage.ErrUnavailable, keyword, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing reindex: %w", storage.ErrUnavailable, err)
	}
	return nil
}

// IndexRowCount returns the number of index rows for one article, duplicates
// included. Used by operator introspection and tests.
func (s *Store) IndexRowCount(ctx context.Context, id int64) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_index WHERE article_id = ?`, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting index rows: %w", storage.ErrUnavailable, err)
	}
	return count, nil
}

func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
