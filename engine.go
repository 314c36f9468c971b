// Copyright 2025 Quaero Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package quaero

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/quaerolabs/quaero/core"
	"github.com/quaerolabs/quaero/storage"
	badgerstore "github.com/quaerolabs/quaero/storage/badger"
	"github.com/quaerolabs/quaero/web"
)

// OfflineSearcher is the offline adapter surface the engine needs.
// *search.Searcher satisfies it.
type OfflineSearcher interface {
	EnsureReady(ctx context.Context) error
	Search(ctx context.Context, query string) (string, error)
	ListArticles(ctx context.Context, limit int) ([]string, error)
	ArticleCount(ctx context.Context) (int, error)
}

// Engine is the query orchestrator. It owns the result cache, the
// history log, and the active mode, and dispatches queries to the
// offline and web adapters per the mode policy.
type Engine struct {
	mu      sync.Mutex
	mode    core.Mode
	offline OfflineSearcher
	web     web.Searcher

	backend  *badgerstore.Backend
	cache    storage.ResultCache
	history  storage.HistoryLog
	settings storage.Settings

	logger *slog.Logger
	now    func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	mode     core.Mode
	logger   *slog.Logger
	now      func() time.Time
	inMemory bool
}

// WithMode sets the starting mode used when no mode has been persisted.
// Default is hybrid.
func WithMode(mode core.Mode) EngineOption {
	return func(o *engineOptions) {
		o.mode = mode
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// WithClock overrides the timestamp source. Used in tests.
func WithClock(now func() time.Time) EngineOption {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithInMemoryState keeps the cache, history, and settings state in
// memory instead of on disk. Used in tests.
func WithInMemoryState() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// Open creates an engine over the given state directory, offline
// adapter, and web collaborator. The persisted mode, if any, wins over
// the WithMode default.
func Open(statePath string, offline OfflineSearcher, websearch web.Searcher, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		mode:   core.ModeHybrid,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badgerstore.OpenBackend(statePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	history, err := badgerstore.NewHistory(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	e := &Engine{
		mode:     options.mode,
		offline:  offline,
		web:      websearch,
		backend:  backend,
		cache:    badgerstore.NewCache(backend),
		history:  history,
		settings: badgerstore.NewSettings(backend),
		logger:   options.logger,
		now:      options.now,
	}

	if mode, ok, err := e.settings.Mode(context.Background()); err != nil {
		e.logger.Warn("could not read persisted mode", "err", err)
	} else if ok {
		e.mode = mode
	}

	return e, nil
}

// Close releases the engine's state storage.
func (e *Engine) Close() error {
	if closer, ok := e.history.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			e.logger.Error("error closing history log", "err", err)
		}
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing state storage", "err", err)
		return err
	}
	return nil
}

// Mode returns the active mode.
func (e *Engine) Mode() core.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetMode updates and persists the active mode. The candidate token is
// parsed case-insensitively; an unknown token leaves the mode unchanged
// and returns false.
func (e *Engine) SetMode(ctx context.Context, candidate string) (bool, error) {
	mode, err := core.ParseMode(candidate)
	if err != nil {
		return false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.settings.SetMode(ctx, mode); err != nil {
		return false, err
	}
	e.mode = mode
	return true, nil
}

// History returns up to limit history entries, most recent first.
func (e *Engine) History(ctx context.Context, limit int) ([]*core.HistoryEntry, error) {
	return e.history.Recent(ctx, limit)
}

// ClearCache removes all cached query results. History is untouched.
func (e *Engine) ClearCache(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.Clear(ctx)
}

// OfflineTitles lists up to limit article titles, most recently
// updated first.
func (e *Engine) OfflineTitles(ctx context.Context, limit int) ([]string, error) {
	return e.offline.ListArticles(ctx, limit)
}

// OfflineCount returns the number of articles in the offline corpus.
func (e *Engine) OfflineCount(ctx context.Context) (int, error) {
	return e.offline.ArticleCount(ctx)
}
