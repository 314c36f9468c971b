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

package reindex

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Indexable is the store surface the runner needs. *sqlite.Store
// satisfies it.
type Indexable interface {
	ListIDs(ctx context.Context) ([]int64, error)
	RebuildIndex(ctx context.Context, ids ...int64) error
}

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of articles to rebuild per transaction
	BatchSize int

	// ReportInterval is how often to report progress (number of articles)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
	}
}

// Runner orchestrates rebuilding the search index for every article.
type Runner struct {
	store    Indexable
	config   *Config
	progress io.Writer
}

// NewRunner creates a new reindexing runner.
// progress: where to write progress output (typically os.Stderr)
func NewRunner(store Indexable, config *Config, progress io.Writer) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Runner{
		store:    store,
		config:   config,
		progress: progress,
	}
}

// Run rebuilds the index rows for every article in the corpus, batch by
// batch, reporting progress to the configured writer.
func (r *Runner) Run(ctx context.Context) error {
	ids, err := r.store.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}

	total := len(ids)
	if total == 0 {
		fmt.Fprintf(r.progress, "No articles found in corpus (0 articles)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d articles (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for start := 0; start < total; start += r.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + r.config.BatchSize
		if end > total {
			end = total
		}
		batch := ids[start:end]

		if err := r.store.RebuildIndex(ctx, batch...); err != nil {
			return fmt.Errorf("failed to rebuild batch: %w", err)
		}

		processed += len(batch)
		tracker.Update(processed)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d articles in %v (%.1f articles/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
