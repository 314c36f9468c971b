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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/quaerolabs/quaero"
	"github.com/quaerolabs/quaero/config"
	"github.com/quaerolabs/quaero/core"
	"github.com/quaerolabs/quaero/ingest"
	"github.com/quaerolabs/quaero/reindex"
	"github.com/quaerolabs/quaero/search"
	"github.com/quaerolabs/quaero/storage/sqlite"
	"github.com/quaerolabs/quaero/web/duckduckgo"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "quaero",
		Usage: "Hybrid offline/web search engine over a local article corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "state",
				Usage: "Override the engine state directory",
			},
			&cli.StringFlag{
				Name:  "corpus",
				Usage: "Override the corpus database path",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Answer a query under the active mode",
				ArgsUsage: "<query>",
				Action:    searchCommand,
			},
			{
				Name:      "mode",
				Usage:     "Show or set the active mode (hybrid, online, offline)",
				ArgsUsage: "[mode]",
				Action:    modeCommand,
			},
			{
				Name:   "history",
				Usage:  "Show recently answered queries, most recent first",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of entries to show",
						Value:   10,
					},
				},
			},
			{
				Name:   "offline-list",
				Usage:  "List offline corpus titles and the total article count",
				Action: offlineListCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of titles to show",
						Value:   20,
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Clear all cached query results",
				Action: clearCommand,
			},
			{
				Name:   "build",
				Usage:  "Build the offline corpus from a directory of article files",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "articles",
						Usage: "Directory of <title>.txt article files (default from config)",
					},
					&cli.IntFlag{
						Name:  "max",
						Usage: "Cap the number of ingested articles (0 = no cap)",
					},
					&cli.StringFlag{
						Name:  "lang",
						Usage: "Language code for the corpus metadata record",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the keyword index from stored article titles",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of articles to rebuild per transaction",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N articles",
						Value: 100,
					},
				},
			},
		},
	}
}

// env resolves the configuration plus any command-line overrides.
type env struct {
	cfg        *config.Config
	corpusPath string
	statePath  string
}

func resolveEnv(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:        cfg,
		corpusPath: cfg.CorpusPath(),
		statePath:  cfg.StateDir,
	}
	if path := c.String("corpus"); path != "" {
		e.corpusPath = path
	}
	if path := c.String("state"); path != "" {
		e.statePath = path
	}
	return e, nil
}

// openEngine wires the full stack: sqlite corpus, offline searcher with
// an ingestion-backed builder, web collaborator, and the engine state.
// The returned closer tears everything down in reverse order.
func openEngine(c *cli.Context) (*quaero.Engine, func(), error) {
	e, err := resolveEnv(c)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlite.Open(e.corpusPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open corpus: %w", err)
	}

	builder := ingest.NewBuilder(
		ingest.WithLimit(e.cfg.BuildLimit),
		ingest.WithLang(e.cfg.Lang),
	)
	offline, err := search.NewSearcher(store,
		search.WithBuilder(search.BuilderFunc(func(ctx context.Context) (int, error) {
			return builder.Build(ctx, e.cfg.ArticlesDir(), store)
		})),
	)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	webOpts := []duckduckgo.Option{
		duckduckgo.WithTimeout(e.cfg.WebTimeoutDuration()),
	}
	if e.cfg.WebMaxResults > 0 {
		webOpts = append(webOpts, duckduckgo.WithMaxResults(e.cfg.WebMaxResults))
	}
	websearch, err := duckduckgo.New(webOpts...)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create web searcher: %w", err)
	}

	engine, err := quaero.Open(e.statePath, offline, websearch,
		quaero.WithMode(e.cfg.Mode()),
	)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to open engine state: %w", err)
	}

	cleanup := func() {
		if err := engine.Close(); err != nil {
			slog.Error("error closing engine", "err", err)
		}
		if err := store.Close(); err != nil {
			slog.Error("error closing corpus", "err", err)
		}
	}
	return engine, cleanup, nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("usage: search <query>")
	}
	query := strings.Join(c.Args().Slice(), " ")

	engine, cleanup, err := openEngine(c)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := engine.ProcessQuery(c.Context, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(result.Response)
	fmt.Println()
	status := "ok"
	if !result.Success {
		status = "failed"
	}
	fmt.Printf("status: %s  mode: %s  sources: %s  time: %s\n",
		status, result.Mode, strings.Join(result.Sources, ","),
		result.Timestamp.Format("2006-01-02 15:04:05"))
	return nil
}

func modeCommand(c *cli.Context) error {
	engine, cleanup, err := openEngine(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if c.NArg() == 0 {
		fmt.Printf("mode: %s\n", engine.Mode())
		return nil
	}

	candidate := c.Args().First()
	ok, err := engine.SetMode(c.Context, candidate)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("invalid mode %q: must be one of %s, %s, %s",
			candidate, core.ModeHybrid, core.ModeOnline, core.ModeOffline)
	}
	fmt.Printf("mode: %s\n", engine.Mode())
	return nil
}

func historyCommand(c *cli.Context) error {
	engine, cleanup, err := openEngine(c)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := engine.History(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no history")
		return nil
	}
	for _, entry := range entries {
		fmt.Printf("%s  [%s]  %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Mode, entry.Query)
	}
	return nil
}

func offlineListCommand(c *cli.Context) error {
	engine, cleanup, err := openEngine(c)
	if err != nil {
		return err
	}
	defer cleanup()

	titles, err := engine.OfflineTitles(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	count, err := engine.OfflineCount(c.Context)
	if err != nil {
		return err
	}

	for _, title := range titles {
		fmt.Println(title)
	}
	fmt.Printf("%d articles total\n", count)
	return nil
}

func clearCommand(c *cli.Context) error {
	engine, cleanup, err := openEngine(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := engine.ClearCache(c.Context); err != nil {
		return err
	}
	fmt.Println("cache cleared")
	return nil
}

func buildCommand(c *cli.Context) error {
	e, err := resolveEnv(c)
	if err != nil {
		return err
	}

	articlesDir := c.String("articles")
	if articlesDir == "" {
		articlesDir = e.cfg.ArticlesDir()
	}

	store, err := sqlite.Open(e.corpusPath)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer store.Close()

	opts := []ingest.Option{ingest.WithLang(e.cfg.Lang)}
	if lang := c.String("lang"); lang != "" {
		opts = []ingest.Option{ingest.WithLang(lang)}
	}
	if max := c.Int("max"); max > 0 {
		opts = append(opts, ingest.WithLimit(max))
	} else if e.cfg.BuildLimit > 0 {
		opts = append(opts, ingest.WithLimit(e.cfg.BuildLimit))
	}

	fmt.Fprintf(os.Stderr, "Corpus: %s\n", e.corpusPath)
	fmt.Fprintf(os.Stderr, "Articles: %s\n", articlesDir)

	count, err := ingest.NewBuilder(opts...).Build(c.Context, articlesDir, store)
	if err != nil {
		return fmt.Errorf("corpus build failed: %w", err)
	}
	fmt.Printf("ingested %d articles\n", count)
	return nil
}

func reindexCommand(c *cli.Context) error {
	e, err := resolveEnv(c)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(e.corpusPath)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer store.Close()

	cfg := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if cfg.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	fmt.Fprintf(os.Stderr, "Corpus: %s\n", e.corpusPath)

	if err := reindex.NewRunner(store, cfg, os.Stderr).Run(c.Context); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
