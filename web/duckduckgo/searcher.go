// Package duckduckgo implements web.Searcher over the DuckDuckGo search
// tool from langchaingo.
package duckduckgo

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/quaerolabs/quaero/web"
	"github.com/tmc/langchaingo/tools/duckduckgo"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxResults = 3
	defaultUserAgent  = "quaero/1.0 (hybrid search engine)"

	// The tool reports an empty result set as this text with a nil error.
	noResultsText = "No good DuckDuckGo Search Results was found"
)

// Searcher implements web.Searcher against DuckDuckGo.
type Searcher struct {
	tool    *duckduckgo.Tool
	timeout time.Duration
	logger  *slog.Logger
}

var _ web.Searcher = (*Searcher)(nil)

// Option configures a Searcher.
type Option func(*config)

type config struct {
	timeout    time.Duration
	maxResults int
	userAgent  string
	logger     *slog.Logger
}

// WithTimeout bounds each collaborator call. Default is 10s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMaxResults sets how many hits the collaborator folds into its answer.
func WithMaxResults(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent to the collaborator.
func WithUserAgent(ua string) Option {
	return func(c *config) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a DuckDuckGo-backed searcher.
func New(opts ...Option) (*Searcher, error) {
	cfg := &config{
		timeout:    defaultTimeout,
		maxResults: defaultMaxResults,
		userAgent:  defaultUserAgent,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tool, err := duckduckgo.New(cfg.maxResults, cfg.userAgent)
	if err != nil {
		return nil, err
	}
	return &Searcher{
		tool:    tool,
		timeout: cfg.timeout,
		logger:  cfg.logger,
	}, nil
}

// Search asks the collaborator and normalizes every fault into *web.Failure.
// No retry is performed here.
func (s *Searcher) Search(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.tool.Call(ctx, query)
	if err != nil {
		s.logger.Warn("web search failed", "query", query, "err", err)
		return "", web.NormalizeError(err)
	}

	text = strings.TrimSpace(text)
	if text == "" || text == noResultsText {
		return "", web.NewFailure("no results")
	}
	return text, nil
}
