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
	"errors"
	"fmt"

	"github.com/quaerolabs/quaero/core"
	"github.com/quaerolabs/quaero/storage"
	"github.com/quaerolabs/quaero/web"
)

// ProcessQuery answers a query under the active mode. Every call
// returns a result with an explicit success flag; adapter faults are
// folded into the response text. The only error return is a corpus
// store that cannot be reached at all.
func (e *Engine) ProcessQuery(ctx context.Context, query string) (*core.QueryResult, error) {
	if err := core.ValidateQuery(query); err != nil {
		// Rejected before any cache or history write.
		return &core.QueryResult{
			Query:     query,
			Success:   false,
			Response:  "query must not be empty",
			Mode:      e.Mode(),
			Timestamp: e.now().UTC(),
		}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	mode := e.mode

	cached, err := e.cache.Get(ctx, query, mode)
	if err == nil {
		e.logger.Debug("cache hit", "query", query, "mode", mode)
		return cached, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		e.logger.Warn("cache read failed, treating as miss", "err", err)
	}

	result, err := e.dispatch(ctx, query, mode)
	if err != nil {
		return nil, err
	}
	result.Timestamp = e.now().UTC()

	if err := e.cache.Put(ctx, result); err != nil {
		e.logger.Warn("could not cache result", "query", query, "err", err)
	}
	entry := &core.HistoryEntry{Query: query, Mode: mode, Timestamp: result.Timestamp}
	if err := e.history.Append(ctx, entry); err != nil {
		e.logger.Warn("could not append history", "query", query, "err", err)
	}

	return result, nil
}

// dispatch runs the adapters for one cache-missed query. Only
// storage.ErrUnavailable escapes as an error; everything else becomes
// a structured result.
func (e *Engine) dispatch(ctx context.Context, query string, mode core.Mode) (*core.QueryResult, error) {
	result := &core.QueryResult{Query: query, Mode: mode}

	switch mode {
	case core.ModeOffline:
		text, err := e.searchOffline(ctx, query)
		if err != nil {
			if errors.Is(err, storage.ErrUnavailable) {
				return nil, err
			}
			result.Response = offlineFailureText(err)
			return result, nil
		}
		result.Success = true
		result.Response = text
		result.Sources = []string{core.SourceOffline}
		return result, nil

	case core.ModeOnline:
		text, err := e.web.Search(ctx, query)
		if err != nil {
			result.Response = webFailureText(err)
			return result, nil
		}
		result.Success = true
		result.Response = text
		result.Sources = []string{core.SourceWeb}
		return result, nil

	default: // hybrid
		offlineText, offlineErr := e.searchOffline(ctx, query)
		if offlineErr != nil && errors.Is(offlineErr, storage.ErrUnavailable) {
			return nil, offlineErr
		}

		webText, webErr := e.web.Search(ctx, query)

		switch {
		case offlineErr == nil && webErr == nil:
			result.Success = true
			result.Response = offlineText + "\n\n" + webText
			result.Sources = []string{core.SourceOffline, core.SourceWeb}
		case offlineErr == nil:
			// Web failed, fall back silently to the offline result.
			e.logger.Debug("web augmentation failed", "query", query, "err", webErr)
			result.Success = true
			result.Response = offlineText
			result.Sources = []string{core.SourceOffline}
		case webErr == nil:
			result.Success = true
			result.Response = webText
			result.Sources = []string{core.SourceWeb}
		default:
			result.Response = offlineFailureText(offlineErr) + "; " + webFailureText(webErr)
		}
		return result, nil
	}
}

// searchOffline gates the offline adapter behind its readiness check.
func (e *Engine) searchOffline(ctx context.Context, query string) (string, error) {
	if err := e.offline.EnsureReady(ctx); err != nil {
		return "", err
	}
	return e.offline.Search(ctx, query)
}

func offlineFailureText(err error) string {
	if errors.Is(err, storage.ErrNotFound) {
		return "no offline results found"
	}
	return fmt.Sprintf("offline search unavailable: %v", err)
}

func webFailureText(err error) string {
	return fmt.Sprintf("web search failed: %s", web.NormalizeError(err).Reason)
}
