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


// Package mock provides a test double for web.Searcher.
package mock

import (
	"context"
	"sync"

	"github.com/quaerolabs/quaero/web"
)

// Searcher is a scripted, call-counting web.Searcher.
// Tests use Calls to assert whether the engine reached the collaborator.
type Searcher struct {
	mu sync.Mutex

	// Response is returned on success when SearchFunc is nil.
	Response string
	// Err, when set, is returned instead of Response.
	Err error
	// SearchFunc, when set, overrides the scripted behavior entirely.
	SearchFunc func(ctx context.Context, query string) (string, error)

	calls int
}

var _ web.Searcher = (*Searcher)(nil)

// NewSearcher creates a mock that answers every query with response.
func NewSearcher(response string) *Searcher {
	return &Searcher{Response: response}
}

// NewFailingSearcher creates a mock that fails every query with reason.
func NewFailingSearcher(reason string) *Searcher {
	return &Searcher{Err: web.NewFailure(reason)}
}

// Search implements web.Searcher.
func (s *Searcher) Search(ctx context.Context, query string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.SearchFunc != nil {
		return s.SearchFunc(ctx, query)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

// Calls returns how many times Search has been invoked.
func (s *Searcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
