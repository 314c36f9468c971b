package search

import (
	"github.com/quaerolabs/quaero/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterTokenLookup(token string, ids []int64)
	AfterCandidateRetrieval(candidates []*core.Article)
	Finish(best *core.Article)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterTokenLookup(_ string, _ []int64)      {}
func (n *noopMonitor) AfterCandidateRetrieval(_ []*core.Article) {}
func (n *noopMonitor) Finish(_ *core.Article)                    {}
