package web

import "context"

// Searcher answers a free-text query with the collaborator's result text.
// Implementations must normalize every fault into a *Failure and must not
// retry; retry policy, if any, belongs to the caller.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}
