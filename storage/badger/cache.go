package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/quaerolabs/quaero/core"
	"github.com/quaerolabs/quaero/storage"
)

// Cache implements storage.ResultCache for BadgerDB. Entries are keyed by
// the content hash of (mode, query); the most recent Put for a key wins.
type Cache struct {
	backend *Backend
}

var _ storage.ResultCache = (*Cache)(nil)

// NewCache creates a new result cache over the backend.
func NewCache(backend *Backend) *Cache {
	return &Cache{backend: backend}
}

// Get returns the cached result for (query, mode), or storage.ErrNotFound.
func (c *Cache) Get(ctx context.Context, query string, mode core.Mode) (*core.QueryResult, error) {
	var result *core.QueryResult
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCacheKey(core.CacheID(query, mode)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalQueryResult(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Put stores the result under its (query, mode) pair.
func (c *Cache) Put(ctx context.Context, result *core.QueryResult) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCacheKey(core.CacheID(result.Query, result.Mode))
		if err := tx.Set(key, storage.MarshalQueryResult(result)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Clear removes every cached result. History entries live under a different
// prefix and are untouched.
func (c *Cache) Clear(ctx context.Context) error {
	return c.backend.DropPrefix([]byte(cachePrefix + ":"))
}
