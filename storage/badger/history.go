package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/quaerolabs/quaero/core"
	"github.com/quaerolabs/quaero/storage"
)

// defaultRecentLimit is used when Recent is called with limit <= 0.
const defaultRecentLimit = 10

// History implements storage.HistoryLog for BadgerDB. Keys sort by
// timestamp, with a sequence component so entries appended within the same
// microsecond never collide.
type History struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.HistoryLog = (*History)(nil)

// NewHistory creates a new history log over the backend.
func NewHistory(backend *Backend) (*History, error) {
	seq, err := backend.GetSequence(historySeqName)
	if err != nil {
		return nil, err
	}
	return &History{backend: backend, seq: seq}, nil
}

// Close releases the sequence.
func (h *History) Close() error {
	return h.seq.Release()
}

// Append adds an entry to the log.
func (h *History) Append(ctx context.Context, entry *core.HistoryEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	seq, err := h.seq.Next()
	if err != nil {
		return err
	}
	return h.backend.WithTx(func(tx *badger.Txn) error {
		key := makeHistoryKey(entry.Timestamp, seq)
		if err := tx.Set(key, storage.MarshalHistoryEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Recent returns up to limit entries, most recent first.
func (h *History) Recent(ctx context.Context, limit int) ([]*core.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var results []*core.HistoryEntry
	err := h.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent entries first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key with the history prefix
		startKey := makeHistoryKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC), ^uint64(0))
		prefix := []byte(historyPrefix + ":")

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var entry *core.HistoryEntry
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				entry, unmarshalErr = storage.UnmarshalHistoryEntry(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			results = append(results, entry)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}
