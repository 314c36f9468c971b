package badger

import (
	"encoding/binary"
	"time"

	"github.com/quaerolabs/quaero/core"
)

// Key prefixes for different data types
const (
	cachePrefix    = "qcache"
	historyPrefix  = "qhist"
	historySeqName = "qhistseq"
	modeSettingKey = "qset:mode"
)

// makeCacheKey generates a key for a cached result by its (query, mode) id.
func makeCacheKey(id core.ID) []byte {
	prefix := cachePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeHistoryKey generates a composite key for a history entry.
// Format: prefix:timestamp:seq
func makeHistoryKey(timestamp time.Time, seq uint64) []byte {
	prefix := historyPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for sequence
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makePartialHistoryKey generates a partial key for history scans.
// Format: prefix:timestamp
func makePartialHistoryKey(timestamp time.Time) []byte {
	prefix := historyPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}
