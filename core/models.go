package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for content-addressed records.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SummaryLength is the number of leading characters of an article's content
// that form its summary. Corpora produced by external tooling use the same
// prefix length, so it must not change.
const SummaryLength = 500

// Mode selects which sources the engine consults for a query.
type Mode string

const (
	// ModeHybrid consults the offline corpus first and augments with web results.
	ModeHybrid Mode = "hybrid"
	// ModeOnline consults the web collaborator only.
	ModeOnline Mode = "online"
	// ModeOffline consults the offline corpus only.
	ModeOffline Mode = "offline"
)

// ParseMode parses a mode token case-insensitively.
// Anything other than the three known tokens yields ErrInvalidMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeHybrid:
		return ModeHybrid, nil
	case ModeOnline:
		return ModeOnline, nil
	case ModeOffline:
		return ModeOffline, nil
	default:
		return "", ErrInvalidMode
	}
}

// Article is a persisted corpus entry. Title is the natural key; re-inserting
// an existing title replaces content, summary and timestamp, and the internal
// id may be regenerated.
type Article struct {
	ID          int64
	Title       string
	Content     string
	Summary     string
	LastUpdated time.Time
}

// Summarize returns the summary derived from content: its first
// SummaryLength characters.
func Summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= SummaryLength {
		return content
	}
	return string(runes[:SummaryLength])
}

// Source names for QueryResult.Sources.
const (
	SourceWeb     = "web"
	SourceOffline = "offline"
)

// QueryResult is the engine's answer to a single query. It is returned to
// the caller and cached under (query, mode).
type QueryResult struct {
	Query     string
	Success   bool
	Response  string
	Mode      Mode
	Sources   []string
	Timestamp time.Time
}

// CacheID returns the content-addressed cache key for a (query, mode) pair.
func CacheID(query string, mode Mode) ID {
	return IDFromContent(string(mode) + "\n" + query)
}

// HistoryEntry is an append-only record of an answered query.
type HistoryEntry struct {
	Query     string
	Mode      Mode
	Timestamp time.Time
}
