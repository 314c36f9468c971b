package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("quantum computing")
		id2 := IDFromContent("quantum computing")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content produces different IDs", func(t *testing.T) {
		id1 := IDFromContent("quantum computing")
		id2 := IDFromContent("classical computing")
		assert.NotEqual(t, id1, id2)
	})
}

func TestCacheID(t *testing.T) {
	t.Run("mode is part of the key", func(t *testing.T) {
		assert.NotEqual(t, CacheID("cats", ModeOffline), CacheID("cats", ModeOnline))
	})

	t.Run("query and mode cannot collide across the separator", func(t *testing.T) {
		// "offline" + "\nx" must differ from a mode literally named "offline\nx"
		assert.NotEqual(t, CacheID("a\nb", ModeOffline), CacheID("b", Mode("offline\na")))
	})
}

func TestParseMode(t *testing.T) {
	t.Run("accepts the three tokens", func(t *testing.T) {
		for _, tok := range []string{"hybrid", "online", "offline"} {
			mode, err := ParseMode(tok)
			require.NoError(t, err)
			assert.Equal(t, Mode(tok), mode)
		}
	})

	t.Run("case-insensitive", func(t *testing.T) {
		mode, err := ParseMode("OFFLINE")
		require.NoError(t, err)
		assert.Equal(t, ModeOffline, mode)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		mode, err := ParseMode("  hybrid ")
		require.NoError(t, err)
		assert.Equal(t, ModeHybrid, mode)
	})

	t.Run("rejects unknown tokens", func(t *testing.T) {
		_, err := ParseMode("bogus")
		assert.ErrorIs(t, err, ErrInvalidMode)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseMode("")
		assert.ErrorIs(t, err, ErrInvalidMode)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("short content is returned unchanged", func(t *testing.T) {
		assert.Equal(t, "Cats are mammals.", Summarize("Cats are mammals."))
	})

	t.Run("long content is cut to SummaryLength characters", func(t *testing.T) {
		content := strings.Repeat("a", SummaryLength+100)
		summary := Summarize(content)
		assert.Len(t, summary, SummaryLength)
	})

	t.Run("truncation counts characters, not bytes", func(t *testing.T) {
		content := strings.Repeat("ä", SummaryLength+1)
		summary := Summarize(content)
		assert.Equal(t, SummaryLength, len([]rune(summary)))
	})
}
