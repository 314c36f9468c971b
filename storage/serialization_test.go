package storage

import (
	"testing"
	"time"

	"github.com/quaerolabs/quaero/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryResultSerialization(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		original := &core.QueryResult{
			Query:     "quantum computing",
			Success:   true,
			Response:  "Quantum computers use qubits.",
			Mode:      core.ModeHybrid,
			Sources:   []string{core.SourceOffline, core.SourceWeb},
			Timestamp: time.Date(2025, 6, 1, 12, 30, 0, 123456000, time.UTC),
		}

		decoded, err := UnmarshalQueryResult(MarshalQueryResult(original))
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	})

	t.Run("failure result without sources", func(t *testing.T) {
		original := &core.QueryResult{
			Query:     "answer",
			Success:   false,
			Response:  "web search failure: timeout",
			Mode:      core.ModeOnline,
			Timestamp: time.Now().UTC().Truncate(time.Microsecond),
		}

		decoded, err := UnmarshalQueryResult(MarshalQueryResult(original))
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
		assert.Nil(t, decoded.Sources)
	})

	t.Run("truncated data", func(t *testing.T) {
		data := MarshalQueryResult(&core.QueryResult{
			Query: "cats", Mode: core.ModeOffline, Timestamp: time.Now().UTC(),
		})
		_, err := UnmarshalQueryResult(data[:2])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestHistoryEntrySerialization(t *testing.T) {
	original := &core.HistoryEntry{
		Query:     "who was Ada Lovelace",
		Mode:      core.ModeOffline,
		Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	decoded, err := UnmarshalHistoryEntry(MarshalHistoryEntry(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestIDSerialization(t *testing.T) {
	id := core.IDFromContent("offline\ncats")
	decoded, err := UnmarshalID(MarshalID(id))
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}
