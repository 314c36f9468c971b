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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/quaerolabs/quaero/core"
)

// Timestamps are stored as UnixMicro; the badger state store also keys its
// history index at microsecond precision.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalQueryResult serializes a QueryResult to bytes.
func MarshalQueryResult(result *core.QueryResult) []byte {
	size := ord.String.Size(result.Query) +
		ord.Bool.Size(result.Success) +
		ord.String.Size(result.Response) +
		ord.String.Size(string(result.Mode)) +
		varint.Int.Size(len(result.Sources)) +
		varint.Int64.Size(result.Timestamp.UnixMicro())
	for _, source := range result.Sources {
		size += ord.String.Size(source)
	}

	buf := make([]byte, size)
	n := ord.String.Marshal(result.Query, buf)
	n += ord.Bool.Marshal(result.Success, buf[n:])
	n += ord.String.Marshal(result.Response, buf[n:])
	n += ord.String.Marshal(string(result.Mode), buf[n:])
	n += varint.Int.Marshal(len(result.Sources), buf[n:])
	for _, source := range result.Sources {
		n += ord.String.Marshal(source, buf[n:])
	}
	varint.Int64.Marshal(result.Timestamp.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalQueryResult deserializes a QueryResult from bytes.
func UnmarshalQueryResult(data []byte) (*core.QueryResult, error) {
	result := &core.QueryResult{}
	var (
		n, off int
		err    error
	)

	if result.Query, n, err = ord.String.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	off += n
	if result.Success, n, err = ord.Bool.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	off += n
	if result.Response, n, err = ord.String.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	off += n
	var mode string
	if mode, n, err = ord.String.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	result.Mode = core.Mode(mode)
	off += n
	var count int
	if count, n, err = varint.Int.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	off += n
	if count > 0 {
		result.Sources = make([]string, count)
		for i := 0; i < count; i++ {
			if result.Sources[i], n, err = ord.String.Unmarshal(data[off:]); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
			}
			off += n
		}
	}
	var micros int64
	if micros, _, err = varint.Int64.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	result.Timestamp = time.UnixMicro(micros).UTC()
	return result, nil
}

// MarshalHistoryEntry serializes a HistoryEntry to bytes.
func MarshalHistoryEntry(entry *core.HistoryEntry) []byte {
	size := ord.String.Size(entry.Query) +
		ord.String.Size(string(entry.Mode)) +
		varint.Int64.Size(entry.Timestamp.UnixMicro())

	buf := make([]byte, size)
	n := ord.String.Marshal(entry.Query, buf)
	n += ord.String.Marshal(string(entry.Mode), buf[n:])
	varint.Int64.Marshal(entry.Timestamp.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalHistoryEntry deserializes a HistoryEntry from bytes.
func UnmarshalHistoryEntry(data []byte) (*core.HistoryEntry, error) {
	entry := &core.HistoryEntry{}
	var (
		n, off int
		err    error
	)

	if entry.Query, n, err = ord.String.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	off += n
	var mode string
	if mode, n, err = ord.String.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	entry.Mode = core.Mode(mode)
	off += n
	var micros int64
	if micros, _, err = varint.Int64.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	entry.Timestamp = time.UnixMicro(micros).UTC()
	return entry, nil
}
