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


// Package storage provides the storage abstraction layer for quaero.
//
// This package defines the interfaces that decouple storage implementations
// from the engine:
//
//   - CorpusStore: the persisted article corpus and its keyword index,
//     implemented by storage/sqlite against the externally compatible
//     schema
//   - ResultCache: memoized query results keyed by (query, mode),
//     implemented by storage/badger
//   - HistoryLog: the append-only query history, implemented by
//     storage/badger
//   - Settings: small operator state (the active mode) persisted across
//     invocations
//
// It also holds the binary serialization of state records written to the
// badger store.
//
// # Error Conventions
//
// A missing record is ErrNotFound and is a normal negative result. An
// unreachable or corrupt backing store is ErrUnavailable and is the one
// storage condition that propagates to callers as a hard failure.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
// Pass context.Background() for operations without specific timeout
// requirements.
package storage
