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


// Package search provides keyword search over the offline article corpus.
//
// The Searcher type wraps a storage.CorpusStore with an explicit readiness
// gate (Uninitialized -> Building -> Ready) and a ranked lookup: the query
// is tokenized with the same tokenizer used at ingestion time, each token
// is resolved through the keyword index, and the article matching the most
// tokens wins, ties broken by most recent update.
package search
