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


// Package web defines the engine's interface to the external web-search
// collaborator.
//
// The collaborator's result text is consumed as an opaque string; every
// collaborator-level fault, including timeouts, is normalized into a
// *Failure value so the engine can fold it into a structured response
// instead of unwinding. The production implementation lives in
// web/duckduckgo; web/mock provides a counting test double.
package web
