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


package web

import (
	"context"
	"errors"
)

// TimeoutReason is the Failure reason for a collaborator call that exceeded
// its deadline.
const TimeoutReason = "timeout"

// Failure is the single fault value for collaborator-level errors. The
// reason is human-readable and ends up in the engine's response text.
type Failure struct {
	Reason string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return "web search failure: " + f.Reason
}

// NewFailure creates a Failure with the given reason.
func NewFailure(reason string) *Failure {
	return &Failure{Reason: reason}
}

// NormalizeError converts an arbitrary collaborator error into a *Failure.
// Deadline and cancellation errors become the timeout failure.
func NormalizeError(err error) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewFailure(TimeoutReason)
	}
	return NewFailure(err.Error())
}
