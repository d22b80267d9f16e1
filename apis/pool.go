/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

import (
	"time"

	"dirpx.dev/implx/typeshape"
)

// Pool supplies live provider instances keyed by provider type. It is owned
// by the caller and may change between calls. Get must be safe for
// concurrent use and must not expose a slice that is mutated afterwards.
type Pool interface {
	Get(provider *typeshape.Nominal) []any
}

// PoolFunc adapts a function to Pool.
type PoolFunc func(provider *typeshape.Nominal) []any

// Get calls f.
func (f PoolFunc) Get(provider *typeshape.Nominal) []any { return f(provider) }

// Outcome classifies a dispatch.
type Outcome uint8

const (
	// OutcomeSelected means a candidate was selected and invoked.
	OutcomeSelected Outcome = iota
	// OutcomeNotFound means no candidate survived filtering.
	OutcomeNotFound
	// OutcomeFailed means evaluation or the callable failed.
	OutcomeFailed
)

// String returns a lowercase label suitable for metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeSelected:
		return "selected"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DispatchEvent describes one completed dispatch.
type DispatchEvent struct {
	Abstract  string
	Operation string
	// Candidate is "Provider.Method" of the winner; empty if none.
	Candidate string
	Outcome   Outcome
	Err       error
	Duration  time.Duration
}

// Observer receives dispatch events. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	ObserveDispatch(ev DispatchEvent)
}
