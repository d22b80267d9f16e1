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

import "dirpx.dev/implx/typeshape"

// Config carries read-only knobs that influence resolution and evaluation.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// MaxDepth bounds the recursion of structural type comparisons.
	// Acts as a safety guard against pathological nesting.
	MaxDepth int

	// AllowWidening lets a candidate parameter relate to an operation
	// parameter through Go numeric widening (int32 -> int64 -> float64, ...)
	// at resolution time.
	AllowWidening bool

	// RejectAmbiguous makes the evaluator fail with ErrAmbiguous when the
	// highest priority is shared by more than one surviving candidate.
	// When false, the earliest candidate in resolution order wins.
	RejectAmbiguous bool

	// ExcludeIdentity skips identity-style operations (Equal, Hash, String,
	// GoString) during resolution.
	ExcludeIdentity bool

	// Universe places runtime argument types in the nominal lattice.
	// Nil means only the predeclared nominals are known.
	Universe *typeshape.Universe
}
