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

// BindContext is one (operation, provider, method) pairing under
// consideration during resolution.
type BindContext struct {
	Abstract  *AbstractType
	Operation *Operation
	Provider  *ProviderType
	Method    *Method
	Config    Config
}

// Strategy is a pluggable binding rule. A Matcher chains multiple
// strategies in order (e.g., Explicit -> Implicit -> Override).
type Strategy interface {
	// TryBind decides whether c.Method is meant to implement c.Operation.
	// It returns (bound, true) if handled; otherwise (false, false) to fall through.
	TryBind(c BindContext) (bound bool, handled bool)
}

// Matcher turns a bound pairing into a CandidateMethod.
type Matcher interface {
	// Match returns the candidate for c, or nil if the method does not
	// implement the operation. A non-nil error aborts resolution.
	Match(c BindContext) (*CandidateMethod, error)
}
