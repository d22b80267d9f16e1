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

package strategy

import (
	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/typeshape"
)

// NewOverrideStrategy creates an apis.Strategy that binds methods of
// providers which are subtypes of the abstract type, by simple name.
func NewOverrideStrategy() apis.Strategy {
	return &overrideStrategy{}
}

// overrideStrategy walks the nominal lattice and, for Go-backed nominals,
// falls back to reflect Implements/AssignableTo.
type overrideStrategy struct{}

// Ensure overrideStrategy implements apis.Strategy.
var _ apis.Strategy = (*overrideStrategy)(nil)

// TryBind handles the pairing when the provider is a subtype of the abstract
// type and the names agree. Otherwise it falls through.
func (*overrideStrategy) TryBind(c apis.BindContext) (bool, bool) {
	if c.Provider == nil || c.Abstract == nil || c.Method.Name != c.Operation.Name {
		return false, false
	}
	if !typeshape.IsSubtype(c.Provider.Type, c.Abstract.Type) {
		return false, false
	}
	return true, true
}
