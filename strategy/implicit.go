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
)

// NewImplicitStrategy creates an apis.Strategy that binds by simple name on
// providers declaring themselves a provider of the abstract type.
func NewImplicitStrategy() apis.Strategy {
	return &implicitStrategy{}
}

// implicitStrategy consults ProviderType.ProviderOf (no lattice walk).
type implicitStrategy struct{}

// Ensure implicitStrategy implements apis.Strategy.
var _ apis.Strategy = (*implicitStrategy)(nil)

// TryBind handles the pairing when the provider is a declared provider of
// the abstract type and the names agree. Otherwise it falls through.
func (*implicitStrategy) TryBind(c apis.BindContext) (bool, bool) {
	if c.Provider == nil || c.Abstract == nil || !c.Provider.Provides(c.Abstract.Type) {
		return false, false
	}
	if c.Method.Name != c.Operation.Name {
		return false, false
	}
	return true, true
}
