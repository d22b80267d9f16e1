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

// NewExplicitStrategy creates an apis.Strategy that honors Method.Bind.
func NewExplicitStrategy() apis.Strategy {
	return &explicitStrategy{}
}

// explicitStrategy is decisive for bound methods: a method carrying a
// binding marker implements the operation it names and nothing else.
type explicitStrategy struct{}

// Ensure explicitStrategy implements apis.Strategy.
var _ apis.Strategy = (*explicitStrategy)(nil)

// TryBind matches the binding target against the operation name, alias or
// signature. An empty target stands for the method's own name.
func (*explicitStrategy) TryBind(c apis.BindContext) (bool, bool) {
	if c.Method == nil || c.Method.Bind == nil {
		return false, false
	}
	return c.Operation.Identifies(Target(c.Method)), true
}

// Target returns the operation identification a bound method names.
func Target(m *apis.Method) string {
	if m.Bind == nil || m.Bind.Target == "" {
		return m.Name
	}
	return m.Bind.Target
}
