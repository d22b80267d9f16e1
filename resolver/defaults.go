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

package resolver

import (
	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/matcher"
	"dirpx.dev/implx/strategy"
)

// DefaultStrategies returns the binding rules in precedence order.
func DefaultStrategies() []apis.Strategy {
	return []apis.Strategy{
		strategy.NewExplicitStrategy(),
		strategy.NewImplicitStrategy(),
		strategy.NewOverrideStrategy(),
	}
}

// DefaultMatcher returns a matcher over DefaultStrategies.
func DefaultMatcher() apis.Matcher {
	return matcher.New(DefaultStrategies()...)
}
