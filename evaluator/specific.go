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

package evaluator

import (
	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/typeshape"
)

// specificity relates two candidates over the operation positions both of
// them map.
type specificity uint8

const (
	sameSpecific specificity = iota
	moreSpecific
	lessSpecific
	incomparable
)

// specific compares the erased parameter types of x and y position by
// position. x is more specific when each of its types is a subtype of y's
// at the same operation position and at least one is strictly narrower.
// Positions only one side maps are ignored.
func specific(x, y *apis.CandidateMethod) specificity {
	le, ge := true, true
	for i, px := range x.ParamIndexes {
		for j, py := range y.ParamIndexes {
			if px != py {
				continue
			}
			tx, ty := x.ParamTypes[i], y.ParamTypes[j]
			if !typeshape.IsSubtype(tx, ty) {
				le = false
			}
			if !typeshape.IsSubtype(ty, tx) {
				ge = false
			}
		}
	}
	switch {
	case le && ge:
		return sameSpecific
	case le:
		return moreSpecific
	case ge:
		return lessSpecific
	}
	return incomparable
}

// dominates reports whether x beats y at equal priority: x is more
// specific, or equally specific and guarded by a validity predicate that
// y lacks.
func dominates(x, y *apis.CandidateMethod) bool {
	if x == y {
		return false
	}
	switch specific(x, y) {
	case moreSpecific:
		return true
	case sameSpecific:
		return x.Validity != nil && y.Validity == nil
	}
	return false
}
