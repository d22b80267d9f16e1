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

package matcher

// Remap aligns k declared parameters onto an operation of arity n.
//
// pins[i] >= 0 pins parameter i to that operation position; missing or
// negative entries leave it unpinned. Unpinned parameters take the next
// free position after the previous parameter, skipping positions claimed
// by pins. The result is strictly increasing and bounded by n; ok is false
// when no such mapping exists.
func Remap(pins []int, k, n int) (idx []int, ok bool) {
	if k < 0 || k > n {
		return nil, false
	}
	claimed := make(map[int]bool, len(pins))
	for i := 0; i < k && i < len(pins); i++ {
		p := pins[i]
		if p < 0 {
			continue
		}
		if p >= n || claimed[p] {
			return nil, false
		}
		claimed[p] = true
	}

	idx = make([]int, k)
	prev := -1
	for i := 0; i < k; i++ {
		if i < len(pins) && pins[i] >= 0 {
			if pins[i] <= prev {
				return nil, false
			}
			idx[i] = pins[i]
			prev = pins[i]
			continue
		}
		next := prev + 1
		for next < n && claimed[next] {
			next++
		}
		if next >= n {
			return nil, false
		}
		idx[i] = next
		prev = next
	}
	return idx, true
}
