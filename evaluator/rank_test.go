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
	"math"
	"testing"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/typeshape"
)

type level int16

func TestRankOf(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{int(3), "3", true},
		{int8(-2), "-2", true},
		{level(7), "7", true},
		{uint64(math.MaxUint64), "1.8446744073709552e+19", true},
		{float32(0.5), "0.5", true},
		{2.25, "2.25", true},
		{math.NaN(), "", false},
		{"1", "", false},
		{nil, "", false},
		{true, "", false},
	}
	for _, tc := range cases {
		r, ok := rankOf(tc.in)
		if ok != tc.ok {
			t.Fatalf("rankOf(%v) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && r.String() != tc.want {
			t.Fatalf("rankOf(%v) = %s, want %s", tc.in, r, tc.want)
		}
	}
}

func TestRankCompare(t *testing.T) {
	big := intRank(math.MaxInt64)
	cases := []struct {
		a, b rank
		want int
	}{
		{intRank(1), intRank(2), -1},
		{intRank(2), intRank(2), 0},
		{intRank(-1), intRank(-5), 1},
		{intRank(2), floatRank(1.5), 1},
		{floatRank(2.0), intRank(2), 0},
		{big, intRank(math.MaxInt64 - 1), 1},
	}
	for _, tc := range cases {
		if got := tc.a.compare(tc.b); got != tc.want {
			t.Fatalf("%s.compare(%s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDominates(t *testing.T) {
	wide := &apis.CandidateMethod{ParamTypes: []typeshape.Type{typeshape.Number, typeshape.Number}, ParamIndexes: []int{0, 1}}
	narrow := &apis.CandidateMethod{ParamTypes: []typeshape.Type{typeshape.Int}, ParamIndexes: []int{1}}
	guarded := &apis.CandidateMethod{ParamTypes: []typeshape.Type{typeshape.Number, typeshape.Number}, ParamIndexes: []int{0, 1}, Validity: &apis.Method{Name: "ok"}}
	mixed := &apis.CandidateMethod{ParamTypes: []typeshape.Type{typeshape.Int, typeshape.String}, ParamIndexes: []int{0, 1}}

	if !dominates(narrow, wide) || dominates(wide, narrow) {
		t.Fatalf("narrow should dominate wide")
	}
	if !dominates(guarded, wide) || dominates(wide, guarded) {
		t.Fatalf("guarded should dominate unguarded at equal specificity")
	}
	if dominates(narrow, guarded) == dominates(guarded, narrow) {
		t.Fatalf("narrow and guarded should be ordered by specificity")
	}
	if dominates(mixed, wide) || dominates(wide, mixed) {
		t.Fatalf("incomparable candidates should not dominate")
	}
	if dominates(wide, wide) {
		t.Fatalf("a candidate never dominates itself")
	}
	if specific(narrow, wide) != moreSpecific || specific(wide, narrow) != lessSpecific {
		t.Fatalf("specific mismatch")
	}
}
