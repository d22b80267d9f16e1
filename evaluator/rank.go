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
	"reflect"
	"strconv"
)

// rank is a totally ordered priority. Integral priorities compare exactly;
// as soon as either side is fractional both compare as float64.
type rank struct {
	i     int64
	f     float64
	float bool
}

func intRank(v int64) rank { return rank{i: v, f: float64(v)} }

func floatRank(v float64) rank { return rank{f: v, float: true} }

// rankOf converts any Go integer or float value, including named numeric
// types, into a rank.
func rankOf(v any) (rank, bool) {
	if v == nil {
		return rank{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intRank(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return floatRank(float64(u)), true
		}
		return intRank(int64(u)), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return rank{}, false
		}
		return floatRank(f), true
	}
	return rank{}, false
}

// compare returns -1, 0 or +1.
func (r rank) compare(o rank) int {
	if !r.float && !o.float {
		switch {
		case r.i < o.i:
			return -1
		case r.i > o.i:
			return 1
		}
		return 0
	}
	switch {
	case r.f < o.f:
		return -1
	case r.f > o.f:
		return 1
	}
	return 0
}

func (r rank) String() string {
	if r.float {
		return strconv.FormatFloat(r.f, 'g', -1, 64)
	}
	return strconv.FormatInt(r.i, 10)
}
