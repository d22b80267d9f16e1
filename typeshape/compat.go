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

package typeshape

import (
	"reflect"
)

// DefaultMaxDepth bounds the recursion of the structural predicates.
const DefaultMaxDepth = 32

// IsAssignmentCompatible reports whether the parameter shape sub, declared
// by a candidate, is compatible with the parameter shape super, declared by
// an operation, under the candidate's substitution s.
//
// It panics with ErrNilType if super is nil.
func IsAssignmentCompatible(super, sub Type, s Substitution) bool {
	return IsAssignmentCompatibleDepth(super, sub, s, DefaultMaxDepth)
}

// IsAssignmentCompatibleDepth is IsAssignmentCompatible with an explicit
// recursion bound. A non-positive maxDepth uses DefaultMaxDepth.
func IsAssignmentCompatibleDepth(super, sub Type, s Substitution, maxDepth int) bool {
	if super == nil {
		panic(ErrNilType)
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return compatible(super, sub, s, maxDepth)
}

func compatible(super, sub Type, s Substitution, depth int) bool {
	if super == nil || sub == nil || depth <= 0 {
		return false
	}
	if v, ok := super.(*Variable); ok {
		super = FinalType(v, s)
	}
	if Identical(super, sub) {
		return true
	}

	switch a := super.(type) {
	case *Variable:
		b, ok := sub.(*Variable)
		if !ok {
			return false
		}
		return compatibleAll(a.Bounds, b.Bounds, s, depth)

	case *Wildcard:
		b, ok := sub.(*Wildcard)
		if !ok {
			return false
		}
		return compatibleAll(a.Upper, b.Upper, s, depth) &&
			compatibleAll(a.Lower, b.Lower, s, depth)

	case *Parameterized:
		b, ok := sub.(*Parameterized)
		if !ok {
			return false
		}
		if !Identical(a.Raw, b.Raw) || !Identical(a.Owner, b.Owner) {
			return false
		}
		return compatibleAll(a.Args, b.Args, s, depth)

	case *Array:
		b, ok := sub.(*Array)
		if !ok {
			return false
		}
		return compatible(a.Elem, b.Elem, s, depth-1)
	}
	return false
}

func compatibleAll(as, bs []Type, s Substitution, depth int) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !compatible(as[i], bs[i], s, depth-1) {
			return false
		}
	}
	return true
}

// Identical reports structural identity. Nominals are identical when they
// are the same pointer or share a backing Go type; variables only when they
// are the same pointer.
func Identical(a, b Type) bool {
	return identical(a, b, DefaultMaxDepth)
}

func identical(a, b Type, depth int) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	if depth <= 0 {
		return false
	}
	switch x := a.(type) {
	case *Nominal:
		y, ok := b.(*Nominal)
		return ok && sameNominal(x, y)
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x == y
	case *Parameterized:
		y, ok := b.(*Parameterized)
		if !ok || !identical(x.Raw, y.Raw, depth-1) || !identical(x.Owner, y.Owner, depth-1) {
			return false
		}
		return identicalAll(x.Args, y.Args, depth)
	case *Wildcard:
		y, ok := b.(*Wildcard)
		return ok && identicalAll(x.Upper, y.Upper, depth) && identicalAll(x.Lower, y.Lower, depth)
	case *Array:
		y, ok := b.(*Array)
		return ok && identical(x.Elem, y.Elem, depth-1)
	}
	return false
}

func identicalAll(as, bs []Type, depth int) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !identical(as[i], bs[i], depth-1) {
			return false
		}
	}
	return true
}

// isNil treats typed nil pointers stored in a Type as nil.
func isNil(t Type) bool {
	if t == nil {
		return true
	}
	switch x := t.(type) {
	case *Nominal:
		return x == nil
	case *Parameterized:
		return x == nil
	case *Variable:
		return x == nil
	case *Wildcard:
		return x == nil
	case *Array:
		return x == nil
	}
	return false
}

func sameNominal(a, b *Nominal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || (a.Go != nil && a.Go == b.Go)
}

// Erase reduces t to the shape a runtime value is checked against: a
// *Nominal or an *Array of erased components. Variables erase to their
// final binding under s, or to their first bound; wildcards to their first
// upper bound; everything unbounded erases to Any.
func Erase(t Type, s Substitution) Type {
	return erase(t, s, DefaultMaxDepth)
}

func erase(t Type, s Substitution, depth int) Type {
	if isNil(t) || depth <= 0 {
		return Any
	}
	switch x := t.(type) {
	case *Nominal:
		return x
	case *Parameterized:
		if x.Raw == nil {
			return Any
		}
		return x.Raw
	case *Variable:
		f := FinalType(x, s)
		if fv, ok := f.(*Variable); ok {
			if len(fv.Bounds) > 0 {
				return erase(fv.Bounds[0], s, depth-1)
			}
			return Any
		}
		return erase(f, s, depth-1)
	case *Wildcard:
		if len(x.Upper) > 0 {
			return erase(x.Upper[0], s, depth-1)
		}
		return Any
	case *Array:
		return &Array{Elem: erase(x.Elem, s, depth-1)}
	}
	return Any
}

// IsSubtype reports whether sub is a subtype of super. Both are erased
// first. Nominals are related through Super and Interfaces, and through
// their backing Go types (interface implementation or assignability). Arrays
// are covariant in their component.
func IsSubtype(sub, super Type) bool {
	if isNil(sub) || isNil(super) {
		return false
	}
	sub, super = Erase(sub, nil), Erase(super, nil)
	if n, ok := super.(*Nominal); ok && n == Any {
		return true
	}
	switch sp := super.(type) {
	case *Array:
		sa, ok := sub.(*Array)
		if !ok {
			return false
		}
		return IsSubtype(sa.Elem, sp.Elem)
	case *Nominal:
		sb, ok := sub.(*Nominal)
		if !ok {
			return false
		}
		return nominalSubtype(sb, sp)
	}
	return false
}

func nominalSubtype(sub, super *Nominal) bool {
	if super == Any {
		return true
	}
	queue := []*Nominal{sub}
	seen := make(map[*Nominal]bool)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		if sameNominal(n, super) {
			return true
		}
		if r := rawOf(n.Super); r != nil {
			queue = append(queue, r)
		}
		for _, it := range n.Interfaces {
			if r := rawOf(it); r != nil {
				queue = append(queue, r)
			}
		}
	}
	if sub.Go != nil && super.Go != nil {
		if super.Go.Kind() == reflect.Interface {
			return sub.Go.Implements(super.Go)
		}
		return sub.Go.AssignableTo(super.Go)
	}
	return false
}

func rawOf(t Type) *Nominal {
	switch x := t.(type) {
	case *Nominal:
		return x
	case *Parameterized:
		return x.Raw
	}
	return nil
}

// widening lists the Go numeric kinds each kind converts to without loss of
// magnitude.
var widening = map[reflect.Kind][]reflect.Kind{
	reflect.Int8:    {reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int, reflect.Float32, reflect.Float64},
	reflect.Int16:   {reflect.Int32, reflect.Int64, reflect.Int, reflect.Float32, reflect.Float64},
	reflect.Int32:   {reflect.Int64, reflect.Int, reflect.Float32, reflect.Float64},
	reflect.Int:     {reflect.Int64, reflect.Float32, reflect.Float64},
	reflect.Int64:   {reflect.Float32, reflect.Float64},
	reflect.Uint8:   {reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int, reflect.Float32, reflect.Float64},
	reflect.Uint16:  {reflect.Uint32, reflect.Uint64, reflect.Uint, reflect.Int32, reflect.Int64, reflect.Int, reflect.Float32, reflect.Float64},
	reflect.Uint32:  {reflect.Uint64, reflect.Uint, reflect.Int64, reflect.Float32, reflect.Float64},
	reflect.Uint:    {reflect.Uint64, reflect.Float32, reflect.Float64},
	reflect.Uint64:  {reflect.Float32, reflect.Float64},
	reflect.Float32: {reflect.Float64},
}

// Widens reports whether a value of the predeclared numeric nominal from
// widens to the predeclared numeric nominal to.
func Widens(from, to Type) bool {
	f, ok := Erase(from, nil).(*Nominal)
	if !ok || !IsPrimitive(f) {
		return false
	}
	t, ok := Erase(to, nil).(*Nominal)
	if !ok || !IsPrimitive(t) {
		return false
	}
	for _, k := range widening[f.Go.Kind()] {
		if k == t.Go.Kind() {
			return true
		}
	}
	return false
}

// IsPrimitive reports whether n is one of the predeclared Go basic nominals.
func IsPrimitive(n *Nominal) bool {
	if n == nil || n.Go == nil || n == Any {
		return false
	}
	p, ok := predeclared[n.Go]
	return ok && p == n
}

// IsBoolean reports whether t erases to a boolean nominal.
func IsBoolean(t Type) bool {
	n, ok := Erase(t, nil).(*Nominal)
	return ok && n.Go != nil && n.Go.Kind() == reflect.Bool
}

// IsNumeric reports whether t erases to Number or a nominal with a Go
// integer or float kind.
func IsNumeric(t Type) bool {
	n, ok := Erase(t, nil).(*Nominal)
	if !ok {
		return false
	}
	if nominalSubtype(n, Number) {
		return true
	}
	if n.Go == nil {
		return false
	}
	switch n.Go.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Compatible is the resolution-time parameter check. The candidate shape
// cand is compatible with the operation shape op when they are assignment
// compatible under s, or when their erasures are related in either
// direction: a narrower candidate is told apart at call time, a wider one
// accepts everything the operation does. With widen set, Go numeric
// widening counts as a relation.
func Compatible(op, cand Type, s Substitution, widen bool, maxDepth int) bool {
	if IsAssignmentCompatibleDepth(op, cand, s, maxDepth) {
		return true
	}
	eo, ec := Erase(op, s), Erase(cand, s)
	return assignable(ec, eo, widen) || assignable(eo, ec, widen)
}

func assignable(from, to Type, widen bool) bool {
	if IsSubtype(from, to) {
		return true
	}
	return widen && Widens(from, to)
}

// Accepts reports whether the runtime value v may be passed where expected
// is declared. u places Go types in the nominal lattice; a nil u knows only
// the predeclared nominals.
func Accepts(expected Type, v any, u *Universe) bool {
	if isNil(expected) {
		return true
	}
	expected = Erase(expected, nil)
	if n, ok := expected.(*Nominal); ok && n == Any {
		return true
	}
	if v == nil {
		return nillable(expected)
	}
	return acceptsType(expected, reflect.TypeOf(v), u)
}

func acceptsType(expected Type, rt reflect.Type, u *Universe) bool {
	switch e := expected.(type) {
	case *Nominal:
		if e == Any {
			return true
		}
		if e.Go != nil && rt.AssignableTo(e.Go) {
			return true
		}
		if n, ok := u.Lookup(rt); ok {
			return nominalSubtype(n, e)
		}
		return false
	case *Array:
		if rt.Kind() != reflect.Slice && rt.Kind() != reflect.Array {
			return false
		}
		return acceptsType(Erase(e.Elem, nil), rt.Elem(), u)
	}
	return false
}

func nillable(expected Type) bool {
	switch e := expected.(type) {
	case *Array:
		return true
	case *Nominal:
		if e.Go == nil {
			return !IsPrimitive(e)
		}
		switch e.Go.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
	}
	return false
}
