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

package reflect

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/matcher"
	"dirpx.dev/implx/typeshape"
)

var (
	// ErrReflectNotInterface is returned when an abstract type is not a Go interface.
	ErrReflectNotInterface = errors.New("implx(reflect): abstract type must be an interface")
	// ErrReflectUnknownAbstract is returned when a ProviderOf marker names a
	// type the universe does not know.
	ErrReflectUnknownAbstract = errors.New("implx(reflect): unknown abstract type")
	// ErrReflectNilUniverse is returned when no universe is provided.
	ErrReflectNilUniverse = errors.New("implx(reflect): nil universe provided")
	// ErrReflectArguments is returned when a callable cannot adapt its arguments.
	ErrReflectArguments = errors.New("implx(reflect): arguments do not fit method")
)

var (
	errorType  = reflect.TypeFor[error]()
	markedType = reflect.TypeFor[apis.Marked]()
)

// DescribeAbstract derives an AbstractType from a Go interface. Operations
// follow the method-set order reflect reports (sorted by name).
func DescribeAbstract(u *typeshape.Universe, iface reflect.Type) (*apis.AbstractType, error) {
	if u == nil {
		return nil, ErrReflectNilUniverse
	}
	if iface == nil {
		return nil, ErrReflectNilType
	}
	if iface.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: %s", ErrReflectNotInterface, iface)
	}
	abs := &apis.AbstractType{Type: u.Ensure(iface)}
	for i := 0; i < iface.NumMethod(); i++ {
		m := iface.Method(i)
		abs.Operations = append(abs.Operations, &apis.Operation{
			Name:   m.Name,
			Params: params(u, m.Type, 0),
			Result: result(u, m.Type),
		})
	}
	return abs, nil
}

// DescribeProvider derives a ProviderType from the method set of t. Markers
// come from mk when given, otherwise from t itself when it implements
// apis.Marked. ProviderOf names must already be known to u (usually through
// DescribeAbstract).
func DescribeProvider(u *typeshape.Universe, t reflect.Type, mk *apis.Markers) (*apis.ProviderType, error) {
	if u == nil {
		return nil, ErrReflectNilUniverse
	}
	if t == nil {
		return nil, ErrReflectNilType
	}
	markers := apis.Markers{}
	switch {
	case mk != nil:
		markers = *mk
	case t.Implements(markedType):
		markers = zero(t).Interface().(apis.Marked).ImplementationMarkers()
	}

	p := &apis.ProviderType{Type: u.Ensure(t)}
	for _, name := range markers.ProviderOf {
		n, ok := u.ByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrReflectUnknownAbstract, name)
		}
		p.ProviderOf = append(p.ProviderOf, n)
	}

	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if m.Name == "ImplementationMarkers" && t.Implements(markedType) {
			continue
		}
		mm := markers.Methods[m.Name]
		meth := &apis.Method{
			Name:     m.Name,
			Params:   params(u, m.Type, 1),
			Pins:     mm.Pins,
			Result:   result(u, m.Type),
			Validity: mm.Validity,
			Func:     callable(m.Func, mm.Pins),
		}
		if mm.Bound || mm.Implement != "" {
			meth.Bind = &apis.Binding{Target: mm.Implement}
		}
		if mm.Priority != 0 || mm.PriorityMethod != "" {
			meth.Priority = &apis.PriorityMarker{Value: mm.Priority, Method: mm.PriorityMethod}
		}
		p.Methods = append(p.Methods, meth)
	}
	return p, nil
}

// Shape maps a Go type onto a type shape: slices and arrays become arrays,
// everything else a nominal bound in u.
func Shape(u *typeshape.Universe, t reflect.Type) typeshape.Type {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return typeshape.ArrayOf(Shape(u, t.Elem()))
	}
	return u.Ensure(t)
}

// params shapes the inputs of a func type starting at skip.
func params(u *typeshape.Universe, ft reflect.Type, skip int) []typeshape.Type {
	out := make([]typeshape.Type, 0, ft.NumIn()-skip)
	for j := skip; j < ft.NumIn(); j++ {
		out = append(out, Shape(u, ft.In(j)))
	}
	return out
}

// result shapes the first non-error output, if any.
func result(u *typeshape.Universe, ft reflect.Type) typeshape.Type {
	for j := 0; j < ft.NumOut(); j++ {
		if ft.Out(j) != errorType {
			return Shape(u, ft.Out(j))
		}
	}
	return nil
}

// zero returns a usable zero receiver: a pointer to a zero value for
// pointer types, the zero value otherwise.
func zero(t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem())
	}
	return reflect.New(t).Elem()
}

// callable adapts a method value taking the receiver first. When it gets
// more arguments than the method declares, it keeps the ones its pins (or
// left-to-right order) select, mirroring the resolution remap.
func callable(fn reflect.Value, pins []int) apis.Callable {
	ft := fn.Type()
	declared := ft.NumIn() - 1
	return func(recv any, args []any) (any, error) {
		rv, ok := receiver(recv, ft.In(0))
		if !ok {
			return nil, fmt.Errorf("%w: receiver %T", ErrReflectArguments, recv)
		}
		if !ft.IsVariadic() && len(args) != declared {
			idx, ok := matcher.Remap(pins, declared, len(args))
			if !ok {
				return nil, fmt.Errorf("%w: %d arguments for %d parameters", ErrReflectArguments, len(args), declared)
			}
			sel := make([]any, len(idx))
			for i, k := range idx {
				sel[i] = args[k]
			}
			args = sel
		}

		in := make([]reflect.Value, 0, len(args)+1)
		in = append(in, rv)
		for i, a := range args {
			pt := paramType(ft, i+1)
			v, err := value(a, pt)
			if err != nil {
				return nil, err
			}
			in = append(in, v)
		}
		return results(fn.Call(in))
	}
}

// receiver adapts recv to the receiver type rt. A non-nil pointer is
// dereferenced when only its element fits, so *T instances filed under T
// can be called through T's method set.
func receiver(recv any, rt reflect.Type) (reflect.Value, bool) {
	if recv == nil {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(recv)
	if v.Type().AssignableTo(rt) {
		return v, true
	}
	if v.Kind() == reflect.Pointer && !v.IsNil() && v.Type().Elem().AssignableTo(rt) {
		return v.Elem(), true
	}
	return reflect.Value{}, false
}

// paramType returns the type of input j, unrolling a variadic tail.
func paramType(ft reflect.Type, j int) reflect.Type {
	if ft.IsVariadic() && j >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(j)
}

// value converts a into a reflect.Value of type pt. Numeric arguments are
// converted; nil becomes the zero value.
func value(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(pt), nil
	}
	v := reflect.ValueOf(a)
	switch {
	case v.Type().AssignableTo(pt):
		return v, nil
	case numeric(v.Kind()) && numeric(pt.Kind()) && v.CanConvert(pt):
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrReflectArguments, v.Type(), pt)
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// results folds method outputs into (value, error): the trailing error, if
// declared, becomes the error; the first other output the value.
func results(out []reflect.Value) (any, error) {
	var (
		res any
		err error
	)
	for _, o := range out {
		if o.Type() == errorType {
			if !o.IsNil() {
				err = o.Interface().(error)
			}
			continue
		}
		if res == nil {
			res = o.Interface()
		}
	}
	return res, err
}
