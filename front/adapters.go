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

package front

import (
	"fmt"

	"dirpx.dev/implx/apis"
)

// Func0 returns a typed function dispatching the zero-argument operation id.
// Together with Func1..Func3 it lets a hand-written struct expose an
// abstract interface's exact method set:
//
//	type service struct{ handle func(any, any) (string, error) }
//
//	func (s service) Handle(a, b any) (string, error) { return s.handle(a, b) }
//
//	svc := service{handle: front.Func2[any, any, string](f, "Handle")}
func Func0[R any](f *Front, id string) func() (R, error) {
	op, ok := f.lookup(id)
	return func() (R, error) {
		return call[R](f, op, ok, id)
	}
}

// Func1 returns a typed function dispatching the one-argument operation id.
func Func1[A, R any](f *Front, id string) func(A) (R, error) {
	op, ok := f.lookup(id)
	return func(a A) (R, error) {
		return call[R](f, op, ok, id, a)
	}
}

// Func2 returns a typed function dispatching the two-argument operation id.
func Func2[A, B, R any](f *Front, id string) func(A, B) (R, error) {
	op, ok := f.lookup(id)
	return func(a A, b B) (R, error) {
		return call[R](f, op, ok, id, a, b)
	}
}

// Func3 returns a typed function dispatching the three-argument operation id.
func Func3[A, B, C, R any](f *Front, id string) func(A, B, C) (R, error) {
	op, ok := f.lookup(id)
	return func(a A, b B, c C) (R, error) {
		return call[R](f, op, ok, id, a, b, c)
	}
}

func call[R any](f *Front, op *apis.Operation, ok bool, id string, args ...any) (R, error) {
	var zero R
	if !ok {
		return zero, fmt.Errorf("%w %s: %w", ErrUnsupportedOperation, id, apis.ErrNotFound)
	}
	v, err := f.CallOperation(op, args...)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	r, isR := v.(R)
	if !isR {
		return zero, fmt.Errorf("%w: %s returned %T", ErrResultType, op.Signature(), v)
	}
	return r, nil
}
