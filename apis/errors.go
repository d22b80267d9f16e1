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

package apis

import (
	"errors"
	"fmt"
)

var (
	// ErrNilAbstract is returned when resolving a nil abstract type.
	ErrNilAbstract = errors.New("implx: nil abstract type")
	// ErrUnknownOperation is returned when an explicit binding names no operation.
	ErrUnknownOperation = errors.New("implx: binding names no operation")
	// ErrUnknownValidity is returned when a validity marker names no method.
	ErrUnknownValidity = errors.New("implx: unknown validity method")
	// ErrUnknownPriority is returned when a priority marker names no method.
	ErrUnknownPriority = errors.New("implx: unknown priority method")
	// ErrUnreconcilableRemap is returned when parameters cannot be mapped
	// onto operation positions.
	ErrUnreconcilableRemap = errors.New("implx: parameters cannot be remapped")
	// ErrValidityResult is returned when a validity method does not return bool.
	ErrValidityResult = errors.New("implx: validity method must return bool")
	// ErrPriorityResult is returned when a priority method does not return a number.
	ErrPriorityResult = errors.New("implx: priority method must return a number")

	// ErrNotFound is returned when no candidate survives evaluation.
	ErrNotFound = errors.New("implx: no valid implementation found")
	// ErrAmbiguous is returned when several candidates share the top priority
	// and Config.RejectAmbiguous is set.
	ErrAmbiguous = errors.New("implx: ambiguous implementations")
	// ErrArgumentCount is returned when the argument count differs from the arity.
	ErrArgumentCount = errors.New("implx: argument count does not match arity")
)

// ResolutionError is a configuration error detected while resolving.
type ResolutionError struct {
	Abstract  string
	Provider  string
	Method    string
	Operation string
	Err       error
}

// Error implements error.
func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("implx: resolve %s: %s.%s", e.Abstract, e.Provider, e.Method)
	if e.Operation != "" {
		msg += " for " + e.Operation
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying sentinel.
func (e *ResolutionError) Unwrap() error { return e.Err }
