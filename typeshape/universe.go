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
	"errors"
	"path"
	"reflect"
	"sync"
)

var (
	// ErrNilType is returned (or panicked with, for predicates) when a nil
	// type is provided where one is required.
	ErrNilType = errors.New("implx(typeshape): nil type provided")
	// ErrNilNominal is returned when a nil *Nominal is registered.
	ErrNilNominal = errors.New("implx(typeshape): nil nominal provided")
	// ErrConflictingRegistration indicates an attempt to bind a Go type that
	// is already bound to a different nominal.
	ErrConflictingRegistration = errors.New("implx(typeshape): conflicting type registration")
)

// Predeclared nominals. They are shared by every Universe and must not be
// modified.
var (
	// Any is the root of the lattice; every shape is a subtype of Any.
	Any = &Nominal{Name: "any", Interface: true, Go: reflect.TypeFor[any]()}
	// Number is the abstract super type of the Go numeric kinds.
	Number = &Nominal{Name: "Number", Interface: true}

	Bool    = basic[bool]()
	String  = basic[string]()
	Int     = number[int]()
	Int8    = number[int8]()
	Int16   = number[int16]()
	Int32   = number[int32]()
	Int64   = number[int64]()
	Uint    = number[uint]()
	Uint8   = number[uint8]()
	Uint16  = number[uint16]()
	Uint32  = number[uint32]()
	Uint64  = number[uint64]()
	Float32 = number[float32]()
	Float64 = number[float64]()
)

// predeclared indexes the predeclared nominals by Go type. Read-only after init.
var predeclared = func() map[reflect.Type]*Nominal {
	m := make(map[reflect.Type]*Nominal)
	for _, n := range []*Nominal{
		Any, Bool, String, Int, Int8, Int16, Int32, Int64,
		Uint, Uint8, Uint16, Uint32, Uint64, Float32, Float64,
	} {
		m[n.Go] = n
	}
	return m
}()

func basic[T any]() *Nominal {
	t := reflect.TypeFor[T]()
	return &Nominal{Name: t.Name(), Go: t}
}

func number[T any]() *Nominal {
	n := basic[T]()
	n.Interfaces = []Type{Number}
	return n
}

// Entry is a single (Go type, nominal) binding in a Universe snapshot.
type Entry struct {
	// Go is the bound Go type.
	Go reflect.Type
	// Nominal is the bound nominal.
	Nominal *Nominal
}

// Universe maps Go types to nominals so runtime values can be placed in the
// nominal lattice. It is safe for concurrent use. The predeclared nominals
// are always visible and cannot be rebound.
type Universe struct {
	// mu guards write-side consistency and the counter.
	mu sync.Mutex
	// byGo maps reflect.Type to *Nominal.
	byGo sync.Map
	// byName maps Nominal.String() to *Nominal.
	byName sync.Map
	// count tracks the number of registered entries.
	count int
}

// NewUniverse returns an empty Universe.
func NewUniverse() *Universe {
	return &Universe{}
}

// Register binds t to n. It is idempotent for the same (t, n) pair. If n has
// no backing Go type yet, t is recorded on it.
func (u *Universe) Register(t reflect.Type, n *Nominal) error {
	if t == nil {
		return ErrNilType
	}
	if n == nil {
		return ErrNilNominal
	}
	if p, ok := predeclared[t]; ok {
		if p == n {
			return nil
		}
		return ErrConflictingRegistration
	}

	// Fast read path.
	if old, ok := u.byGo.Load(t); ok {
		if old.(*Nominal) == n {
			return nil
		}
		return ErrConflictingRegistration
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := u.byGo.Load(t); ok {
		if old.(*Nominal) == n {
			return nil
		}
		return ErrConflictingRegistration
	}
	if n.Go == nil {
		n.Go = t
	}
	u.byGo.Store(t, n)
	u.byName.LoadOrStore(n.String(), n)
	u.count++
	return nil
}

// Lookup returns the nominal bound to t. A nil Universe still resolves the
// predeclared nominals.
func (u *Universe) Lookup(t reflect.Type) (*Nominal, bool) {
	if t == nil {
		return nil, false
	}
	if n, ok := predeclared[t]; ok {
		return n, true
	}
	if u == nil {
		return nil, false
	}
	if v, ok := u.byGo.Load(t); ok {
		return v.(*Nominal), true
	}
	return nil, false
}

// ByName returns the nominal registered under its String() form.
func (u *Universe) ByName(name string) (*Nominal, bool) {
	for _, n := range predeclared {
		if n.String() == name {
			return n, true
		}
	}
	if name == Number.Name {
		return Number, true
	}
	if u == nil {
		return nil, false
	}
	if v, ok := u.byName.Load(name); ok {
		return v.(*Nominal), true
	}
	return nil, false
}

// Ensure returns the nominal bound to t, creating and registering one backed
// by t when none exists. Named types are qualified with the last element of
// their package path.
func (u *Universe) Ensure(t reflect.Type) *Nominal {
	if n, ok := u.Lookup(t); ok {
		return n
	}
	n := &Nominal{Go: t, Interface: t.Kind() == reflect.Interface}
	if t.Name() != "" {
		n.Name = t.Name()
		if p := t.PkgPath(); p != "" {
			n.Pkg = path.Base(p)
		}
	} else {
		n.Name = t.String()
	}
	if err := u.Register(t, n); err != nil {
		// Lost a race against a concurrent Ensure; use the winner.
		if won, ok := u.Lookup(t); ok {
			return won
		}
	}
	return n
}

// Entries returns a snapshot of the registered bindings (order is unspecified).
// Predeclared nominals are not included.
func (u *Universe) Entries() []Entry {
	entries := make([]Entry, 0, u.Count())
	u.byGo.Range(func(key, value any) bool {
		entries = append(entries, Entry{Go: key.(reflect.Type), Nominal: value.(*Nominal)})
		return true
	})
	return entries
}

// Count returns the number of registered bindings.
func (u *Universe) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.count
}
