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

package implx

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/builder"
	"dirpx.dev/implx/config"
	"dirpx.dev/implx/front"
	"dirpx.dev/implx/registry"
	"dirpx.dev/implx/typeshape"
	uref "dirpx.dev/implx/utils/reflect"
)

// init publishes the default snapshot.
func init() {
	s := &state{cfg: withUniverse(config.DefaultConfig()), bld: builder.New()}
	s.res = s.bld.BuildResolver(s.cfg, nil)
	s.eval = s.bld.BuildEvaluator(s.cfg, nil)
	st.Store(s)
}

var (
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("implx: builder returned nil resolver")
	// ErrNilEvaluator is returned when a builder returns a nil evaluator.
	ErrNilEvaluator = errors.New("implx: builder returned nil evaluator")
)

// universe backs every configuration published without one.
var universe = typeshape.NewUniverse()

func withUniverse(cfg apis.Config) apis.Config {
	if cfg.Universe == nil {
		cfg.Universe = universe
	}
	return cfg
}

// Universe returns the type universe of the current configuration.
func Universe() *typeshape.Universe {
	return st.Load().cfg.Universe
}

// Abstract describes the Go interface T as an abstract type in the current
// universe.
func Abstract[T any]() (*apis.AbstractType, error) {
	return uref.DescribeAbstract(Universe(), reflect.TypeFor[T]())
}

// Provider describes the Go type T as a provider in the current universe.
// Markers come from T itself when it implements apis.Marked.
func Provider[T any]() (*apis.ProviderType, error) {
	return uref.DescribeProvider(Universe(), reflect.TypeFor[T](), nil)
}

// NewPool returns an empty instance pool over the current universe.
func NewPool() *registry.Pool {
	return registry.New(Universe())
}

// Resolve resolves abstract against providers with the current resolver.
func Resolve(abstract *apis.AbstractType, providers ...*apis.ProviderType) (*apis.Implementation, error) {
	return st.Load().res.Resolve(abstract, providers...)
}

// Dispatch selects the candidate for op among the instances in pool and
// invokes it with args. Failures of the selected callable are returned
// unmodified.
func Dispatch(impl *apis.Implementation, op *apis.Operation, pool apis.Pool, args ...any) (any, error) {
	inv, err := st.Load().eval.Evaluate(impl, op, pool, args)
	if err != nil {
		return nil, err
	}
	return inv.Invoke()
}

// NewFront returns a front for impl backed by the current evaluator. Later
// evaluator changes do not affect fronts already created.
func NewFront(impl *apis.Implementation, pool apis.Pool, opts ...front.Option) *front.Front {
	return front.New(impl, pool, st.Load().eval, opts...)
}

// SetAll explicitly sets all global implx state components.
//
// A nil cfg or bld keeps the current one. A nil res or eval is rebuilt by
// the builder and unpinned; a non-nil one is pinned.
func SetAll(cfg *apis.Config, bld apis.Builder, res apis.Resolver, eval apis.Evaluator) {
	swap(func(old *state) *state {
		next := *old
		if cfg != nil {
			next.cfg = withUniverse(*cfg)
		}
		if bld != nil {
			next.bld = bld
		}
		next.res, next.pres = res, res != nil
		next.eval, next.peval = eval, eval != nil
		return rebuild(&next, old)
	})
}

// Config returns the global implx configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg and rebuilds the unpinned
// layers. A nil cfg.Universe keeps the process-wide universe.
func SetConfig(cfg apis.Config) {
	swap(func(old *state) *state {
		next := *old
		next.cfg = withUniverse(cfg)
		return rebuild(&next, old)
	})
}

// Builder returns the global implx builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the unpinned layers
// with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	swap(func(old *state) *state {
		next := *old
		next.bld = b
		return rebuild(&next, old)
	})
}

// Resolver returns the global implx resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets and pins the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	swap(func(old *state) *state {
		next := *old
		next.res, next.pres = res, true
		return &next
	})
}

// Evaluator returns the global implx evaluator.
func Evaluator() apis.Evaluator {
	return st.Load().eval
}

// SetEvaluator sets and pins the global evaluator.
func SetEvaluator(eval apis.Evaluator) {
	if eval == nil {
		return
	}
	swap(func(old *state) *state {
		next := *old
		next.eval, next.peval = eval, true
		return &next
	})
}

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops the global resolver from being rebuilt.
func PinResolver() {
	swap(func(old *state) *state {
		next := *old
		next.pres = true
		return &next
	})
}

// UnpinResolver lets the next rebuild replace the global resolver.
func UnpinResolver() {
	swap(func(old *state) *state {
		next := *old
		next.pres = false
		return &next
	})
}

// IsEvaluatorPinned returns whether the global evaluator is pinned.
func IsEvaluatorPinned() bool {
	return st.Load().peval
}

// PinEvaluator stops the global evaluator from being rebuilt.
func PinEvaluator() {
	swap(func(old *state) *state {
		next := *old
		next.peval = true
		return &next
	})
}

// UnpinEvaluator lets the next rebuild replace the global evaluator.
func UnpinEvaluator() {
	swap(func(old *state) *state {
		next := *old
		next.peval = false
		return &next
	})
}

// rebuild replaces the unpinned layers of next using its builder and
// configuration. It panics when the builder returns nil.
func rebuild(next, old *state) *state {
	if !next.pres {
		next.res = next.bld.BuildResolver(next.cfg, old.res)
		if next.res == nil {
			panic(ErrNilResolver)
		}
	}
	if !next.peval {
		next.eval = next.bld.BuildEvaluator(next.cfg, old.eval)
		if next.eval == nil {
			panic(ErrNilEvaluator)
		}
	}
	return next
}

// swap derives a new snapshot from the current one under buildMu and
// publishes it.
func swap(derive func(old *state) *state) {
	buildMu.Lock()
	defer buildMu.Unlock()
	st.Store(derive(st.Load()))
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global implx state.
var st atomic.Pointer[state]

// state is the global implx state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration; cfg.Universe is never nil.
	cfg apis.Config
	// bld builds the unpinned layers.
	bld apis.Builder
	// res is the global resolver.
	res apis.Resolver
	// eval is the global evaluator.
	eval apis.Evaluator
	// pres indicates whether res is pinned.
	pres bool
	// peval indicates whether eval is pinned.
	peval bool
}
