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

// Package implx dispatches calls on an abstract interface to one of many
// concrete implementations, chosen per call from the arguments.
//
// Work happens in two phases.
//
// Resolution runs once, ahead of any call. For every operation of an
// abstract type it collects each provider method able to serve it:
// methods explicitly bound to the operation, methods of providers declared
// as providers of the abstract type, and methods of providers that
// implement it in Go. A method may serve an operation with fewer
// parameters than the operation declares; its parameters are mapped onto
// operation positions (pins first, then left to right). The result is an
// immutable apis.Implementation.
//
// Evaluation runs on every call. Candidates whose provider has no instance
// in the pool, whose parameters do not accept the arguments, or whose
// validity predicate says no are dropped. The highest priority wins; at
// equal priority a more specific candidate, then a guarded one, then the
// earliest one wins. The winner is invoked with the call arguments.
//
// # Design
//
// Like the rest of the DIRPX libraries, implx keeps a read-mostly global
// snapshot (state) holding:
//
//   - Config: depth bound for type compatibility, numeric widening,
//     ambiguity rejection, identity method exclusion and the type
//     universe mapping Go types to type shapes.
//
//   - Resolver: builds an apis.Implementation from descriptors.
//
//   - Evaluator: selects one candidate per call.
//
//   - Builder: constructs Resolver and Evaluator for a Config.
//
// Readers load the snapshot atomically and never take locks. Writers
// (SetConfig, SetBuilder, SetResolver, SetEvaluator, SetAll) take a short
// build mutex, derive a new snapshot and publish it. SetResolver and
// SetEvaluator pin their layer: later rebuilds keep it until it is
// unpinned again.
//
// # Usage
//
//	abs, _ := implx.Abstract[Service]()
//	a, _ := implx.Provider[defaultService]()
//	b, _ := implx.Provider[integerService]()
//	impl, _ := implx.Resolve(abs, a, b)
//
//	pool := implx.NewPool()
//	pool.AddValue(defaultService{}, integerService{})
//
//	f := implx.NewFront(impl, pool)
//	out, err := f.Call("Handle", 1, 2)
//
// Markers (explicit bindings, pins, validity and priority) are declared by
// implementing apis.Marked or in a YAML manifest (package manifest).
// Package metrics exports dispatch outcomes to Prometheus.
package implx
