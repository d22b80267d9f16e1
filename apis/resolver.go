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

// Resolver computes the Implementation of an abstract type over a set of
// provider types. Implementations must be safe for concurrent use.
type Resolver interface {
	// Resolve returns every candidate of every implementable operation.
	// Any error aborts the whole batch; no partial result is returned.
	Resolve(abstract *AbstractType, providers ...*ProviderType) (*Implementation, error)
}

// Evaluator selects, per call, the candidate to invoke. It holds no
// per-call state and is safe for concurrent use.
type Evaluator interface {
	// Evaluate filters and ranks the candidates of op for args and returns
	// the winner bound to its live instance. It does not invoke the winner.
	Evaluate(impl *Implementation, op *Operation, pool Pool, args []any) (Invocation, error)
}

// Invocation is a selected candidate bound to a live provider instance.
type Invocation struct {
	Candidate *CandidateMethod
	Instance  any
	// Args are the call arguments, passed to the winner verbatim.
	Args []any
}

// Invoke calls the winner exactly once with the original call arguments.
// Remaps only steer compatibility, validity and priority checks; they never
// alter the final argument list. Callable failures are returned unmodified.
func (inv Invocation) Invoke() (any, error) {
	return inv.Candidate.Method.Func(inv.Instance, inv.Args)
}
