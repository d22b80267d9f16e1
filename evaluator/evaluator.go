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
	"fmt"
	"slices"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/typeshape"
)

// New constructs a stateless apis.Evaluator. It reads cfg.Universe to place
// runtime argument types and cfg.RejectAmbiguous to decide ties.
func New(cfg apis.Config) apis.Evaluator {
	return &evaluator{cfg: cfg}
}

// evaluator holds only read-only configuration.
type evaluator struct {
	cfg apis.Config
}

// Ensure evaluator implements apis.Evaluator.
var _ apis.Evaluator = (*evaluator)(nil)

// Evaluate walks the candidates of op in resolution order. For every live
// instance of a candidate's provider it checks argument types at the
// remapped positions, runs the validity predicate and ranks the survivors.
// The strictly highest priority wins. Among equal priorities a candidate
// that dominates the others (see dominates) wins; what remains tied goes to
// the earliest candidate, or fails with ErrAmbiguous under RejectAmbiguous.
func (e *evaluator) Evaluate(impl *apis.Implementation, op *apis.Operation, pool apis.Pool, args []any) (apis.Invocation, error) {
	if impl == nil || op == nil {
		return apis.Invocation{}, apis.ErrNotFound
	}
	if len(args) != op.Arity() {
		return apis.Invocation{}, fmt.Errorf("%w: %s got %d arguments", apis.ErrArgumentCount, op.Signature(), len(args))
	}

	var (
		top  []pair
		best rank
	)
	seen := make(map[*typeshape.Nominal][]any)
	for _, c := range impl.Candidates(op) {
		insts, ok := seen[c.Provider.Type]
		if !ok {
			if pool != nil {
				insts = pool.Get(c.Provider.Type)
			}
			seen[c.Provider.Type] = insts
		}
		if len(insts) == 0 || !e.accepts(c, args) {
			continue
		}
		for _, inst := range insts {
			if c.Validity != nil {
				ok, err := valid(c, inst, args)
				if err != nil {
					return apis.Invocation{}, err
				}
				if !ok {
					continue
				}
			}
			r, err := priority(c, inst, args)
			if err != nil {
				return apis.Invocation{}, err
			}
			switch {
			case len(top) == 0 || r.compare(best) > 0:
				top, best = append(top[:0], pair{c, inst}), r
			case r.compare(best) == 0:
				top = append(top, pair{c, inst})
			}
		}
	}

	if len(top) == 0 {
		return apis.Invocation{}, apis.ErrNotFound
	}
	win, tied := choose(top)
	if tied && e.cfg.RejectAmbiguous {
		return apis.Invocation{}, fmt.Errorf("%w: %s at priority %s", apis.ErrAmbiguous, op.Signature(), best)
	}
	return apis.Invocation{Candidate: win.c, Instance: win.inst, Args: args}, nil
}

// pair is a surviving (candidate, instance) pair.
type pair struct {
	c    *apis.CandidateMethod
	inst any
}

// choose picks the winner among pairs of equal priority. Instances of the
// same candidate compete as one: the first instance stands for its
// candidate. The earliest candidate not dominated by another wins; tied
// reports that more than one distinct candidate competed without a single
// undominated one. When dominance cycles and leaves no candidate
// undominated, the earliest pair wins.
func choose(top []pair) (win pair, tied bool) {
	firsts := make([]pair, 0, len(top))
	for _, p := range top {
		if !slices.ContainsFunc(firsts, func(q pair) bool { return q.c == p.c }) {
			firsts = append(firsts, p)
		}
	}

	var free []pair
	for i, p := range firsts {
		beaten := false
		for j, q := range firsts {
			if i != j && dominates(q.c, p.c) {
				beaten = true
				break
			}
		}
		if !beaten {
			free = append(free, p)
		}
	}
	if len(free) == 0 {
		return firsts[0], len(firsts) > 1
	}
	return free[0], len(free) > 1
}

// accepts checks each argument's runtime type against the candidate's
// erased parameter type at its remapped position.
func (e *evaluator) accepts(c *apis.CandidateMethod, args []any) bool {
	for i, pt := range c.ParamTypes {
		if !typeshape.Accepts(pt, args[c.ParamIndexes[i]], e.cfg.Universe) {
			return false
		}
	}
	return true
}

func valid(c *apis.CandidateMethod, inst any, args []any) (bool, error) {
	out, err := c.Validity.Func(inst, pick(args, c.ValidityIndexes))
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s.%s returned %T", apis.ErrValidityResult, c.Provider.Name(), c.Validity.Name, out)
	}
	return b, nil
}

func priority(c *apis.CandidateMethod, inst any, args []any) (rank, error) {
	if c.PriorityMethod == nil {
		return intRank(c.PriorityValue), nil
	}
	out, err := c.PriorityMethod.Func(inst, pick(args, c.PriorityIndexes))
	if err != nil {
		return rank{}, err
	}
	r, ok := rankOf(out)
	if !ok {
		return rank{}, fmt.Errorf("%w: %s.%s returned %T", apis.ErrPriorityResult, c.Provider.Name(), c.PriorityMethod.Name, out)
	}
	return r, nil
}

func pick(args []any, idx []int) []any {
	out := make([]any, len(idx))
	for i, k := range idx {
		out[i] = args[k]
	}
	return out
}
