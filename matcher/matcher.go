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

package matcher

import (
	"slices"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/typeshape"
)

// New constructs an apis.Matcher that runs the given binding strategies in
// order. Nil strategies are ignored. Substitution maps are memoized per
// provider, so a matcher is best reused across resolutions. It is safe for
// concurrent use.
func New(strategies ...apis.Strategy) apis.Matcher {
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return &matcher{strats: out, cache: typeshape.NewCache()}
}

// matcher is an immutable strategy chain plus a substitution cache.
type matcher struct {
	strats []apis.Strategy
	cache  *typeshape.Cache
}

// Ensure matcher implements apis.Matcher.
var _ apis.Matcher = (*matcher)(nil)

// Match binds c through the strategy chain, remaps its parameters and
// attaches validity and priority methods.
//
// A type-incompatible or unremappable implicit candidate is excluded
// silently. An explicitly bound method that cannot be remapped is a
// configuration error, as is any broken validity or priority marker.
func (m *matcher) Match(c apis.BindContext) (*apis.CandidateMethod, error) {
	if !m.bound(c) {
		return nil, nil
	}
	meth, op := c.Method, c.Operation
	subst := m.cache.Substitutions(c.Provider.Type)

	idx, ok := Remap(meth.Pins, meth.Arity(), op.Arity())
	if !ok {
		if meth.Bind != nil {
			return nil, fail(c, apis.ErrUnreconcilableRemap)
		}
		return nil, nil
	}
	if !compatible(c.Config, op, meth.Params, idx, subst) {
		return nil, nil
	}

	cand := &apis.CandidateMethod{
		Provider:          c.Provider,
		Method:            meth,
		ParamTypes:        make([]typeshape.Type, meth.Arity()),
		GenericParamTypes: slices.Clone(meth.Params),
		ParamIndexes:      idx,
	}
	for i, p := range meth.Params {
		cand.ParamTypes[i] = typeshape.Erase(p, subst)
	}

	if meth.Validity != "" {
		vm, vidx, err := m.marker(c, meth.Validity, subst, apis.ErrUnknownValidity)
		if err != nil {
			return nil, err
		}
		if vm.Result != nil && !typeshape.IsBoolean(vm.Result) {
			return nil, fail(c, apis.ErrValidityResult)
		}
		cand.Validity, cand.ValidityIndexes = vm, vidx
	}

	if pr := meth.Priority; pr != nil {
		cand.PriorityValue = pr.Value
		if pr.Method != "" {
			pm, pidx, err := m.marker(c, pr.Method, subst, apis.ErrUnknownPriority)
			if err != nil {
				return nil, err
			}
			if pm.Result != nil && !typeshape.IsNumeric(pm.Result) {
				return nil, fail(c, apis.ErrPriorityResult)
			}
			cand.PriorityMethod, cand.PriorityIndexes = pm, pidx
		}
	}
	return cand, nil
}

// bound runs the strategy chain. The first strategy that handles the
// pairing decides it.
func (m *matcher) bound(c apis.BindContext) bool {
	if c.Method == nil || c.Operation == nil || c.Provider == nil {
		return false
	}
	for _, s := range m.strats {
		if ok, handled := s.TryBind(c); handled {
			return ok
		}
	}
	return false
}

// marker resolves a validity or priority method by name on the candidate's
// provider, under the same remap discipline as the candidate itself. The
// first overload in declaration order that remaps and type-checks wins.
func (m *matcher) marker(c apis.BindContext, name string, subst typeshape.Substitution, unknown error) (*apis.Method, []int, error) {
	overloads := c.Provider.MethodsNamed(name)
	if len(overloads) == 0 {
		return nil, nil, fail(c, unknown)
	}
	for _, om := range overloads {
		idx, ok := Remap(om.Pins, om.Arity(), c.Operation.Arity())
		if !ok || !compatible(c.Config, c.Operation, om.Params, idx, subst) {
			continue
		}
		return om, idx, nil
	}
	return nil, nil, fail(c, apis.ErrUnreconcilableRemap)
}

func compatible(cfg apis.Config, op *apis.Operation, params []typeshape.Type, idx []int, subst typeshape.Substitution) bool {
	depth := cfg.MaxDepth
	if depth <= 0 {
		depth = typeshape.DefaultMaxDepth
	}
	for i, p := range params {
		want := op.Params[idx[i]]
		if want == nil || p == nil {
			continue
		}
		if !typeshape.Compatible(want, p, subst, cfg.AllowWidening, depth) {
			return false
		}
	}
	return true
}

func fail(c apis.BindContext, err error) error {
	re := &apis.ResolutionError{
		Provider:  c.Provider.Name(),
		Method:    c.Method.Name,
		Operation: c.Operation.Signature(),
		Err:       err,
	}
	if c.Abstract != nil {
		re.Abstract = c.Abstract.Name()
	}
	return re
}
