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

package resolver

import (
	"slices"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/strategy"
)

// identity lists operation names that describe the value itself rather
// than behavior. They are skipped when Config.ExcludeIdentity is set.
var identity = map[string]bool{
	"Equal":    true,
	"Hash":     true,
	"String":   true,
	"GoString": true,
}

// New constructs an apis.Resolver that binds pairings through m. A nil
// matcher yields the default chain (Explicit -> Implicit -> Override). The
// returned resolver is safe for concurrent use provided m is.
func New(cfg apis.Config, m apis.Matcher) apis.Resolver {
	if m == nil {
		m = DefaultMatcher()
	}
	return &resolver{cfg: cfg, m: m}
}

// resolver is an immutable (config, matcher) pair.
type resolver struct {
	cfg apis.Config
	m   apis.Matcher
}

// Ensure resolver implements apis.Resolver.
var _ apis.Resolver = (*resolver)(nil)

// Resolve enumerates operations x providers x methods. Candidates are
// ordered by provider order, then method declaration order. Nil providers
// and repeated provider types are dropped, keeping the first occurrence.
func (r *resolver) Resolve(abstract *apis.AbstractType, providers ...*apis.ProviderType) (*apis.Implementation, error) {
	if abstract == nil || abstract.Type == nil {
		return nil, apis.ErrNilAbstract
	}
	provs := dedupe(providers)
	if err := checkBindings(abstract, provs); err != nil {
		return nil, err
	}

	entries := make([]apis.ImplementEntry, 0, len(abstract.Operations))
	for _, op := range abstract.Operations {
		if !r.implementable(op) {
			continue
		}
		var cands []*apis.CandidateMethod
		for _, p := range provs {
			for _, meth := range p.Methods {
				c, err := r.m.Match(apis.BindContext{
					Abstract:  abstract,
					Operation: op,
					Provider:  p,
					Method:    meth,
					Config:    r.cfg,
				})
				if err != nil {
					return nil, err
				}
				if c == nil {
					continue
				}
				c.Order = len(cands)
				cands = append(cands, c)
			}
		}
		entries = append(entries, apis.ImplementEntry{Operation: op, Candidates: cands})
	}
	return apis.NewImplementation(abstract, provs, entries), nil
}

func (r *resolver) implementable(op *apis.Operation) bool {
	if op == nil || op.NotImplementable {
		return false
	}
	return !(r.cfg.ExcludeIdentity && identity[op.Name])
}

// checkBindings rejects explicit bindings that name no operation of the
// abstract type at all.
func checkBindings(abstract *apis.AbstractType, provs []*apis.ProviderType) error {
	for _, p := range provs {
		for _, meth := range p.Methods {
			if meth.Bind == nil {
				continue
			}
			target := strategy.Target(meth)
			if len(abstract.Lookup(target)) > 0 {
				continue
			}
			return &apis.ResolutionError{
				Abstract:  abstract.Name(),
				Provider:  p.Name(),
				Method:    meth.Name,
				Operation: target,
				Err:       apis.ErrUnknownOperation,
			}
		}
	}
	return nil
}

func dedupe(providers []*apis.ProviderType) []*apis.ProviderType {
	out := make([]*apis.ProviderType, 0, len(providers))
	for _, p := range providers {
		if p == nil || p.Type == nil {
			continue
		}
		if slices.ContainsFunc(out, func(q *apis.ProviderType) bool { return q == p || q.Type == p.Type }) {
			continue
		}
		out = append(out, p)
	}
	return out
}
