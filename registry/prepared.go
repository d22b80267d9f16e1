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

package registry

import (
	"github.com/google/uuid"

	"dirpx.dev/implx/apis"
	"dirpx.dev/implx/typeshape"
)

// Prepared is a Pool that accepts instances only for provider types fixed
// at construction.
type Prepared struct {
	*Pool
	// allowed is read-only after construction.
	allowed map[*typeshape.Nominal]bool
}

// NewPrepared constructs a Prepared pool for the given provider types.
func NewPrepared(u *typeshape.Universe, providers ...*typeshape.Nominal) *Prepared {
	p := &Prepared{Pool: New(u), allowed: make(map[*typeshape.Nominal]bool, len(providers))}
	for _, n := range providers {
		if n != nil {
			p.allowed[n] = true
		}
	}
	return p
}

// PreparedFor constructs a Prepared pool for every provider type impl was
// resolved over.
func PreparedFor(u *typeshape.Universe, impl *apis.Implementation) *Prepared {
	ps := impl.Providers()
	ns := make([]*typeshape.Nominal, 0, len(ps))
	for _, p := range ps {
		ns = append(ns, p.Type)
	}
	return NewPrepared(u, ns...)
}

// Accepts reports whether provider was prepared.
func (p *Prepared) Accepts(provider *typeshape.Nominal) bool {
	return p.allowed[provider]
}

// Add files instances under provider if it was prepared.
func (p *Prepared) Add(provider *typeshape.Nominal, instances ...any) ([]uuid.UUID, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if !p.allowed[provider] {
		return nil, ErrNotPrepared
	}
	return p.Pool.Add(provider, instances...)
}

// AddValue files each instance under its prepared provider type. It files
// all instances or, on error, none.
func (p *Prepared) AddValue(instances ...any) ([]uuid.UUID, error) {
	ns, err := p.providersOf(instances, p.Accepts)
	if err != nil {
		return nil, err
	}
	return p.file(ns, instances), nil
}

// Ensure both pools implement apis.Pool.
var (
	_ apis.Pool = (*Pool)(nil)
	_ apis.Pool = (*Prepared)(nil)
)
