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
	"errors"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"

	"dirpx.dev/implx/typeshape"
	uref "dirpx.dev/implx/utils/reflect"
)

var (
	// ErrNilProvider is returned when a nil provider type is provided.
	ErrNilProvider = errors.New("implx(registry): nil provider type provided")
	// ErrNilInstance is returned when a nil instance is provided.
	ErrNilInstance = errors.New("implx(registry): nil instance provided")
	// ErrUnknownType indicates that an instance's Go type is bound to no
	// provider nominal in the universe.
	ErrUnknownType = errors.New("implx(registry): instance type has no provider type")
	// ErrNotPrepared indicates an instance of a provider type the pool was
	// not prepared for.
	ErrNotPrepared = errors.New("implx(registry): provider type not prepared")
)

// Entry is a single live instance in a Pool snapshot.
type Entry struct {
	// Handle identifies the instance for removal.
	Handle uuid.UUID
	// Provider is the provider type the instance is filed under.
	Provider *typeshape.Nominal
	// Instance is the live provider instance.
	Instance any
}

// slot is an immutable, copy-on-write list of instances of one provider.
// Readers may hold a slot while writers publish a replacement.
type slot struct {
	handles   []uuid.UUID
	instances []any
}

// Pool is an editable apis.Pool backed by sync.Map. Reads are lock-free and
// never observe a partially written slot; writers are serialized.
type Pool struct {
	// u binds Go types to provider nominals for AddValue.
	u *typeshape.Universe
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps *typeshape.Nominal to *slot.
	m sync.Map
	// count tracks the number of live instances.
	count int
}

// New constructs an empty Pool. u is consulted by AddValue only and may be nil.
func New(u *typeshape.Universe) *Pool {
	return &Pool{u: u}
}

// Get returns the live instances of provider. The returned slice is never
// modified afterwards and must not be modified by the caller.
func (p *Pool) Get(provider *typeshape.Nominal) []any {
	if provider == nil {
		return nil
	}
	if v, ok := p.m.Load(provider); ok {
		return v.(*slot).instances
	}
	return nil
}

// Add files instances under provider and returns one handle per instance.
func (p *Pool) Add(provider *typeshape.Nominal, instances ...any) ([]uuid.UUID, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if slices.Contains(instances, nil) {
		return nil, ErrNilInstance
	}
	ns := make([]*typeshape.Nominal, len(instances))
	for i := range ns {
		ns[i] = provider
	}
	return p.file(ns, instances), nil
}

// AddValue files each instance under the provider type its Go type is bound
// to in the universe. Pointers fall back to their nearest named type. It
// files all instances or, on error, none.
func (p *Pool) AddValue(instances ...any) ([]uuid.UUID, error) {
	ns, err := p.providersOf(instances, nil)
	if err != nil {
		return nil, err
	}
	return p.file(ns, instances), nil
}

// providersOf finds the provider nominal of every instance. A non-nil allow
// rejects providers with ErrNotPrepared.
func (p *Pool) providersOf(instances []any, allow func(*typeshape.Nominal) bool) ([]*typeshape.Nominal, error) {
	ns := make([]*typeshape.Nominal, len(instances))
	for i, inst := range instances {
		n, err := p.providerOf(inst)
		if err != nil {
			return nil, err
		}
		if allow != nil && !allow(n) {
			return nil, ErrNotPrepared
		}
		ns[i] = n
	}
	return ns, nil
}

// file publishes instances[i] under ns[i] in one write.
func (p *Pool) file(ns []*typeshape.Nominal, instances []any) []uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := make(map[*typeshape.Nominal]*slot)
	hs := make([]uuid.UUID, len(instances))
	for i, inst := range instances {
		s, ok := next[ns[i]]
		if !ok {
			old := p.load(ns[i])
			s = &slot{handles: slices.Clone(old.handles), instances: slices.Clone(old.instances)}
			next[ns[i]] = s
		}
		hs[i] = uuid.New()
		s.handles = append(s.handles, hs[i])
		s.instances = append(s.instances, inst)
	}
	for n, s := range next {
		p.m.Store(n, s)
	}
	p.count += len(instances)
	return hs
}

// providerOf finds the provider nominal of inst's Go type.
func (p *Pool) providerOf(inst any) (*typeshape.Nominal, error) {
	if inst == nil {
		return nil, ErrNilInstance
	}
	t := reflect.TypeOf(inst)
	if n, ok := p.u.Lookup(t); ok {
		return n, nil
	}
	if base, err := uref.Normalize(t, 0); err == nil {
		if n, ok := p.u.Lookup(base); ok {
			return n, nil
		}
	}
	return nil, ErrUnknownType
}

// Remove drops the instance with handle h. It reports whether one was found.
func (p *Pool) Remove(h uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := false
	p.m.Range(func(key, value any) bool {
		s := value.(*slot)
		i := slices.Index(s.handles, h)
		if i < 0 {
			return true
		}
		p.replace(key.(*typeshape.Nominal), s, func(k int) bool { return k == i })
		removed = true
		return false
	})
	return removed
}

// RemoveInstance drops every occurrence of inst under provider and returns
// how many were removed. Instances of non-comparable types never match.
func (p *Pool) RemoveInstance(provider *typeshape.Nominal, inst any) int {
	if provider == nil || inst == nil || !reflect.TypeOf(inst).Comparable() {
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.load(provider)
	return p.replace(provider, s, func(k int) bool { return same(s.instances[k], inst) })
}

// RemoveProvider drops every instance of provider and returns how many
// were removed.
func (p *Pool) RemoveProvider(provider *typeshape.Nominal) int {
	if provider == nil {
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	v, ok := p.m.LoadAndDelete(provider)
	if !ok {
		return 0
	}
	n := len(v.(*slot).instances)
	p.count -= n
	return n
}

// Contains reports whether inst is filed under provider.
func (p *Pool) Contains(provider *typeshape.Nominal, inst any) bool {
	if inst == nil || !reflect.TypeOf(inst).Comparable() {
		return false
	}
	return slices.ContainsFunc(p.Get(provider), func(x any) bool { return same(x, inst) })
}

// Providers returns the provider types with at least one live instance
// (order is unspecified).
func (p *Pool) Providers() []*typeshape.Nominal {
	var out []*typeshape.Nominal
	p.m.Range(func(key, value any) bool {
		if len(value.(*slot).instances) > 0 {
			out = append(out, key.(*typeshape.Nominal))
		}
		return true
	})
	return out
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (p *Pool) Entries() []Entry {
	entries := make([]Entry, 0, p.Count())
	p.m.Range(func(key, value any) bool {
		s := value.(*slot)
		for i, inst := range s.instances {
			entries = append(entries, Entry{Handle: s.handles[i], Provider: key.(*typeshape.Nominal), Instance: inst})
		}
		return true
	})
	return entries
}

// Count returns the number of live instances.
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Reset drops every instance.
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m.Range(func(key, _ any) bool {
		p.m.Delete(key)
		return true
	})
	p.count = 0
}

// load returns the current slot of provider, or an empty one. Callers hold mu.
func (p *Pool) load(provider *typeshape.Nominal) *slot {
	if v, ok := p.m.Load(provider); ok {
		return v.(*slot)
	}
	return &slot{}
}

// replace publishes s without the positions drop selects and returns how
// many were dropped. Callers hold mu.
func (p *Pool) replace(provider *typeshape.Nominal, s *slot, drop func(int) bool) int {
	next := &slot{}
	for k := range s.instances {
		if drop(k) {
			continue
		}
		next.handles = append(next.handles, s.handles[k])
		next.instances = append(next.instances, s.instances[k])
	}
	n := len(s.instances) - len(next.instances)
	if n == 0 {
		return 0
	}
	if len(next.instances) == 0 {
		p.m.Delete(provider)
	} else {
		p.m.Store(provider, next)
	}
	p.count -= n
	return n
}

// same compares instances by identity for pointers and by value otherwise.
func same(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
