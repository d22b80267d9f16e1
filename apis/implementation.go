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
	"fmt"
	"slices"
	"strings"
)

// ImplementEntry is one operation with its resolved candidates, in
// resolution order.
type ImplementEntry struct {
	Operation  *Operation
	Candidates []*CandidateMethod
}

// Implementation is the resolved, immutable mapping from each implementable
// operation of an abstract type to its candidate methods. It is safe to
// share across goroutines without locking.
type Implementation struct {
	abstract  *AbstractType
	providers []*ProviderType
	entries   []ImplementEntry
	index     map[*Operation]int
}

// NewImplementation assembles an Implementation. Inputs are copied; callers
// may reuse their slices afterwards.
func NewImplementation(abstract *AbstractType, providers []*ProviderType, entries []ImplementEntry) *Implementation {
	impl := &Implementation{
		abstract:  abstract,
		providers: slices.Clone(providers),
		entries:   make([]ImplementEntry, len(entries)),
		index:     make(map[*Operation]int, len(entries)),
	}
	for i, e := range entries {
		impl.entries[i] = ImplementEntry{Operation: e.Operation, Candidates: slices.Clip(slices.Clone(e.Candidates))}
		impl.index[e.Operation] = i
	}
	return impl
}

// Abstract returns the abstract type.
func (i *Implementation) Abstract() *AbstractType { return i.abstract }

// Providers returns the provider types considered, in caller order.
func (i *Implementation) Providers() []*ProviderType { return slices.Clone(i.providers) }

// Entries returns a copy of the ordered entries.
func (i *Implementation) Entries() []ImplementEntry { return slices.Clone(i.entries) }

// Operations returns the implementable operations in declaration order.
func (i *Implementation) Operations() []*Operation {
	out := make([]*Operation, len(i.entries))
	for k, e := range i.entries {
		out[k] = e.Operation
	}
	return out
}

// Candidates returns the candidates of op in resolution order. The result
// is shared and must not be modified. Unknown operations yield nil.
func (i *Implementation) Candidates(op *Operation) []*CandidateMethod {
	k, ok := i.index[op]
	if !ok {
		return nil
	}
	return i.entries[k].Candidates
}

// Operation looks up an implementable operation by signature, then by name
// or alias. With overloaded names the first declared operation wins.
func (i *Implementation) Operation(id string) (*Operation, bool) {
	for _, e := range i.entries {
		if e.Operation.Signature() == id {
			return e.Operation, true
		}
	}
	for _, e := range i.entries {
		if e.Operation.Identifies(id) {
			return e.Operation, true
		}
	}
	return nil, false
}

// Equal reports whether i and o hold the same abstract type, the same set
// of providers and, per operation, the same set of candidates. Resolution
// order is ignored, so re-resolving with a permuted provider list compares
// equal.
func (i *Implementation) Equal(o *Implementation) bool {
	if i == o {
		return true
	}
	if i == nil || o == nil || i.abstract != o.abstract || len(i.entries) != len(o.entries) {
		return false
	}
	if !sameSet(i.providers, o.providers, providerKey) {
		return false
	}
	for _, e := range i.entries {
		k, ok := o.index[e.Operation]
		if !ok || !sameSet(e.Candidates, o.entries[k].Candidates, candidateKey) {
			return false
		}
	}
	return true
}

// String renders a compact summary, one operation per line.
func (i *Implementation) String() string {
	var b strings.Builder
	b.WriteString(i.abstract.Name())
	for _, e := range i.entries {
		b.WriteString("\n  ")
		b.WriteString(e.Operation.Signature())
		b.WriteString(" -> [")
		for k, c := range e.Candidates {
			if k > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.String())
		}
		b.WriteByte(']')
	}
	return b.String()
}

func providerKey(p *ProviderType) string { return fmt.Sprintf("%p", p) }

func candidateKey(c *CandidateMethod) string {
	return fmt.Sprintf("%p|%p|%v|%p|%v|%p|%v|%d",
		c.Provider, c.Method, c.ParamIndexes,
		c.Validity, c.ValidityIndexes,
		c.PriorityMethod, c.PriorityIndexes, c.PriorityValue)
}

func sameSet[T any](a, b []T, key func(T) string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, x := range a {
		counts[key(x)]++
	}
	for _, x := range b {
		k := key(x)
		if counts[k] == 0 {
			return false
		}
		counts[k]--
	}
	return true
}
